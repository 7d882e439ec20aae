// Package aetitle provides the fixed-width, space-padded representation of a
// DICOM Application Entity title used on the wire in A-ASSOCIATE PDUs.
package aetitle

import (
	"fmt"
	"strings"
)

// Length is the fixed wire width of an AE title, per PS3.8 9.3.2.
const Length = 16

// Title is a 16-byte, space-padded AE title. The zero value is invalid; use
// Parse to construct one.
type Title [Length]byte

// Parse validates and normalizes s into a Title.
//
// s must not be empty once trailing spaces are stripped, and must not
// contain a backslash, CR, LF, or TAB anywhere in its first 16 bytes. Inputs
// longer than 16 bytes are truncated to 16; shorter inputs are right-padded
// with spaces.
func Parse(s string) (Title, error) {
	var t Title
	if len(s) > Length {
		s = s[:Length]
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '\r', '\n', '\t':
			return Title{}, fmt.Errorf("aetitle: %q contains a forbidden character", s)
		}
	}
	if strings.TrimRight(s, " ") == "" {
		return Title{}, fmt.Errorf("aetitle: %q is empty or all spaces", s)
	}
	copy(t[:], s)
	for i := len(s); i < Length; i++ {
		t[i] = ' '
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for fixtures and
// constants, not for data arriving off the wire.
func MustParse(s string) Title {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the title with trailing padding stripped.
func (t Title) String() string {
	return strings.TrimRight(string(t[:]), " ")
}

// IsZero reports whether t is the unset zero value.
func (t Title) IsZero() bool {
	return t == Title{}
}
