// Package uid validates and carries DICOM Unique Identifiers.
//
// The dataset codec and SOP class/transfer syntax registries that would
// normally back a UID dictionary are out of scope for this repository; this
// package only knows the wire syntax of a UID (PS3.5 9) and a handful of
// well-known UIDs needed to drive association negotiation.
package uid

import (
	"fmt"
	"strings"
)

// UID is a validated DICOM Unique Identifier: a dotted sequence of numeric
// components, at most 64 characters, with no component carrying a leading
// zero (other than the single-digit "0" itself).
type UID string

// MaxLength is the maximum encoded length of a UID, per PS3.5 9.1.
const MaxLength = 64

// Well-known UIDs used by the negotiation fixtures and tests in this repo.
// A full SOP class / transfer syntax registry is out of scope.
const (
	DICOMApplicationContextName = UID("1.2.840.10008.3.1.1.1")
	VerificationSOPClass        = UID("1.2.840.10008.1.1")
	ImplicitVRLittleEndian      = UID("1.2.840.10008.1.2")
	ExplicitVRLittleEndian      = UID("1.2.840.10008.1.2.1")
	ExplicitVRBigEndian         = UID("1.2.840.10008.1.2.2")
)

// Parse validates s as a DICOM UID and returns it as a UID.
func Parse(s string) (UID, error) {
	if err := Validate(s); err != nil {
		return "", err
	}
	return UID(s), nil
}

// Validate reports whether s is syntactically a valid DICOM UID.
func Validate(s string) error {
	if s == "" {
		return fmt.Errorf("uid: empty UID")
	}
	if len(s) > MaxLength {
		return fmt.Errorf("uid: %q exceeds max length %d", s, MaxLength)
	}
	components := strings.Split(s, ".")
	for _, c := range components {
		if c == "" {
			return fmt.Errorf("uid: %q has an empty component", s)
		}
		for _, r := range c {
			if r < '0' || r > '9' {
				return fmt.Errorf("uid: %q contains non-numeric component %q", s, c)
			}
		}
		if len(c) > 1 && c[0] == '0' {
			return fmt.Errorf("uid: %q component %q has a leading zero", s, c)
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (u UID) String() string {
	return string(u)
}
