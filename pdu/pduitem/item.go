// Package pduitem implements the variable-length sub-items nested inside
// Upper Layer PDUs: Application Context, Presentation Context, Abstract and
// Transfer Syntax, User Information and its sub-items, SCP/SCU Role
// Selection, User Identity, and the two SOP Class Negotiation items.
//
// Every item shares the same 4-byte header: a 1-byte type tag, 1 reserved
// byte, and a 2-byte big-endian length of what follows (PS3.8 9.3).
package pduitem

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// Type identifies the kind of sub-item, per PS3.8 Table 9-12.
type Type byte

const (
	TypeApplicationContext           Type = 0x10
	TypePresentationContextRequest   Type = 0x20
	TypePresentationContextResponse  Type = 0x21
	TypeAbstractSyntax               Type = 0x30
	TypeTransferSyntax                Type = 0x40
	TypeUserInformation               Type = 0x50
	TypeMaximumLength                 Type = 0x51
	TypeImplementationClassUID        Type = 0x52
	TypeAsynchronousOperationsWindow  Type = 0x53
	TypeRoleSelection                 Type = 0x54
	TypeImplementationVersionName     Type = 0x55
	TypeSOPClassExtendedNegotiation   Type = 0x56
	TypeSOPClassCommonExtendedNeg     Type = 0x57
	TypeUserIdentityRequest           Type = 0x58
	TypeUserIdentityResponse          Type = 0x59
)

// Item is a sub-item nested inside a Presentation Context or User
// Information item.
type Item interface {
	fmt.Stringer
	ItemType() Type
	Write(w *dicomio.Writer) error
}

// UnsupportedItem preserves the raw body of an item type this package does
// not otherwise decode, so that round-tripping an unrecognized item does not
// lose data.
type UnsupportedItem struct {
	Type Type
	Data []byte
}

func (v *UnsupportedItem) ItemType() Type { return v.Type }

func (v *UnsupportedItem) Write(w *dicomio.Writer) error {
	return writeHeaderAndBytes(w, v.Type, v.Data)
}

func (v *UnsupportedItem) String() string {
	return fmt.Sprintf("Unsupported{type: 0x%02x, %d bytes}", byte(v.Type), len(v.Data))
}

func writeHeader(w *dicomio.Writer, t Type, length uint16) error {
	if err := w.WriteByte(byte(t)); err != nil {
		return err
	}
	if err := w.WriteZeros(1); err != nil {
		return err
	}
	return w.WriteUInt16(length)
}

func writeHeaderAndBytes(w *dicomio.Writer, t Type, body []byte) error {
	if err := writeHeader(w, t, uint16(len(body))); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func writeHeaderAndString(w *dicomio.Writer, t Type, s string) error {
	if err := writeHeader(w, t, uint16(len(s))); err != nil {
		return err
	}
	return w.WriteString(s)
}

// encodeItems serializes items into a standalone buffer so that callers that
// need to know the encoded length up front (UserInformationItem,
// PresentationContextItem) can do so before writing their own header.
func encodeItems(items []Item) ([]byte, error) {
	var buf bytes.Buffer
	w := dicomio.NewWriter(&buf, binary.BigEndian, true)
	for _, item := range items {
		if err := item.Write(&w); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Decode reads one sub-item, dispatching on its type tag. Unknown types are
// preserved as UnsupportedItem rather than rejected, matching the PS3.7
// Annex D guidance that unrecognized items should be ignored, not fatal.
func Decode(r *dicomio.Reader) (Item, error) {
	rawType, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("pduitem: read type: %w", err)
	}
	if err := r.Skip(1); err != nil {
		return nil, fmt.Errorf("pduitem: skip reserved: %w", err)
	}
	length, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: read length: %w", err)
	}
	t := Type(rawType)
	switch t {
	case TypeApplicationContext:
		return decodeApplicationContext(r, length)
	case TypeAbstractSyntax:
		return decodeAbstractSyntax(r, length)
	case TypeTransferSyntax:
		return decodeTransferSyntax(r, length)
	case TypePresentationContextRequest, TypePresentationContextResponse:
		return decodePresentationContext(r, t, length)
	case TypeUserInformation:
		return decodeUserInformation(r, length)
	case TypeMaximumLength:
		return decodeMaximumLength(r, length)
	case TypeImplementationClassUID:
		return decodeImplementationClassUID(r, length)
	case TypeAsynchronousOperationsWindow:
		return decodeAsyncOpsWindow(r, length)
	case TypeRoleSelection:
		return decodeRoleSelection(r, length)
	case TypeImplementationVersionName:
		return decodeImplementationVersionName(r, length)
	case TypeSOPClassExtendedNegotiation:
		return decodeSOPClassExtendedNegotiation(r, length)
	case TypeSOPClassCommonExtendedNeg:
		return decodeSOPClassCommonExtendedNegotiation(r, length)
	case TypeUserIdentityRequest:
		return decodeUserIdentityRequest(r, length)
	case TypeUserIdentityResponse:
		return decodeUserIdentityResponse(r, length)
	default:
		data, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("pduitem: read unsupported body: %w", err)
		}
		return &UnsupportedItem{Type: t, Data: data}, nil
	}
}

// ListString renders a slice of items for diagnostics/logging, matching the
// teacher's SubItemListString helper.
func ListString(items []Item) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(item.String())
	}
	buf.WriteByte(']')
	return buf.String()
}
