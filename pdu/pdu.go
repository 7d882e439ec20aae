// Package pdu implements the seven Upper Layer Protocol Data Units of
// PS3.8 9.3: their common 6-byte header and the type-specific payload each
// one carries.
package pdu

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// Type is the one-byte PDU type tag in the common header (PS3.8 Table 9-17).
type Type byte

const (
	TypeAssociateRQ Type = 0x01
	TypeAssociateAC Type = 0x02
	TypeAssociateRJ Type = 0x03
	TypePDataTF     Type = 0x04
	TypeReleaseRQ   Type = 0x05
	TypeReleaseRP   Type = 0x06
	TypeAbort       Type = 0x07
)

func (t Type) String() string {
	switch t {
	case TypeAssociateRQ:
		return "A-ASSOCIATE-RQ"
	case TypeAssociateAC:
		return "A-ASSOCIATE-AC"
	case TypeAssociateRJ:
		return "A-ASSOCIATE-RJ"
	case TypePDataTF:
		return "P-DATA-TF"
	case TypeReleaseRQ:
		return "A-RELEASE-RQ"
	case TypeReleaseRP:
		return "A-RELEASE-RP"
	case TypeAbort:
		return "A-ABORT"
	default:
		return fmt.Sprintf("PDU(0x%02x)", byte(t))
	}
}

// PDU is implemented by each of the seven Upper Layer PDU types. Decode
// dispatches on the type tag with a switch, Encode calls the PDU's own
// writePayload, and the event-mapping layer above this package uses a type
// switch; nothing uses reflection.
type PDU interface {
	fmt.Stringer
	PDUType() Type
	writePayload(w *dicomio.Writer) error
}

// DecodeError wraps a failure to parse a PDU or one of its fields, carrying
// the PDU type tag from the header, a short reason, and the underlying
// cause when there is one.
type DecodeError struct {
	PDUType Type
	Reason  string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdu: decode %s: %s: %v", e.PDUType, e.Reason, e.Err)
	}
	return fmt.Sprintf("pdu: decode %s: %s", e.PDUType, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Encode serializes pdu into its wire form: the 6-byte common header
// followed by the type-specific payload.
func Encode(p PDU) ([]byte, error) {
	var payloadBuf bytes.Buffer
	w := dicomio.NewWriter(&payloadBuf, binary.BigEndian, true)
	if err := p.writePayload(&w); err != nil {
		return nil, fmt.Errorf("pdu: encode %s: %w", p.PDUType(), err)
	}
	payload := payloadBuf.Bytes()

	var out bytes.Buffer
	out.WriteByte(byte(p.PDUType()))
	out.WriteByte(0) // reserved
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	out.Write(lenBuf[:])
	out.Write(payload)
	return out.Bytes(), nil
}

// MaxPDULength is the largest payload length this package will allocate a
// buffer for when decoding. It is a fixed ceiling against a corrupt or
// hostile length field causing an unbounded allocation, not the negotiated
// per-association Maximum Length: PS3.8 9.1.1's Maximum Length item bounds
// the size of a P-DATA-TF fragment, not the size of any encoded PDU, so
// Decode never rejects a PDU merely for exceeding it.
const MaxPDULength = 1 << 26 // 64 MiB

// Decode reads one complete PDU from r: the 6-byte common header, then
// exactly the declared payload length. A declared length over the fixed
// MaxPDULength ceiling is a decode error, not a truncated read; a length
// under that ceiling is always read in full regardless of any locally
// negotiated Maximum Length.
func Decode(r io.Reader) (PDU, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("pdu: read header: %w", err)
	}
	pduType := Type(header[0])
	length := binary.BigEndian.Uint32(header[2:6])

	if length > MaxPDULength {
		return nil, &DecodeError{PDUType: pduType, Reason: fmt.Sprintf("length %d exceeds limit %d", length, uint32(MaxPDULength))}
	}

	body := io.LimitReader(r, int64(length))
	br := dicomio.NewReader(bufio.NewReader(body), binary.BigEndian, int64(length))

	var p PDU
	var err error
	switch pduType {
	case TypeAssociateRQ:
		p, err = readAssociate(&br, TypeAssociateRQ)
	case TypeAssociateAC:
		p, err = readAssociate(&br, TypeAssociateAC)
	case TypeAssociateRJ:
		p, err = readAssociateRJ(&br)
	case TypePDataTF:
		p, err = readPDataTF(&br, length)
	case TypeReleaseRQ:
		p, err = readReleaseRQ(&br)
	case TypeReleaseRP:
		p, err = readReleaseRP(&br)
	case TypeAbort:
		p, err = readAbort(&br)
	default:
		return nil, &DecodeError{PDUType: pduType, Reason: "unrecognized PDU type"}
	}
	if err != nil {
		return nil, &DecodeError{PDUType: pduType, Reason: "malformed payload", Err: err}
	}
	return p, nil
}
