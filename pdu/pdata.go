package pdu

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// PresentationDataValue is one Presentation Data Value item inside a
// P-DATA-TF PDU (PS3.8 9.3.5.1): a context ID, a command/data and
// first/last fragment flag packed into one byte, and the fragment itself.
// This repository does not interpret Value -- that is the DIMSE layer's
// job -- it only carries it across the wire.
type PresentationDataValue struct {
	ContextID byte
	Command   bool // true: Value is a DIMSE command fragment; false: a data fragment
	Last      bool // true: this is the final fragment of the message
	Value     []byte
}

func writePresentationDataValue(w *dicomio.Writer, v PresentationDataValue) error {
	var flags byte
	if v.Command {
		flags |= 0x01
	}
	if v.Last {
		flags |= 0x02
	}
	if err := w.WriteUInt32(uint32(2 + len(v.Value))); err != nil {
		return err
	}
	if err := w.WriteByte(v.ContextID); err != nil {
		return err
	}
	if err := w.WriteByte(flags); err != nil {
		return err
	}
	return w.WriteBytes(v.Value)
}

func readPresentationDataValue(r *dicomio.Reader) (PresentationDataValue, error) {
	length, err := r.ReadUInt32()
	if err != nil {
		return PresentationDataValue{}, fmt.Errorf("length: %w", err)
	}
	if length < 2 {
		return PresentationDataValue{}, fmt.Errorf("length %d too small for context id and flags", length)
	}
	contextID, err := r.ReadByte()
	if err != nil {
		return PresentationDataValue{}, fmt.Errorf("context id: %w", err)
	}
	flags, err := r.ReadByte()
	if err != nil {
		return PresentationDataValue{}, fmt.Errorf("flags: %w", err)
	}
	value, err := r.ReadBytes(int(length - 2))
	if err != nil {
		return PresentationDataValue{}, fmt.Errorf("value: %w", err)
	}
	return PresentationDataValue{
		ContextID: contextID,
		Command:   flags&0x01 != 0,
		Last:      flags&0x02 != 0,
		Value:     value,
	}, nil
}

// PDataTF is the P-DATA-TF PDU (PS3.8 9.3.5): the only PDU carrying DIMSE
// traffic once an association is established.
type PDataTF struct {
	Values []PresentationDataValue
}

func (p *PDataTF) PDUType() Type { return TypePDataTF }

func (p *PDataTF) writePayload(w *dicomio.Writer) error {
	for _, v := range p.Values {
		if err := writePresentationDataValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *PDataTF) String() string {
	return fmt.Sprintf("P-DATA-TF{%d value(s)}", len(p.Values))
}

func readPDataTF(r *dicomio.Reader, length uint32) (*PDataTF, error) {
	p := &PDataTF{}
	for r.BytesLeftUntilLimit() > 0 {
		v, err := readPresentationDataValue(r)
		if err != nil {
			return nil, fmt.Errorf("presentation data value: %w", err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}
