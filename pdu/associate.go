package pdu

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/meridianhealth/dicomul/aetitle"
	"github.com/meridianhealth/dicomul/pdu/pduitem"
)

// CurrentProtocolVersion is the only Upper Layer protocol version this
// package knows how to speak, per PS3.8 9.3.2.
const CurrentProtocolVersion uint16 = 1

// Associate is the shared wire shape of A-ASSOCIATE-RQ and A-ASSOCIATE-AC
// (PS3.8 9.3.2 and 9.3.3): both carry a protocol version, the called and
// calling AE titles, and an ordered list of variable items. Which PDU this
// is is carried in Type, not in a separate Go type, since the two differ
// only in which item types are legal inside them -- a distinction enforced
// by the negotiator, not the codec.
type Associate struct {
	Type            Type // TypeAssociateRQ or TypeAssociateAC
	ProtocolVersion uint16
	Called          aetitle.Title
	Calling         aetitle.Title
	Items           []pduitem.Item
}

func (p *Associate) PDUType() Type { return p.Type }

func (p *Associate) writePayload(w *dicomio.Writer) error {
	if p.Type != TypeAssociateRQ && p.Type != TypeAssociateAC {
		return fmt.Errorf("associate: invalid type %s", p.Type)
	}
	if err := w.WriteUInt16(p.ProtocolVersion); err != nil {
		return err
	}
	if err := w.WriteZeros(2); err != nil {
		return err
	}
	if err := w.WriteBytes(p.Called[:]); err != nil {
		return err
	}
	if err := w.WriteBytes(p.Calling[:]); err != nil {
		return err
	}
	if err := w.WriteZeros(32); err != nil {
		return err
	}
	for _, item := range p.Items {
		if err := item.Write(w); err != nil {
			return err
		}
	}
	return nil
}

func (p *Associate) String() string {
	return fmt.Sprintf("%s{version:%d called:%q calling:%q items:%s}",
		p.Type, p.ProtocolVersion, p.Called.String(), p.Calling.String(), pduitem.ListString(p.Items))
}

func readAssociate(r *dicomio.Reader, t Type) (*Associate, error) {
	p := &Associate{Type: t}
	version, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("protocol version: %w", err)
	}
	p.ProtocolVersion = version
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	calledRaw, err := r.ReadBytes(aetitle.Length)
	if err != nil {
		return nil, fmt.Errorf("called ae title: %w", err)
	}
	called, err := aetitle.Parse(string(calledRaw))
	if err != nil {
		return nil, fmt.Errorf("called ae title: %w", err)
	}
	p.Called = called

	callingRaw, err := r.ReadBytes(aetitle.Length)
	if err != nil {
		return nil, fmt.Errorf("calling ae title: %w", err)
	}
	calling, err := aetitle.Parse(string(callingRaw))
	if err != nil {
		return nil, fmt.Errorf("calling ae title: %w", err)
	}
	p.Calling = calling

	if err := r.Skip(32); err != nil {
		return nil, err
	}
	for r.BytesLeftUntilLimit() > 0 {
		item, err := pduitem.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("item: %w", err)
		}
		p.Items = append(p.Items, item)
	}
	return p, nil
}
