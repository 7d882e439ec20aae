package pduitem

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/meridianhealth/dicomul/uid"
)

// SOPClassExtendedNegotiationItem carries SOP-class-specific negotiation
// fields whose contents are opaque to this layer (PS3.7 Annex D.3.3.5).
type SOPClassExtendedNegotiationItem struct {
	SOPClassUID     uid.UID
	ApplicationInfo []byte
}

func (v *SOPClassExtendedNegotiationItem) ItemType() Type { return TypeSOPClassExtendedNegotiation }

func (v *SOPClassExtendedNegotiationItem) Write(w *dicomio.Writer) error {
	length := 2 + len(v.SOPClassUID) + len(v.ApplicationInfo)
	if err := writeHeader(w, TypeSOPClassExtendedNegotiation, uint16(length)); err != nil {
		return err
	}
	if err := w.WriteUInt16(uint16(len(v.SOPClassUID))); err != nil {
		return err
	}
	if err := w.WriteString(string(v.SOPClassUID)); err != nil {
		return err
	}
	return w.WriteBytes(v.ApplicationInfo)
}

func (v *SOPClassExtendedNegotiationItem) String() string {
	return fmt.Sprintf("SOPClassExtendedNegotiation{sop:%s info:%dB}", v.SOPClassUID, len(v.ApplicationInfo))
}

func decodeSOPClassExtendedNegotiation(r *dicomio.Reader, length uint16) (Item, error) {
	if err := r.PushLimit(int64(length)); err != nil {
		return nil, fmt.Errorf("pduitem: sop class extended negotiation: push limit: %w", err)
	}
	defer r.PopLimit()

	uidLen, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: sop class extended negotiation: uid length: %w", err)
	}
	sop, err := r.ReadString(uint32(uidLen))
	if err != nil {
		return nil, fmt.Errorf("pduitem: sop class extended negotiation: sop class uid: %w", err)
	}
	remaining := r.BytesLeftUntilLimit()
	info, err := r.ReadBytes(int(remaining))
	if err != nil {
		return nil, fmt.Errorf("pduitem: sop class extended negotiation: application info: %w", err)
	}
	return &SOPClassExtendedNegotiationItem{SOPClassUID: uid.UID(sop), ApplicationInfo: info}, nil
}

// RelatedGeneralSOPClass is one length-prefixed UID in a
// SOPClassCommonExtendedNegotiationItem's related general SOP class list.
type RelatedGeneralSOPClass struct {
	UID uid.UID
}

// SOPClassCommonExtendedNegotiationItem extends negotiation with the
// service class UID and any related general SOP classes for a given SOP
// Class UID (PS3.7 Annex D.3.3.6).
type SOPClassCommonExtendedNegotiationItem struct {
	SOPClassUID            uid.UID
	ServiceClassUID        uid.UID
	RelatedGeneralSOPClass []RelatedGeneralSOPClass
}

func (v *SOPClassCommonExtendedNegotiationItem) ItemType() Type {
	return TypeSOPClassCommonExtendedNeg
}

func (v *SOPClassCommonExtendedNegotiationItem) Write(w *dicomio.Writer) error {
	length := 2 + len(v.SOPClassUID) + 2 + len(v.ServiceClassUID)
	for _, rel := range v.RelatedGeneralSOPClass {
		length += 2 + len(rel.UID)
	}
	if err := writeHeader(w, TypeSOPClassCommonExtendedNeg, uint16(length)); err != nil {
		return err
	}
	if err := w.WriteUInt16(uint16(len(v.SOPClassUID))); err != nil {
		return err
	}
	if err := w.WriteString(string(v.SOPClassUID)); err != nil {
		return err
	}
	if err := w.WriteUInt16(uint16(len(v.ServiceClassUID))); err != nil {
		return err
	}
	if err := w.WriteString(string(v.ServiceClassUID)); err != nil {
		return err
	}
	for _, rel := range v.RelatedGeneralSOPClass {
		if err := w.WriteUInt16(uint16(len(rel.UID))); err != nil {
			return err
		}
		if err := w.WriteString(string(rel.UID)); err != nil {
			return err
		}
	}
	return nil
}

func (v *SOPClassCommonExtendedNegotiationItem) String() string {
	return fmt.Sprintf("SOPClassCommonExtendedNegotiation{sop:%s service:%s related:%d}",
		v.SOPClassUID, v.ServiceClassUID, len(v.RelatedGeneralSOPClass))
}

func decodeSOPClassCommonExtendedNegotiation(r *dicomio.Reader, length uint16) (Item, error) {
	if err := r.PushLimit(int64(length)); err != nil {
		return nil, fmt.Errorf("pduitem: sop class common extended negotiation: push limit: %w", err)
	}
	defer r.PopLimit()

	sopLen, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: sop class common extended negotiation: sop length: %w", err)
	}
	sop, err := r.ReadString(uint32(sopLen))
	if err != nil {
		return nil, fmt.Errorf("pduitem: sop class common extended negotiation: sop class uid: %w", err)
	}
	serviceLen, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: sop class common extended negotiation: service length: %w", err)
	}
	service, err := r.ReadString(uint32(serviceLen))
	if err != nil {
		return nil, fmt.Errorf("pduitem: sop class common extended negotiation: service class uid: %w", err)
	}
	v := &SOPClassCommonExtendedNegotiationItem{
		SOPClassUID:     uid.UID(sop),
		ServiceClassUID: uid.UID(service),
	}
	for r.BytesLeftUntilLimit() > 0 {
		relLen, err := r.ReadUInt16()
		if err != nil {
			return nil, fmt.Errorf("pduitem: sop class common extended negotiation: related length: %w", err)
		}
		rel, err := r.ReadString(uint32(relLen))
		if err != nil {
			return nil, fmt.Errorf("pduitem: sop class common extended negotiation: related uid: %w", err)
		}
		v.RelatedGeneralSOPClass = append(v.RelatedGeneralSOPClass, RelatedGeneralSOPClass{UID: uid.UID(rel)})
	}
	return v, nil
}
