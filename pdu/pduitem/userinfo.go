package pduitem

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// UserInformationItem is a container for the association-tuning sub-items
// exchanged in Annex D of PS3.7: maximum PDU length, implementation
// class/version, async operations window, role selection, user identity,
// and the two SOP class negotiation items.
type UserInformationItem struct {
	Items []Item
}

func (v *UserInformationItem) ItemType() Type { return TypeUserInformation }

func (v *UserInformationItem) Write(w *dicomio.Writer) error {
	body, err := encodeItems(v.Items)
	if err != nil {
		return fmt.Errorf("pduitem: user information: %w", err)
	}
	return writeHeaderAndBytes(w, TypeUserInformation, body)
}

func (v *UserInformationItem) String() string {
	return fmt.Sprintf("UserInformation{%s}", ListString(v.Items))
}

func decodeUserInformation(r *dicomio.Reader, length uint16) (Item, error) {
	v := &UserInformationItem{}
	if err := r.PushLimit(int64(length)); err != nil {
		return nil, fmt.Errorf("pduitem: user information: push limit: %w", err)
	}
	defer r.PopLimit()
	for r.BytesLeftUntilLimit() > 0 {
		item, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("pduitem: user information: sub-item: %w", err)
		}
		v.Items = append(v.Items, item)
	}
	return v, nil
}

// MaximumLengthItem states the maximum length, in bytes, of a single P-DATA
// fragment the sender is willing to receive (PS3.7 Annex D.1).
type MaximumLengthItem struct {
	MaximumLengthReceived uint32
}

func (v *MaximumLengthItem) ItemType() Type { return TypeMaximumLength }

func (v *MaximumLengthItem) Write(w *dicomio.Writer) error {
	if err := writeHeader(w, TypeMaximumLength, 4); err != nil {
		return err
	}
	return w.WriteUInt32(v.MaximumLengthReceived)
}

func (v *MaximumLengthItem) String() string {
	return fmt.Sprintf("MaximumLength{%d}", v.MaximumLengthReceived)
}

func decodeMaximumLength(r *dicomio.Reader, length uint16) (Item, error) {
	if length != 4 {
		return nil, fmt.Errorf("pduitem: maximum length: want 4 bytes, got %d", length)
	}
	n, err := r.ReadUInt32()
	if err != nil {
		return nil, fmt.Errorf("pduitem: maximum length: %w", err)
	}
	return &MaximumLengthItem{MaximumLengthReceived: n}, nil
}

// ImplementationClassUIDItem identifies the sending implementation
// (PS3.7 Annex D.3.3.2.1).
type ImplementationClassUIDItem struct {
	UID string
}

func (v *ImplementationClassUIDItem) ItemType() Type { return TypeImplementationClassUID }

func (v *ImplementationClassUIDItem) Write(w *dicomio.Writer) error {
	return writeHeaderAndString(w, TypeImplementationClassUID, v.UID)
}

func (v *ImplementationClassUIDItem) String() string {
	return fmt.Sprintf("ImplementationClassUID{%s}", v.UID)
}

func decodeImplementationClassUID(r *dicomio.Reader, length uint16) (Item, error) {
	s, err := r.ReadString(uint32(length))
	if err != nil {
		return nil, fmt.Errorf("pduitem: implementation class uid: %w", err)
	}
	return &ImplementationClassUIDItem{UID: s}, nil
}

// ImplementationVersionNameItem is an optional free-text implementation
// version string (PS3.7 Annex D.3.3.2.3).
type ImplementationVersionNameItem struct {
	Name string
}

func (v *ImplementationVersionNameItem) ItemType() Type { return TypeImplementationVersionName }

func (v *ImplementationVersionNameItem) Write(w *dicomio.Writer) error {
	return writeHeaderAndString(w, TypeImplementationVersionName, v.Name)
}

func (v *ImplementationVersionNameItem) String() string {
	return fmt.Sprintf("ImplementationVersionName{%s}", v.Name)
}

func decodeImplementationVersionName(r *dicomio.Reader, length uint16) (Item, error) {
	s, err := r.ReadString(uint32(length))
	if err != nil {
		return nil, fmt.Errorf("pduitem: implementation version name: %w", err)
	}
	return &ImplementationVersionNameItem{Name: s}, nil
}

// AsyncOpsWindowItem negotiates the maximum number of outstanding operations
// in each direction (PS3.7 Annex D.3.3.3.1). Neither DIMSE nor a Service
// Class is implemented in this repository, so these values are accepted and
// round-tripped but never interpreted.
type AsyncOpsWindowItem struct {
	MaxOpsInvoked   uint16
	MaxOpsPerformed uint16
}

func (v *AsyncOpsWindowItem) ItemType() Type { return TypeAsynchronousOperationsWindow }

func (v *AsyncOpsWindowItem) Write(w *dicomio.Writer) error {
	if err := writeHeader(w, TypeAsynchronousOperationsWindow, 4); err != nil {
		return err
	}
	if err := w.WriteUInt16(v.MaxOpsInvoked); err != nil {
		return err
	}
	return w.WriteUInt16(v.MaxOpsPerformed)
}

func (v *AsyncOpsWindowItem) String() string {
	return fmt.Sprintf("AsyncOpsWindow{invoked:%d performed:%d}", v.MaxOpsInvoked, v.MaxOpsPerformed)
}

func decodeAsyncOpsWindow(r *dicomio.Reader, length uint16) (Item, error) {
	if length != 4 {
		return nil, fmt.Errorf("pduitem: async ops window: want 4 bytes, got %d", length)
	}
	invoked, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: async ops window: invoked: %w", err)
	}
	performed, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: async ops window: performed: %w", err)
	}
	return &AsyncOpsWindowItem{MaxOpsInvoked: invoked, MaxOpsPerformed: performed}, nil
}
