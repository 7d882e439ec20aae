package pduitem

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/meridianhealth/dicomul/uid"
)

// AbstractSyntaxItem names a single SOP Class or Meta SOP Class proposed in
// a Presentation Context (PS3.8 9.3.2.2.1).
type AbstractSyntaxItem struct {
	Name uid.UID
}

func (v *AbstractSyntaxItem) ItemType() Type { return TypeAbstractSyntax }

func (v *AbstractSyntaxItem) Write(w *dicomio.Writer) error {
	return writeHeaderAndString(w, TypeAbstractSyntax, string(v.Name))
}

func (v *AbstractSyntaxItem) String() string {
	return fmt.Sprintf("AbstractSyntax{%s}", v.Name)
}

func decodeAbstractSyntax(r *dicomio.Reader, length uint16) (Item, error) {
	s, err := r.ReadString(uint32(length))
	if err != nil {
		return nil, fmt.Errorf("pduitem: abstract syntax: %w", err)
	}
	return &AbstractSyntaxItem{Name: uid.UID(s)}, nil
}

// TransferSyntaxItem names a single Transfer Syntax proposed or accepted in
// a Presentation Context (PS3.8 9.3.2.2.2).
type TransferSyntaxItem struct {
	Name uid.UID
}

func (v *TransferSyntaxItem) ItemType() Type { return TypeTransferSyntax }

func (v *TransferSyntaxItem) Write(w *dicomio.Writer) error {
	return writeHeaderAndString(w, TypeTransferSyntax, string(v.Name))
}

func (v *TransferSyntaxItem) String() string {
	return fmt.Sprintf("TransferSyntax{%s}", v.Name)
}

func decodeTransferSyntax(r *dicomio.Reader, length uint16) (Item, error) {
	s, err := r.ReadString(uint32(length))
	if err != nil {
		return nil, fmt.Errorf("pduitem: transfer syntax: %w", err)
	}
	return &TransferSyntaxItem{Name: uid.UID(s)}, nil
}
