package pduitem

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// Result reports the outcome of a proposed Presentation Context, meaningful
// only on the A-ASSOCIATE-AC side (PS3.8 Table 9-18).
type Result byte

const (
	ResultAcceptance                            Result = 0
	ResultUserRejection                         Result = 1
	ResultNoReason                              Result = 2
	ResultAbstractSyntaxNotSupported            Result = 3
	ResultTransferSyntaxesNotSupported          Result = 4
)

func (r Result) String() string {
	switch r {
	case ResultAcceptance:
		return "acceptance"
	case ResultUserRejection:
		return "user-rejection"
	case ResultNoReason:
		return "no-reason"
	case ResultAbstractSyntaxNotSupported:
		return "abstract-syntax-not-supported"
	case ResultTransferSyntaxesNotSupported:
		return "transfer-syntaxes-not-supported"
	default:
		return fmt.Sprintf("result(%d)", byte(r))
	}
}

// PresentationContextItem carries a single proposed (RQ) or negotiated (AC)
// Presentation Context. On RQ it wraps one AbstractSyntaxItem followed by
// one or more TransferSyntaxItem values; on AC it wraps exactly one
// TransferSyntaxItem, the one selected by the acceptor (PS3.8 9.3.2.2,
// 9.3.3.2).
type PresentationContextItem struct {
	Type      Type // TypePresentationContextRequest or TypePresentationContextResponse
	ContextID byte // odd, 1-255
	Result    Result
	Items     []Item
}

func (v *PresentationContextItem) ItemType() Type { return v.Type }

func (v *PresentationContextItem) Write(w *dicomio.Writer) error {
	if v.Type != TypePresentationContextRequest && v.Type != TypePresentationContextResponse {
		return fmt.Errorf("pduitem: presentation context: invalid type 0x%02x", byte(v.Type))
	}
	body, err := encodeItems(v.Items)
	if err != nil {
		return fmt.Errorf("pduitem: presentation context items: %w", err)
	}
	if err := writeHeader(w, v.Type, uint16(4+len(body))); err != nil {
		return err
	}
	if err := w.WriteByte(v.ContextID); err != nil {
		return err
	}
	if err := w.WriteZeros(1); err != nil {
		return err
	}
	if err := w.WriteByte(byte(v.Result)); err != nil {
		return err
	}
	if err := w.WriteZeros(1); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func (v *PresentationContextItem) String() string {
	side := "rq"
	if v.Type == TypePresentationContextResponse {
		side = "ac"
	}
	return fmt.Sprintf("PresentationContext.%s{id:%d result:%s items:%s}",
		side, v.ContextID, v.Result, ListString(v.Items))
}

func decodePresentationContext(r *dicomio.Reader, t Type, length uint16) (Item, error) {
	v := &PresentationContextItem{Type: t}
	if err := r.PushLimit(int64(length)); err != nil {
		return nil, fmt.Errorf("pduitem: presentation context: push limit: %w", err)
	}
	defer r.PopLimit()

	contextID, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("pduitem: presentation context: context id: %w", err)
	}
	v.ContextID = contextID
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	result, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("pduitem: presentation context: result: %w", err)
	}
	v.Result = Result(result)
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	for r.BytesLeftUntilLimit() > 0 {
		item, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("pduitem: presentation context: sub-item: %w", err)
		}
		v.Items = append(v.Items, item)
	}
	if v.ContextID%2 != 1 {
		return nil, fmt.Errorf("pduitem: presentation context: id %d must be odd", v.ContextID)
	}
	return v, nil
}
