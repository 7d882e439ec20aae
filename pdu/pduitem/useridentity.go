package pduitem

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// IDType identifies the form of identity carried in a UserIdentityRQItem
// (PS3.7 Annex D.3.3.7).
type IDType byte

const (
	IDTypeUsername          IDType = 1
	IDTypeUsernamePasscode  IDType = 2
	IDTypeKerberos          IDType = 3
	IDTypeSAML              IDType = 4
	IDTypeJSONWebToken      IDType = 5
)

// UserIdentityRQItem carries the requestor's identity assertion. Decoding
// and encoding are symmetric; validating the asserted identity is an
// application-level concern outside this repository.
type UserIdentityRQItem struct {
	IDType                     IDType
	PositiveResponseRequested bool
	PrimaryField               []byte
	SecondaryField              []byte
}

func (v *UserIdentityRQItem) ItemType() Type { return TypeUserIdentityRequest }

func (v *UserIdentityRQItem) Write(w *dicomio.Writer) error {
	length := 1 + 1 + 2 + len(v.PrimaryField) + 2 + len(v.SecondaryField)
	if err := writeHeader(w, TypeUserIdentityRequest, uint16(length)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(v.IDType)); err != nil {
		return err
	}
	var positive byte
	if v.PositiveResponseRequested {
		positive = 1
	}
	if err := w.WriteByte(positive); err != nil {
		return err
	}
	if err := w.WriteUInt16(uint16(len(v.PrimaryField))); err != nil {
		return err
	}
	if err := w.WriteBytes(v.PrimaryField); err != nil {
		return err
	}
	if err := w.WriteUInt16(uint16(len(v.SecondaryField))); err != nil {
		return err
	}
	return w.WriteBytes(v.SecondaryField)
}

func (v *UserIdentityRQItem) String() string {
	// PS3.7 calls this field "Positive response requested" and its only
	// two legal renderings are "Yes" and "No" -- never "None".
	requested := "No"
	if v.PositiveResponseRequested {
		requested = "Yes"
	}
	return fmt.Sprintf("UserIdentityRQ{type:%d positiveResponseRequested:%s primary:%dB secondary:%dB}",
		v.IDType, requested, len(v.PrimaryField), len(v.SecondaryField))
}

func decodeUserIdentityRequest(r *dicomio.Reader, length uint16) (Item, error) {
	if err := r.PushLimit(int64(length)); err != nil {
		return nil, fmt.Errorf("pduitem: user identity rq: push limit: %w", err)
	}
	defer r.PopLimit()

	idType, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("pduitem: user identity rq: id type: %w", err)
	}
	positive, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("pduitem: user identity rq: positive response requested: %w", err)
	}
	primaryLen, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: user identity rq: primary length: %w", err)
	}
	primary, err := r.ReadBytes(int(primaryLen))
	if err != nil {
		return nil, fmt.Errorf("pduitem: user identity rq: primary field: %w", err)
	}
	secondaryLen, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: user identity rq: secondary length: %w", err)
	}
	secondary, err := r.ReadBytes(int(secondaryLen))
	if err != nil {
		return nil, fmt.Errorf("pduitem: user identity rq: secondary field: %w", err)
	}
	return &UserIdentityRQItem{
		IDType:                    IDType(idType),
		PositiveResponseRequested: positive != 0,
		PrimaryField:              primary,
		SecondaryField:            secondary,
	}, nil
}

// UserIdentityACItem carries the acceptor's optional server challenge
// response to a UserIdentityRQItem that requested one.
type UserIdentityACItem struct {
	ServerResponse []byte
}

func (v *UserIdentityACItem) ItemType() Type { return TypeUserIdentityResponse }

func (v *UserIdentityACItem) Write(w *dicomio.Writer) error {
	length := 2 + len(v.ServerResponse)
	if err := writeHeader(w, TypeUserIdentityResponse, uint16(length)); err != nil {
		return err
	}
	if err := w.WriteUInt16(uint16(len(v.ServerResponse))); err != nil {
		return err
	}
	return w.WriteBytes(v.ServerResponse)
}

func (v *UserIdentityACItem) String() string {
	return fmt.Sprintf("UserIdentityAC{response:%dB}", len(v.ServerResponse))
}

func decodeUserIdentityResponse(r *dicomio.Reader, length uint16) (Item, error) {
	respLen, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: user identity ac: response length: %w", err)
	}
	resp, err := r.ReadBytes(int(respLen))
	if err != nil {
		return nil, fmt.Errorf("pduitem: user identity ac: server response: %w", err)
	}
	return &UserIdentityACItem{ServerResponse: resp}, nil
}
