package pduitem

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/meridianhealth/dicomul/uid"
)

// Role is one of the two roles an AE can offer or accept for a SOP Class
// under SCP/SCU Role Selection (PS3.7 Annex D.3.3.4). The wire encoding is a
// single byte, 0 or 1; any other value is a decode error rather than a
// silently accepted boolean.
type Role byte

const (
	RoleNotSupported Role = 0
	RoleSupported    Role = 1
)

func decodeRole(b byte) (Role, error) {
	switch b {
	case 0, 1:
		return Role(b), nil
	default:
		return 0, fmt.Errorf("pduitem: role selection: invalid role byte 0x%02x", b)
	}
}

// RoleSelectionItem negotiates, per SOP Class, whether the association
// requestor intends to act as SCU, SCP, both, or neither for that class.
// The teacher corpus decodes this item but never encodes a reply to it; this
// repository implements both directions, since role selection is part of
// the negotiation algorithm this module is responsible for.
type RoleSelectionItem struct {
	SOPClassUID uid.UID
	SCURole     Role
	SCPRole     Role
}

func (v *RoleSelectionItem) ItemType() Type { return TypeRoleSelection }

func (v *RoleSelectionItem) Write(w *dicomio.Writer) error {
	length := 2 + len(v.SOPClassUID) + 2
	if err := writeHeader(w, TypeRoleSelection, uint16(length)); err != nil {
		return err
	}
	if err := w.WriteUInt16(uint16(len(v.SOPClassUID))); err != nil {
		return err
	}
	if err := w.WriteString(string(v.SOPClassUID)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(v.SCURole)); err != nil {
		return err
	}
	return w.WriteByte(byte(v.SCPRole))
}

func (v *RoleSelectionItem) String() string {
	return fmt.Sprintf("RoleSelection{sop:%s scu:%d scp:%d}", v.SOPClassUID, v.SCURole, v.SCPRole)
}

func decodeRoleSelection(r *dicomio.Reader, length uint16) (Item, error) {
	uidLen, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pduitem: role selection: uid length: %w", err)
	}
	sop, err := r.ReadString(uint32(uidLen))
	if err != nil {
		return nil, fmt.Errorf("pduitem: role selection: sop class uid: %w", err)
	}
	scuByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("pduitem: role selection: scu role: %w", err)
	}
	scu, err := decodeRole(scuByte)
	if err != nil {
		return nil, err
	}
	scpByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("pduitem: role selection: scp role: %w", err)
	}
	scp, err := decodeRole(scpByte)
	if err != nil {
		return nil, err
	}
	return &RoleSelectionItem{SOPClassUID: uid.UID(sop), SCURole: scu, SCPRole: scp}, nil
}
