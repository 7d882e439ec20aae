package pduitem_test

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/meridianhealth/dicomul/pdu/pduitem"
	"github.com/meridianhealth/dicomul/uid"
)

func roundTrip(t *testing.T, item pduitem.Item) pduitem.Item {
	t.Helper()
	var buf bytes.Buffer
	w := dicomio.NewWriter(&buf, binary.BigEndian, true)
	require.NoError(t, item.Write(&w))

	r := dicomio.NewReader(bufio.NewReader(bytes.NewReader(buf.Bytes())), binary.BigEndian, int64(buf.Len()))
	got, err := pduitem.Decode(&r)
	require.NoError(t, err)
	return got
}

func TestApplicationContext_RoundTrip(t *testing.T) {
	item := &pduitem.ApplicationContextItem{Name: uid.DICOMApplicationContextName}
	got := roundTrip(t, item).(*pduitem.ApplicationContextItem)
	assert.Equal(t, item.Name, got.Name)
}

func TestPresentationContext_RoundTrip(t *testing.T) {
	item := &pduitem.PresentationContextItem{
		Type:      pduitem.TypePresentationContextRequest,
		ContextID: 1,
		Items: []pduitem.Item{
			&pduitem.AbstractSyntaxItem{Name: uid.VerificationSOPClass},
			&pduitem.TransferSyntaxItem{Name: uid.ImplicitVRLittleEndian},
		},
	}
	got := roundTrip(t, item).(*pduitem.PresentationContextItem)
	assert.Equal(t, item.ContextID, got.ContextID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, uid.VerificationSOPClass, got.Items[0].(*pduitem.AbstractSyntaxItem).Name)
	assert.Equal(t, uid.ImplicitVRLittleEndian, got.Items[1].(*pduitem.TransferSyntaxItem).Name)
}

func TestPresentationContext_EvenContextIDRejected(t *testing.T) {
	var buf bytes.Buffer
	w := dicomio.NewWriter(&buf, binary.BigEndian, true)
	item := &pduitem.PresentationContextItem{Type: pduitem.TypePresentationContextRequest, ContextID: 2}
	require.NoError(t, item.Write(&w))

	r := dicomio.NewReader(bufio.NewReader(bytes.NewReader(buf.Bytes())), binary.BigEndian, int64(buf.Len()))
	_, err := pduitem.Decode(&r)
	assert.Error(t, err)
}

func TestRoleSelection_RoundTrip(t *testing.T) {
	item := &pduitem.RoleSelectionItem{
		SOPClassUID: uid.VerificationSOPClass,
		SCURole:     pduitem.RoleSupported,
		SCPRole:     pduitem.RoleNotSupported,
	}
	got := roundTrip(t, item).(*pduitem.RoleSelectionItem)
	assert.Equal(t, item.SOPClassUID, got.SOPClassUID)
	assert.Equal(t, item.SCURole, got.SCURole)
	assert.Equal(t, item.SCPRole, got.SCPRole)
}

func TestUserIdentityRQ_RoundTrip(t *testing.T) {
	item := &pduitem.UserIdentityRQItem{
		IDType:                    pduitem.IDTypeUsernamePasscode,
		PositiveResponseRequested: true,
		PrimaryField:              []byte("alice"),
		SecondaryField:            []byte("s3cr3t"),
	}
	got := roundTrip(t, item).(*pduitem.UserIdentityRQItem)
	assert.Equal(t, item.IDType, got.IDType)
	assert.True(t, got.PositiveResponseRequested)
	assert.Equal(t, item.PrimaryField, got.PrimaryField)
	assert.Equal(t, item.SecondaryField, got.SecondaryField)
}

func TestUserIdentityRQ_StringRendersNoNotNone(t *testing.T) {
	item := &pduitem.UserIdentityRQItem{IDType: pduitem.IDTypeUsername}
	assert.Contains(t, item.String(), "positiveResponseRequested:No")
	assert.NotContains(t, item.String(), "None")
}

func TestUserInformation_RoundTrip(t *testing.T) {
	item := &pduitem.UserInformationItem{
		Items: []pduitem.Item{
			&pduitem.MaximumLengthItem{MaximumLengthReceived: 16384},
			&pduitem.ImplementationClassUIDItem{UID: "1.2.3.4.5"},
			&pduitem.AsyncOpsWindowItem{MaxOpsInvoked: 1, MaxOpsPerformed: 1},
		},
	}
	got := roundTrip(t, item).(*pduitem.UserInformationItem)
	require.Len(t, got.Items, 3)
	assert.Equal(t, uint32(16384), got.Items[0].(*pduitem.MaximumLengthItem).MaximumLengthReceived)
}

func TestSOPClassCommonExtendedNegotiation_RoundTrip(t *testing.T) {
	item := &pduitem.SOPClassCommonExtendedNegotiationItem{
		SOPClassUID:     uid.VerificationSOPClass,
		ServiceClassUID: uid.VerificationSOPClass,
		RelatedGeneralSOPClass: []pduitem.RelatedGeneralSOPClass{
			{UID: uid.ImplicitVRLittleEndian},
		},
	}
	got := roundTrip(t, item).(*pduitem.SOPClassCommonExtendedNegotiationItem)
	assert.Equal(t, item.SOPClassUID, got.SOPClassUID)
	require.Len(t, got.RelatedGeneralSOPClass, 1)
	assert.Equal(t, uid.ImplicitVRLittleEndian, got.RelatedGeneralSOPClass[0].UID)
}

func TestUnsupportedItem_PreservesUnknownType(t *testing.T) {
	item := &pduitem.UnsupportedItem{Type: 0x7f, Data: []byte{1, 2, 3}}
	got := roundTrip(t, item).(*pduitem.UnsupportedItem)
	assert.Equal(t, item.Type, got.Type)
	assert.Equal(t, item.Data, got.Data)
}
