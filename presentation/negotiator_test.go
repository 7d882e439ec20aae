package presentation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/dicomul/aetitle"
	"github.com/meridianhealth/dicomul/pdu/pduitem"
	"github.com/meridianhealth/dicomul/presentation"
	"github.com/meridianhealth/dicomul/primitive"
	"github.com/meridianhealth/dicomul/uid"
)

func baseRequest() *primitive.AssociateRequest {
	return &primitive.AssociateRequest{
		CalledAETitle:          aetitle.MustParse("SCP_AE"),
		CallingAETitle:         aetitle.MustParse("SCU_AE"),
		ApplicationContextName: uid.DICOMApplicationContextName,
		PresentationContexts: []primitive.PresentationContextProposal{
			{
				ID:             1,
				AbstractSyntax: uid.VerificationSOPClass,
				TransferSyntaxes: []uid.UID{
					uid.ExplicitVRLittleEndian,
					uid.ImplicitVRLittleEndian,
				},
			},
		},
	}
}

func TestNegotiateAsAcceptor_PicksFirstMutualTransferSyntax(t *testing.T) {
	req := baseRequest()
	supported := []presentation.SupportedContext{
		{
			AbstractSyntax:   uid.VerificationSOPClass,
			TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian, uid.ExplicitVRLittleEndian},
		},
	}
	ac, err := presentation.NegotiateAsAcceptor(req, supported, 16384)
	require.NoError(t, err)
	require.Len(t, ac.PresentationContexts, 1)
	result := ac.PresentationContexts[0]
	assert.Equal(t, pduitem.ResultAcceptance, result.Result)
	assert.Equal(t, uid.ExplicitVRLittleEndian, result.TransferSyntax)
}

func TestNegotiateAsAcceptor_RejectsUnsupportedAbstractSyntaxButAcceptsOthers(t *testing.T) {
	req := baseRequest()
	req.PresentationContexts = append(req.PresentationContexts, primitive.PresentationContextProposal{
		ID:               3,
		AbstractSyntax:   "1.2.840.10008.5.1.4.1.1.2",
		TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian},
	})
	supported := []presentation.SupportedContext{
		{AbstractSyntax: "1.2.840.10008.5.1.4.1.1.2", TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian}},
	}
	ac, err := presentation.NegotiateAsAcceptor(req, supported, 16384)
	require.NoError(t, err)
	require.Len(t, ac.PresentationContexts, 2)
	assert.Equal(t, pduitem.ResultAbstractSyntaxNotSupported, ac.PresentationContexts[0].Result)
	assert.Equal(t, pduitem.ResultAcceptance, ac.PresentationContexts[1].Result)
}

func TestNegotiateAsAcceptor_RejectsWholeProposalWhenNothingAcceptable(t *testing.T) {
	req := baseRequest()
	_, err := presentation.NegotiateAsAcceptor(req, nil, 16384)
	assert.ErrorIs(t, err, presentation.ErrNoAcceptableContexts)
}

func TestNegotiateAsAcceptor_RejectsUnsupportedApplicationContext(t *testing.T) {
	req := baseRequest()
	req.ApplicationContextName = "1.2.3.4.5"
	supported := []presentation.SupportedContext{
		{AbstractSyntax: uid.VerificationSOPClass, TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian}},
	}
	_, err := presentation.NegotiateAsAcceptor(req, supported, 16384)
	assert.ErrorIs(t, err, presentation.ErrApplicationContextNotSupported)
}

func TestNegotiateAsAcceptor_RejectsNoCommonTransferSyntax(t *testing.T) {
	req := baseRequest()
	supported := []presentation.SupportedContext{
		{
			AbstractSyntax:   uid.VerificationSOPClass,
			TransferSyntaxes: []uid.UID{"1.2.840.10008.1.2.4.70"},
		},
	}
	ac, err := presentation.NegotiateAsAcceptor(req, supported, 16384)
	require.NoError(t, err)
	assert.Equal(t, pduitem.ResultTransferSyntaxesNotSupported, ac.PresentationContexts[0].Result)
}

func TestNegotiateAsAcceptor_RoleGrantedOnlyWhenBothOfferedAndCapable(t *testing.T) {
	req := baseRequest()
	req.PresentationContexts[0].Role = &primitive.RoleProposal{SCURole: true, SCPRole: true}
	supported := []presentation.SupportedContext{
		{
			AbstractSyntax:   uid.VerificationSOPClass,
			TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian},
			SCPCapable:       true,
			SCUCapable:       false,
		},
	}
	ac, err := presentation.NegotiateAsAcceptor(req, supported, 16384)
	require.NoError(t, err)
	role := ac.PresentationContexts[0].Role
	require.NotNil(t, role)
	assert.True(t, role.SCPRole)
	assert.False(t, role.SCURole)
}

func TestNegotiateAsAcceptor_Deterministic(t *testing.T) {
	req := baseRequest()
	supported := []presentation.SupportedContext{
		{AbstractSyntax: uid.VerificationSOPClass, TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian}},
	}
	first, err := presentation.NegotiateAsAcceptor(req, supported, 16384)
	require.NoError(t, err)
	second, err := presentation.NegotiateAsAcceptor(req, supported, 16384)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNegotiateAsRequestor_CopiesMatchedResult(t *testing.T) {
	req := baseRequest()
	result := []primitive.PresentationContextResult{
		{ID: 1, Result: pduitem.ResultAcceptance, TransferSyntax: uid.ImplicitVRLittleEndian},
	}
	got := presentation.NegotiateAsRequestor(req.PresentationContexts, result)
	require.Len(t, got, 1)
	assert.Equal(t, result[0], got[0])
}

func TestNegotiateAsRequestor_FallsBackToNoReasonWhenAcceptorOmitsID(t *testing.T) {
	req := baseRequest()
	got := presentation.NegotiateAsRequestor(req.PresentationContexts, nil)
	require.Len(t, got, 1)
	assert.Equal(t, byte(1), got[0].ID)
	assert.Equal(t, pduitem.ResultNoReason, got[0].Result)
	assert.Equal(t, uid.ExplicitVRLittleEndian, got[0].TransferSyntax) // first proposed transfer syntax, echoed back
}

func TestNegotiateAsRequestor_SortsByContextID(t *testing.T) {
	req := baseRequest()
	req.PresentationContexts = []primitive.PresentationContextProposal{
		{ID: 5, AbstractSyntax: uid.VerificationSOPClass, TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian}},
		{ID: 1, AbstractSyntax: uid.VerificationSOPClass, TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian}},
		{ID: 3, AbstractSyntax: uid.VerificationSOPClass, TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian}},
	}
	result := []primitive.PresentationContextResult{
		{ID: 3, Result: pduitem.ResultAcceptance, TransferSyntax: uid.ImplicitVRLittleEndian},
		{ID: 5, Result: pduitem.ResultAcceptance, TransferSyntax: uid.ImplicitVRLittleEndian},
		{ID: 1, Result: pduitem.ResultAcceptance, TransferSyntax: uid.ImplicitVRLittleEndian},
	}
	got := presentation.NegotiateAsRequestor(req.PresentationContexts, result)
	require.Len(t, got, 3)
	assert.Equal(t, []byte{1, 3, 5}, []byte{got[0].ID, got[1].ID, got[2].ID})
}
