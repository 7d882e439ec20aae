package primitive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/dicomul/aetitle"
	"github.com/meridianhealth/dicomul/primitive"
	"github.com/meridianhealth/dicomul/uid"
)

func validRequest() *primitive.AssociateRequest {
	return &primitive.AssociateRequest{
		CalledAETitle:          aetitle.MustParse("SCP_AE"),
		CallingAETitle:         aetitle.MustParse("SCU_AE"),
		ApplicationContextName: uid.DICOMApplicationContextName,
		PresentationContexts: []primitive.PresentationContextProposal{
			{
				ID:               1,
				AbstractSyntax:   uid.VerificationSOPClass,
				TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian},
			},
		},
	}
}

func TestAssociateRequest_ValidatesOK(t *testing.T) {
	require.NoError(t, validRequest().Validate())
}

func TestAssociateRequest_RequiresCalledTitle(t *testing.T) {
	r := validRequest()
	r.CalledAETitle = aetitle.Title{}
	assert.Error(t, r.Validate())
}

func TestAssociateRequest_RequiresAtLeastOneContext(t *testing.T) {
	r := validRequest()
	r.PresentationContexts = nil
	assert.Error(t, r.Validate())
}

func TestAssociateRequest_RejectsEvenContextID(t *testing.T) {
	r := validRequest()
	r.PresentationContexts[0].ID = 2
	assert.Error(t, r.Validate())
}

func TestAssociateRequest_RejectsDuplicateContextID(t *testing.T) {
	r := validRequest()
	r.PresentationContexts = append(r.PresentationContexts, r.PresentationContexts[0])
	assert.Error(t, r.Validate())
}

func TestAssociateRequest_RejectsEmptyTransferSyntaxList(t *testing.T) {
	r := validRequest()
	r.PresentationContexts[0].TransferSyntaxes = nil
	assert.Error(t, r.Validate())
}
