package uid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/dicomul/uid"
)

func TestValidate_WellKnown(t *testing.T) {
	for _, u := range []uid.UID{
		uid.DICOMApplicationContextName,
		uid.VerificationSOPClass,
		uid.ImplicitVRLittleEndian,
		uid.ExplicitVRLittleEndian,
		uid.ExplicitVRBigEndian,
	} {
		assert.NoError(t, uid.Validate(string(u)), u)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []string{
		"",
		"1.2.840..1",
		"1.2.840a.1",
		"1.02.840",
		strings.Repeat("1.", 40) + "1",
	}
	for _, c := range cases {
		assert.Error(t, uid.Validate(c), c)
	}
}

func TestParse(t *testing.T) {
	u, err := uid.Parse("1.2.840.10008.1.1")
	require.NoError(t, err)
	assert.Equal(t, uid.VerificationSOPClass, u)

	_, err = uid.Parse("not a uid")
	assert.Error(t, err)
}
