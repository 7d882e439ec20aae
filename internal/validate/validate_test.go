package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/dicomul/internal/validate"
)

type sample struct {
	Name    string `validate:"required"`
	Timeout int    `validate:"gt=0"`
}

func TestStruct_ValidPasses(t *testing.T) {
	err := validate.Struct(sample{Name: "x", Timeout: 5})
	assert.NoError(t, err)
}

func TestStruct_CollectsFieldErrors(t *testing.T) {
	err := validate.Struct(sample{})
	require.Error(t, err)

	var verrs *validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs.Fields(), 2)
}
