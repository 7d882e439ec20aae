package aetitle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/dicomul/aetitle"
)

func TestParse_PadsShort(t *testing.T) {
	title, err := aetitle.Parse("ECHOSCU")
	require.NoError(t, err)
	assert.Equal(t, "ECHOSCU", title.String())
	assert.Equal(t, aetitle.Length, len(title))
	assert.Equal(t, byte(' '), title[aetitle.Length-1])
}

func TestParse_ExactlySixteenAccepted(t *testing.T) {
	s := strings.Repeat("A", aetitle.Length)
	title, err := aetitle.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, s, title.String())
}

func TestParse_LongerThanSixteenTruncated(t *testing.T) {
	s := strings.Repeat("B", aetitle.Length) + "EXTRA"
	title, err := aetitle.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("B", aetitle.Length), title.String())
}

func TestParse_AllSpacesRejected(t *testing.T) {
	_, err := aetitle.Parse(strings.Repeat(" ", aetitle.Length))
	assert.Error(t, err)
}

func TestParse_EmptyRejected(t *testing.T) {
	_, err := aetitle.Parse("")
	assert.Error(t, err)
}

func TestParse_ForbiddenCharacters(t *testing.T) {
	for _, s := range []string{"BAD\\TITLE", "BAD\rTITLE", "BAD\nTITLE", "BAD\tTITLE"} {
		_, err := aetitle.Parse(s)
		assert.Error(t, err, s)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		aetitle.MustParse("")
	})
}

func TestIsZero(t *testing.T) {
	var zero aetitle.Title
	assert.True(t, zero.IsZero())

	title := aetitle.MustParse("SCU")
	assert.False(t, title.IsZero())
}
