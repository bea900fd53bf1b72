package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("review.json", "identify_errors")
	require.NoError(t, err)
	assert.True(t, strings.Contains(prompt, "text_original"))
	assert.True(t, strings.Contains(prompt, "summary"))
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("review.json", "does_not_exist")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "identify_errors")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("missing.json", "x") })
	assert.NotPanics(t, func() { MustGet("review.json", "identify_errors") })
}

func TestGet_Cached(t *testing.T) {
	first, err := Get("review.json", "identify_errors")
	require.NoError(t, err)
	second, err := Get("review.json", "identify_errors")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
