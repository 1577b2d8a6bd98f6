package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAt(t *testing.T) {
	base := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

	got, err := ParseAt("", base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	got, err = ParseAt("2025-03-20", base)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseAt("tomorrow at 8pm", base)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 20, got.Hour())

	_, err = ParseAt("purple monkey", base)
	assert.Error(t, err)
}
