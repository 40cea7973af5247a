package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidNumber(t *testing.T) {
	require.True(t, IsValidNumber(0))
	require.True(t, IsValidNumber(-1.5))
	require.True(t, IsValidNumber(math.MaxFloat64))

	require.False(t, IsValidNumber(math.NaN()))
	require.False(t, IsValidNumber(math.Inf(1)))
	require.False(t, IsValidNumber(math.Inf(-1)))
}
