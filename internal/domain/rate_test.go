package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatePer10K(t *testing.T) {
	tests := []struct {
		name     string
		damages  int
		volume   int
		expected float64
	}{
		{"whole rate", 750, 100000, 75},
		{"fractional rate", 1, 30000, 1.0 / 3},
		{"zero damages", 0, 100000, 0},
		{"volume below scale", 3, 100, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := RatePer10K(tt.damages, tt.volume)
			require.NotNil(t, rate)
			assert.InDelta(t, tt.expected, *rate, 1e-9)
		})
	}
}

func TestRatePer10K_UndefinedWithoutVolume(t *testing.T) {
	assert.Nil(t, RatePer10K(500, 0))
	assert.Nil(t, RatePer10K(500, -1))
	assert.Nil(t, RatePer10K(0, 0))
}

func TestRatePer10K_ScalesLinearlyWithDamages(t *testing.T) {
	base := RatePer10K(100, 50000)
	doubled := RatePer10K(200, 50000)
	require.NotNil(t, base)
	require.NotNil(t, doubled)
	assert.InDelta(t, 2*(*base), *doubled, 1e-9)
}
