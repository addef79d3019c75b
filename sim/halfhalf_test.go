package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHalfHalfBDRToPRM_SpecExample(t *testing.T) {
	q, p, err := HalfHalfBDRToPRM(0.6, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, p, 1e-9)
	assert.InDelta(t, 1.5, q, 1e-9)
}

func TestHalfHalfPRMToBDR_SpecExample(t *testing.T) {
	alpha, delta, err := HalfHalfPRMToBDR(1.5, 5)
	assert.NoError(t, err)
	assert.InDelta(t, 0.3, alpha, 1e-9)
	assert.InDelta(t, 7.0, delta, 1e-9)
}

// TestHalfHalf_RoundTripIsAsymmetric confirms the mapper is lossy: mapping
// (alpha,delta) -> (Q,P) -> (alpha',delta') does not recover the original
// interface. This is documented as an Open Question resolution, not a bug.
func TestHalfHalf_RoundTripIsAsymmetric(t *testing.T) {
	alpha0, delta0 := 0.6, 2.0
	q, p, err := HalfHalfBDRToPRM(alpha0, delta0)
	assert.NoError(t, err)

	alpha1, delta1, err := HalfHalfPRMToBDR(q, p)
	assert.NoError(t, err)

	assert.NotEqual(t, alpha0, alpha1)
	assert.NotEqual(t, delta0, delta1)
	assert.InDelta(t, 0.3, alpha1, 1e-9)
	assert.InDelta(t, 7.0, delta1, 1e-9)
}

func TestHalfHalfBDRToPRM_RejectsOutOfRangeAlpha(t *testing.T) {
	_, _, err := HalfHalfBDRToPRM(0, 1)
	assert.Error(t, err)
	_, _, err = HalfHalfBDRToPRM(1, 1)
	assert.Error(t, err)
	_, _, err = HalfHalfBDRToPRM(0.5, -1)
	assert.Error(t, err)
}

func TestHalfHalfPRMToBDR_RejectsInvalidQP(t *testing.T) {
	_, _, err := HalfHalfPRMToBDR(1, 0)
	assert.Error(t, err)
	_, _, err = HalfHalfPRMToBDR(0, 5)
	assert.Error(t, err)
	_, _, err = HalfHalfPRMToBDR(6, 5)
	assert.Error(t, err)
}

func TestHalfHalfPRMToBDR_AllowsQEqualsP(t *testing.T) {
	alpha, delta, err := HalfHalfPRMToBDR(5, 5)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, alpha)
	assert.Equal(t, 0.0, delta)
}
