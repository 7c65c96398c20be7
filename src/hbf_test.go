package phaser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHBFRejectsEvenLength(t *testing.T) {
	assert.Panics(t, func() { NewHBF([]int64{1, 2}) })
}

// TestHBFDCGain checks a constant input converges to unity gain on
// the even output and to HBF0's odd-phase DC gain on the odd output
// once the filter has filled: the non-center taps sum to 130986, so
// the odd output is 10000*130986/2^17 = 9993.
func TestHBFDCGain(t *testing.T) {
	h := NewHBF(HBF0Coeffs)

	const x = 10000

	var e, o Sample
	for i := 0; i < len(HBF0Coeffs)+hbfPipelineDepth+4; i++ {
		e, o = h.Step(Sample{I: x, Q: x})
	}

	const xOdd = 9993

	assert.InDelta(t, x, e.I, 2)
	assert.InDelta(t, xOdd, o.I, 2)
	assert.InDelta(t, x, e.Q, 2)
	assert.InDelta(t, xOdd, o.Q, 2)
}

func TestHBFIQIndependent(t *testing.T) {
	h := NewHBF(HBF1Coeffs)

	for i := 0; i < len(HBF1Coeffs)+hbfPipelineDepth+4; i++ {
		h.Step(Sample{I: 5000, Q: -5000})
	}

	e, _ := h.Step(Sample{I: 5000, Q: -5000})
	assert.InDelta(t, 5000, e.I, 2)
	assert.InDelta(t, -5000, e.Q, 2)
}
