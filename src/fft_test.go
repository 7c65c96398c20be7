package phaser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestComplexMulExactIdentity checks the shared butterfly multiplier
// against the directly computed integer product: this is the check that would have
// caught a swapped real/imaginary term.
func TestComplexMulExactIdentity(t *testing.T) {
	a := Sample{I: 1234, Q: -5678}
	b := Sample{I: 9000, Q: 3000}

	got := complexMulExact(a, b, 0)

	wantRe := a.I*b.I - a.Q*b.Q
	wantIm := a.I*b.Q + a.Q*b.I

	assert.Equal(t, wantRe, got.I)
	assert.Equal(t, wantIm, got.Q)
}

// TestBlockFFTRoundTrip checks that an FFT followed by an IFFT
// (unscaled, full precision) recovers the original sequence to within
// a small fixed-point rounding tolerance. Inputs are kept below
// max/(4N) so the N-fold gain of the unscaled pair never clips, and
// they are loaded in natural order since Compute does its own
// bit-reversal.
func TestBlockFFTRoundTrip(t *testing.T) {
	const n = 16
	const width = 18

	f := NewBlockFFT(n, width)

	in := make([]Sample, n)
	max := int64(1)<<uint(width-1) - 1

	for i := range in {
		in[i] = Sample{
			I: int64(float64(max) / (4 * n) * math.Cos(float64(i))),
			Q: int64(float64(max) / (4 * n) * math.Sin(float64(i)*2)),
		}
	}

	for i, s := range in {
		assert.NoError(t, f.Load(i, s, false))
	}

	f.Compute(0xffffffff, false) // unscaled forward
	f.Compute(0xffffffff, true)  // unscaled inverse

	// An unscaled forward+inverse DIT FFT pair scales the signal by N.
	for i := 0; i < n; i++ {
		got, err := f.Retrieve(i)
		assert.NoError(t, err)

		wantI := in[i].I * n
		wantQ := in[i].Q * n

		assert.InDelta(t, wantI, got.I, float64(n)*4, "index %d real", i)
		assert.InDelta(t, wantQ, got.Q, float64(n)*4, "index %d imag", i)
	}
}

func TestBlockFFTBitReverseLoad(t *testing.T) {
	f := NewBlockFFT(8, 18)

	assert.NoError(t, f.Load(1, Sample{I: 42}, true))

	got, err := f.Retrieve(bitReverse(1, 3))
	assert.NoError(t, err)
	assert.Equal(t, int64(42), got.I)
}

func TestBlockFFTBusyRejectsAccess(t *testing.T) {
	f := NewBlockFFT(8, 18)
	f.busy = true

	_, err := f.Retrieve(0)
	assert.Error(t, err)

	err = f.Load(0, Sample{}, false)
	assert.Error(t, err)
}

func TestTwiddleQuadrants(t *testing.T) {
	f := NewBlockFFT(16, 18)

	// k=0 is the ROM's unit entry; k=n/4, n/2, 3n/4 are the other
	// three quadrants' starts: e^{-i*pi/2} = -i, -1, and +i.
	one := int64(1)<<17 - 1

	t0 := f.twiddle(0, false)
	assert.Equal(t, one, t0.I)
	assert.Equal(t, int64(0), t0.Q)

	assert.Equal(t, Sample{I: 0, Q: -one}, f.twiddle(4, false))
	assert.Equal(t, Sample{I: -one, Q: 0}, f.twiddle(8, false))
	assert.Equal(t, Sample{I: 0, Q: one}, f.twiddle(12, false))
}
