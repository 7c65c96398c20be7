package phaser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhasedAccuLaneOffsets(t *testing.T) {
	a := NewPhasedAccu(2, 32, 16)

	f := FreqWord(1 << 20)
	out := a.Step(f, 0, true)

	assert.Len(t, out, 2)
	assert.NotEqual(t, out[0], out[1], "lane 1 must be offset from lane 0 by f")
}

func TestPhasedAccuClrResetsPhase(t *testing.T) {
	a := NewPhasedAccu(2, 32, 16)

	a.Step(FreqWord(1<<20), 0, true)
	a.Step(FreqWord(1<<20), 0, false)

	out := a.Step(FreqWord(1<<20), 0, true)
	assert.Equal(t, PhaseWord(0), out[0])
}

func TestPhasedAccuClrOnceAppliesNextStepOnly(t *testing.T) {
	a := NewPhasedAccu(2, 32, 16)
	a.Step(FreqWord(1<<22), 0, true)

	a.RequestClrOnce()
	out := a.Step(FreqWord(1<<22), 0, false)
	assert.Equal(t, PhaseWord(0), out[0])

	// Second call after the one-shot should no longer reset.
	out2 := a.Step(FreqWord(1<<22), 0, false)
	assert.NotEqual(t, PhaseWord(0), out2[0])
}

// TestPhaseModulatorZeroPhaseKeepsRealOnly checks that rotating a
// purely-real sample by zero phase leaves it essentially real:
// cos(0)=1, sin(0)=0, so Q only carries the cos/sin generator's own
// error of at most one LSB. The modulator's product is not shifted
// back down, so that LSB is scaled by the input amplitude (1000).
func TestPhaseModulatorZeroPhaseKeepsRealOnly(t *testing.T) {
	pm := NewPhaseModulator(18, 15, 9, 4, 16)

	var got Sample
	for i := 0; i < pm.cs.Latency()+pm.mul.Latency()+1; i++ {
		got = pm.Step(0, Sample{I: 1000, Q: 0})
	}

	assert.Greater(t, got.I, int64(0))
	assert.InDelta(t, 0, got.Q, 1000)
}

func TestPhasedDUCLaneCount(t *testing.T) {
	d := NewPhasedDUC(2, 32, 18, 15, 9, 4, 16)
	out := d.Step(FreqWord(1<<20), 0, true, Sample{I: 100})
	assert.Len(t, out, 2)
}
