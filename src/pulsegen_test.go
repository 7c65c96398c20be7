package phaser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFFTLoaderRoutesToTargetFFT(t *testing.T) {
	f0 := NewBlockFFT(8, 18)
	f1 := NewBlockFFT(8, 18)
	loader := NewFFTLoader([]*BlockFFT{f0, f1}, 1, 18)

	coefBits := 2 * 18
	idBit := 16 + 1*coefBits
	bodyBits := idBit + 4
	body := make([]byte, (bodyBits+7)/8)

	// base_addr = 3
	for i := 0; i < 16; i++ {
		if (3>>uint(i))&1 != 0 {
			setBit(body, i)
		}
	}
	// coefficient I = 100 at bit 16
	for i := 0; i < 18; i++ {
		if (int64(100)>>uint(i))&1 != 0 {
			setBit(body, 16+i)
		}
	}
	// fft_id = 1
	setBit(body, idBit)

	assert.NoError(t, loader.Load(body))

	got, err := f1.Retrieve(3)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), got.I)

	gotZero, err := f0.Retrieve(3)
	assert.NoError(t, err)
	assert.Equal(t, Sample{}, gotZero)
}

func TestSTFTBranchAdvancesPlaybackPosition(t *testing.T) {
	duc := NewPhasedDUC(2, 32, 18, 15, 9, 4, 18)
	b := NewSTFTBranch(8, 18, 4, 64, 18, duc)

	for i := 0; i < 8; i++ {
		assert.NoError(t, b.FFT.Load(i, Sample{I: int64(i * 100)}, false))
	}

	start := b.pos
	for i := 0; i < 5; i++ {
		b.Step(0, 0, false)
	}

	assert.NotEqual(t, start, b.pos, "playback position should have advanced")
}

func TestPulseGenShaperDisabledPassesSumThrough(t *testing.T) {
	pg := NewPulseGen(1, 8, 18, 4, 64, 18, 18, 32, 15, 9, 4)
	pg.ShaperEnabled = false

	f := []FreqWord{0}
	p := []PhaseWord{0}
	clr := []bool{false}

	out0, out1 := pg.Step(f, p, clr)
	assert.Equal(t, Sample{}, out0, "unloaded FFT memory starts at zero")
	assert.Equal(t, Sample{}, out1)
}

func TestPulseGenLoaderSpansAllFFTs(t *testing.T) {
	pg := NewPulseGen(2, 8, 18, 4, 64, 18, 18, 32, 15, 9, 4)
	loader := pg.Loader(1, 18)
	assert.NotNil(t, loader)
	assert.Equal(t, 3, len(loader.ffts)) // 2 branches + 1 shaper
}
