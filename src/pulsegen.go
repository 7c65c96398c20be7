package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	STFT pulse generator, spec §4.7 and §4.8, ported from
 *		stft_pulsegen/pulsegen.py's Fft_Loader/STFT_Branch/
 *		Shaper/Pulsegen.
 *
 * Description:	Each branch plays back one inverse-FFT waveform through
 *		an I/Q interpolator pair and a PhasedDUC; branches sum,
 *		then the sum is optionally multiplied by a shaper branch's
 *		real envelope (an amplitude-shaping window, itself an
 *		inverse-FFT waveform through a single real interpolator).
 *		pulsegen.py's pulse-repeat counter is commented out in the
 *		original ("standard pulse mode" is future work there); this
 *		keeps only the always-enabled "continuous fft output" mode
 *		it left live.
 *
 *------------------------------------------------------------------*/

// FFTLoader buffers successive frame bodies of FFT-load frames into
// one of several FFT memories, selected by a 4-bit id carried in the
// frame body, spec §6's body layout for type==2 frames.
type FFTLoader struct {
	ffts         []*BlockFFT
	coefPerFrame int
	width        int
}

// NewFFTLoader builds a loader feeding any of ffts, coefPerFrame
// complex coefficients per frame, each coefficient width bits.
func NewFFTLoader(ffts []*BlockFFT, coefPerFrame, width int) *FFTLoader {
	return &FFTLoader{ffts: ffts, coefPerFrame: coefPerFrame, width: width}
}

// Load applies one FFT-load frame: body carries {base_addr(16),
// coefficients..., fft_id(4)} little-endian, per spec §6.
func (l *FFTLoader) Load(body []byte) error {
	bit := func(lo, n int) int64 {
		var v uint64
		for i := 0; i < n; i++ {
			b := lo + i
			byteIdx, bitIdx := b/8, b%8
			if byteIdx < len(body) && body[byteIdx]&(1<<uint(bitIdx)) != 0 {
				v |= 1 << uint(i)
			}
		}

		return signExtend(int64(v), uint(n))
	}

	baseAddr := int(bit(0, 16))
	coefBits := 2 * l.width

	for i := 0; i < l.coefPerFrame; i++ {
		lo := 16 + i*coefBits
		s := Sample{I: bit(lo, l.width), Q: bit(lo+l.width, l.width)}

		idBit := 16 + l.coefPerFrame*coefBits
		fftID := int(bit(idBit, 4))

		if fftID < 0 || fftID >= len(l.ffts) {
			continue
		}

		if err := l.ffts[fftID].Load(baseAddr+i, s, false); err != nil {
			return err
		}
	}

	return nil
}

// STFTBranch is one upconverted IFFT playback branch: an IFFT memory
// played back at pos, through an I and a Q SuperInterpolator, through
// a two-lane PhasedDUC.
type STFTBranch struct {
	FFT    *BlockFFT
	InterI *SuperInterpolator
	InterQ *SuperInterpolator
	DUC    *PhasedDUC

	pos     int
	fftSize int
}

// NewSTFTBranch builds a branch over an fftSize-point IFFT and a
// two-lane DUC.
func NewSTFTBranch(fftSize, width, cicOrder, cicRMax, cicWidth int, duc *PhasedDUC) *STFTBranch {
	return &STFTBranch{
		FFT:     NewBlockFFT(fftSize, 18),
		InterI:  NewSuperInterpolator(cicOrder, cicRMax, cicWidth),
		InterQ:  NewSuperInterpolator(cicOrder, cicRMax, cicWidth),
		DUC:     duc,
		fftSize: fftSize,
	}
}

// Step advances the branch by one cycle: playback position advances
// by one cell each time the interpolators accept a new input (the
// "continuous fft output" mode of pulsegen.py), and the two DUC lanes
// for this cycle are returned.
func (b *STFTBranch) Step(f FreqWord, p PhaseWord, clr bool) (lane0, lane1 Sample) {
	x, _ := b.FFT.Retrieve(b.pos)

	ackI, i0, _ := b.InterI.Step(Sample{I: x.I})
	_, q0, _ := b.InterQ.Step(Sample{I: x.Q})

	if ackI {
		b.pos++
		if b.pos >= b.fftSize {
			b.pos = 0
		}
	}

	lanes := b.DUC.Step(f, p, clr, Sample{I: i0.I, Q: q0.I})

	return lanes[0], lanes[1]
}

// Shaper is the real-valued amplitude envelope branch: an IFFT
// playback through a single real SuperInterpolator.
type Shaper struct {
	FFT   *BlockFFT
	Inter *SuperInterpolator

	pos     int
	fftSize int
}

// NewShaper builds a shaper over an fftSize-point IFFT.
func NewShaper(fftSize, cicOrder, cicRMax, cicWidth int) *Shaper {
	return &Shaper{
		FFT:     NewBlockFFT(fftSize, 18),
		Inter:   NewSuperInterpolator(cicOrder, cicRMax, cicWidth),
		fftSize: fftSize,
	}
}

// Step advances the shaper by one cycle, returning its two
// supersampled real envelope outputs for this cycle.
func (s *Shaper) Step() (out0, out1 int64) {
	x, _ := s.FFT.Retrieve(s.pos)

	ack, o0, o1 := s.Inter.Step(Sample{I: x.I})
	if ack {
		s.pos++
		if s.pos >= s.fftSize {
			s.pos = 0
		}
	}

	return o0.I, o1.I
}

// PulseGen sums nr_branches STFT branches and optionally multiplies
// the sum by the shaper's envelope, spec §4.7's "FFT + interpolator +
// DUC + multiplication by window branch."
type PulseGen struct {
	Branches []*STFTBranch
	Shaper   *Shaper
	mul      [2]*ComplexMultiplier

	ShaperEnabled bool
}

// NewPulseGen builds a generator with nrBranches STFT branches sharing
// one fftSize and one shaper.
func NewPulseGen(nrBranches, fftSize, width, cicOrder, cicRMax, cicWidth, pwidth, fwidth, cosSinX, cosSinLUTBits, cosSinDBits int) *PulseGen {
	pg := &PulseGen{Shaper: NewShaper(fftSize, cicOrder, cicRMax, cicWidth)}

	for i := 0; i < nrBranches; i++ {
		duc := NewPhasedDUC(2, fwidth, pwidth, cosSinX, cosSinLUTBits, cosSinDBits, width)
		pg.Branches = append(pg.Branches, NewSTFTBranch(fftSize, width, cicOrder, cicRMax, cicWidth, duc))
	}

	pg.mul[0] = NewComplexMultiplier(width, width, width)
	pg.mul[1] = NewComplexMultiplier(width, width, width)

	return pg
}

// Loader builds an FFTLoader spanning every branch's FFT plus the
// shaper's FFT, per pulsegen.py's Fft_Loader wiring order.
func (pg *PulseGen) Loader(coefPerFrame, width int) *FFTLoader {
	ffts := make([]*BlockFFT, 0, len(pg.Branches)+1)
	for _, b := range pg.Branches {
		ffts = append(ffts, b.FFT)
	}

	ffts = append(ffts, pg.Shaper.FFT)

	return NewFFTLoader(ffts, coefPerFrame, width)
}

// Step advances every branch and the shaper by one cycle and returns
// the two supersampled output lanes: the sum of all branches, times
// the shaper envelope when ShaperEnabled.
func (pg *PulseGen) Step(f []FreqWord, p []PhaseWord, clr []bool) (out0, out1 Sample) {
	var sum0, sum1 Sample

	for i, b := range pg.Branches {
		l0, l1 := b.Step(f[i], p[i], clr[i])
		sum0 = Sample{I: sum0.I + l0.I, Q: sum0.Q + l0.Q}
		sum1 = Sample{I: sum1.I + l1.I, Q: sum1.Q + l1.Q}
	}

	sh0, sh1 := pg.Shaper.Step()

	if !pg.ShaperEnabled {
		return sum0, sum1
	}

	out0 = pg.mul[0].Step(Sample{I: sh0}, sum0)
	out1 = pg.mul[1].Step(Sample{I: sh1}, sum1)

	return out0, out1
}
