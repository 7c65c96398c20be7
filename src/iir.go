package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	First-order multi-channel, multi-profile IIR servo, spec
 *		§4.9, ported from the original gateware's iir.py Dsp/Iir.
 *
 * Description:	A single shared multiply-accumulate pipeline serves
 *		n_channels x n_profiles one-pole biquads, one active
 *		profile per channel per sweep. iir.py's Dsp module models
 *		a Xilinx DSP48 slice (A*B, plus C or running P, one cycle
 *		of latency); Step below collapses that into the direct
 *		three-term accumulation the DSP slice computes over its
 *		three cycles, since nothing downstream depends on the
 *		slice's own latency, only on the per-channel MAC order
 *		(b0*x0, then +b1*x1, then +a0*y1) that iir.py's step state
 *		machine encodes.
 *
 *------------------------------------------------------------------*/

// NrCoeff is the number of coefficients per (channel, profile) pair:
// b0, b1, a0.
const NrCoeff = 3

// IIRProfile holds one channel's one profile's tunables.
type IIRProfile struct {
	B0, B1, A0 int64 // W_c-bit signed coefficients
	Offset     int64 // W_d-bit signed offset, o_{c,p}
	Hold       bool  // freeze y1 updates while active
}

// IIR implements the time-multiplexed first-order servo of spec §4.9.
type IIR struct {
	wCoeff, wData, gainBits int
	nrProfiles, nrChannels  int

	profiles [][]IIRProfile // [profile][channel]
	chProfile []int          // active profile index per channel

	x0, x1 []int64 // per-channel input history, shared across profiles
	y1     [][]int64 // [profile][channel] past output

	busy      bool
	step      int
	chanIndex int
	lastProfile []int // ch_profile latched at the end of each sweep (stb_out), per channel

	inp  []int64
	outp []int64
}

// NewIIR builds a servo for nrChannels channels and nrProfiles
// profiles per channel, with wCoeff-bit coefficients, wData-bit data
// path, and gainBits fractional bits of implicit a0 gain.
func NewIIR(wCoeff, wData, gainBits, nrProfiles, nrChannels int) *IIR {
	ir := &IIR{
		wCoeff: wCoeff, wData: wData, gainBits: gainBits,
		nrProfiles: nrProfiles, nrChannels: nrChannels,
		chProfile:   make([]int, nrChannels),
		lastProfile: make([]int, nrChannels),
		x0:          make([]int64, nrChannels),
		x1:          make([]int64, nrChannels),
		inp:         make([]int64, nrChannels),
		outp:        make([]int64, nrChannels),
	}

	ir.profiles = make([][]IIRProfile, nrProfiles)
	ir.y1 = make([][]int64, nrProfiles)

	for p := 0; p < nrProfiles; p++ {
		ir.profiles[p] = make([]IIRProfile, nrChannels)
		ir.y1[p] = make([]int64, nrChannels)
	}

	return ir
}

// SetProfile writes channel ch's profile p coefficients.
func (ir *IIR) SetProfile(ch, p int, prof IIRProfile) {
	ir.profiles[p][ch] = prof
}

// SetChannelProfile requests channel ch select profile p. Per spec
// §4.9 and §5's atomicity note, the change only takes effect at the
// next end-of-sweep (stb_out), not mid-sweep.
func (ir *IIR) SetChannelProfile(ch, p int) { ir.chProfile[ch] = p }

// SetInput loads channel ch's ADC feedback sample, sampled at the next
// stb_in.
func (ir *IIR) SetInput(ch int, x int64) { ir.inp[ch] = x }

// Output returns channel ch's current (zero-order-held) servo output.
func (ir *IIR) Output(ch int) int64 { return ir.outp[ch] }

// Busy reports whether a sweep is in progress.
func (ir *IIR) Busy() bool { return ir.busy }

// dspAccumWidth is the width, in bits, of the Xilinx DSP48 slice's P
// accumulator register that iir.py's Dsp module models (self.p =
// Signal((48, True))). shiftC is sized relative to this fixed hardware
// width, not to w_coeff: the slice's A and B ports are pre-shifted up
// to their own fixed widths before the multiply, so the final output
// shift depends only on how much of the 48-bit accumulator lies above
// the clipped W_d-bit result once gainBits of a0 headroom are set
// aside, matching iir.py's `shift_c = len(dsp.p) - w_data - gainbits - 1`.
const dspAccumWidth = 48

// shiftC is the DSP output's fractional-bit count above a clipped
// W_d-bit result: spec §4.9 "C input carries a rounding offset".
func (ir *IIR) shiftC() uint { return uint(dspAccumWidth - ir.wData - ir.gainBits - 1) }

// Step advances the servo by one cycle. stbIn begins a new sweep if
// the servo is currently idle; it is ignored while busy, matching the
// gateware's "once busy=1, the sweep runs to completion" rule (§5).
// stbOut reports whether this cycle is the sweep's final cycle.
func (ir *IIR) Step(stbIn bool) (stbOut bool) {
	if !ir.busy {
		if stbIn {
			ir.busy = true
			ir.step = 0
			ir.chanIndex = 0

			for c := 0; c < ir.nrChannels; c++ {
				ir.x0[c] = ir.inp[c]
			}
		}

		return false
	}

	ch := ir.chanIndex
	p := ir.lastProfile[ch]
	prof := ir.profiles[p][ch]

	var acc int64
	switch ir.step {
	case 0:
		acc = prof.B0*ir.x0[ch] + prof.Offset<<ir.shiftC()
	case 1:
		acc = prof.B0*ir.x0[ch] + prof.Offset<<ir.shiftC() + prof.B1*ir.x1[ch]
	case 2:
		acc = prof.B0*ir.x0[ch] + prof.Offset<<ir.shiftC() + prof.B1*ir.x1[ch] + prof.A0*ir.y1[p][ch]
	}

	ir.step++

	if ir.step == 3 {
		ir.step = 0

		y := ir.clip(acc)
		if !prof.Hold {
			ir.y1[p][ch] = y
		}

		ir.outp[ch] = y
		ir.chanIndex++

		if ir.chanIndex == ir.nrChannels {
			ir.busy = false
			copy(ir.x1, ir.x0)
			copy(ir.lastProfile, ir.chProfile)

			return true
		}
	}

	return false
}

// clip applies spec §4.9's asymmetric, positive-only saturation: the
// DSP accumulator's top bits above the clipped range must all equal
// its sign bit, else the result saturates to the data width's maximum
// (sign clear) or to zero (sign set) -- a positive-only output range.
func (ir *IIR) clip(p int64) int64 {
	shift := ir.shiftC()
	bias := int64(1)<<(shift-1) - 1
	y := (p + bias) >> shift

	max := int64(1)<<uint(ir.wData-1) - 1

	// The n_sign bits above the clipped range must all equal the sign
	// bit; otherwise the accumulator overflowed the data width.
	top := p >> (shift + uint(ir.wData-1))
	allSign := top == 0 || top == -1

	if !allSign {
		if p < 0 {
			return 0
		}

		return max
	}

	if y > max {
		return max
	}

	if y < 0 {
		return 0
	}

	return y
}
