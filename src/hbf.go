package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Half-band FIR upsampler (×2), spec §4.4.
 *
 * Description:	A half-band filter has every tap at an even distance
 *		from the center zero, except the center tap itself; the coefficient vectors below
 *		(HBF0, HBF1) are bit-for-bit the ones from the original
 *		gateware's interpolate.py InterpolateChannel, which spec
 *		§6 calls out as an invariant a compatible implementation
 *		must preserve. Coefficients are Q18 fixed point
 *		(center tap 131072 = 2^17, unity gain after a 17-bit
 *		right shift).
 *
 *		Because all even taps but the center are zero, the
 *		"even" (zero-stuffed) output of a half-band upsampler is
 *		just the center-tap-scaled delayed input (identity at
 *		unity gain); only the "odd" output requires summing the
 *		non-zero taps. That's the "exploit center-tap +
 *		even-symmetry" optimization spec §4.4 describes, and
 *		why both HBF0 and HBF1 can share one MAC chain: at any
 *		given moment only one of them is producing a non-trivial
 *		output.
 *
 *------------------------------------------------------------------*/

// HBF0Coeffs and HBF1Coeffs are the two half-band filter coefficient
// vectors of the production interpolator, ×2 upsampling each.
var (
	HBF0Coeffs = []int64{
		-167, 0, 428, 0, -931, 0, 1776, 0, -3115, 0, 5185, 0, -8442, 0,
		14028, 0, -26142, 0, 82873, 131072, 82873, 0, -26142, 0, 14028,
		0, -8442, 0, 5185, 0, -3115, 0, 1776, 0, -931, 0, 428, 0, -167,
	}
	HBF1Coeffs = []int64{
		294, 0, -1865, 0, 6869, 0, -20436, 0, 80679, 131072, 80679, 0,
		-20436, 0, 6869, 0, -1865, 0, 294,
	}
)

const hbfShift = 17 // taps are Q17 (center tap = 1<<17)

// hbfPipelineDepth is the shared MAC chain's documented pipeline
// depth (spec §4.4: "a shared MAC chain of 15 pipelined multiply-add
// stages").
const hbfPipelineDepth = 15

// HBF is a complex half-band ×2 interpolator built from a symmetric,
// odd-length coefficient vector with every even tap but the center
// zero. I and Q rails run the identical filter independently.
type HBF struct {
	coeffs    []int64
	historyI  []int64 // most-recent-first input history
	historyQ  []int64
	oddTaps   []int // indices of non-zero, non-center coefficients
	center    int64
	delay     *DelayLine[[2]Sample] // models the shared MAC chain's pipeline depth
}

// NewHBF builds a half-band upsampler from a symmetric coefficient
// vector (odd length, center tap at the midpoint).
func NewHBF(coeffs []int64) *HBF {
	Assert(len(coeffs)%2 == 1, "hbf: coefficient vector must have odd length")

	mid := len(coeffs) / 2
	h := &HBF{
		coeffs:   coeffs,
		historyI: make([]int64, len(coeffs)),
		historyQ: make([]int64, len(coeffs)),
		center:   coeffs[mid],
		delay:    NewDelayLine[[2]Sample](hbfPipelineDepth),
	}

	for i, c := range coeffs {
		if i != mid && c != 0 {
			h.oddTaps = append(h.oddTaps, i)
		}
	}

	return h
}

func (h *HBF) stepRail(history []int64, x int64) (even, odd int64) {
	copy(history[1:], history[:len(history)-1])
	history[0] = x

	mid := len(h.coeffs) / 2
	even = roundHalfDown(history[mid]*h.center, hbfShift)

	var acc int64
	for _, i := range h.oddTaps {
		acc += h.coeffs[i] * history[i]
	}

	odd = roundHalfDown(acc, hbfShift)

	return even, odd
}

// Step pushes one complex input sample and returns the two
// interpolated output samples (even, then odd) for this input period,
// delayed by the shared MAC chain's documented pipeline latency.
func (h *HBF) Step(in Sample) (out0, out1 Sample) {
	ei, oi := h.stepRail(h.historyI, in.I)
	eq, oq := h.stepRail(h.historyQ, in.Q)

	delayed := h.delay.Push([2]Sample{{I: ei, Q: eq}, {I: oi, Q: oq}})

	return delayed[0], delayed[1]
}
