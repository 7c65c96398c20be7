package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Variable-rate CIC interpolator with gain normalization,
 *		spec §3 (CIC gain-normalization LUT) and §4.5 (SuperCIC).
 *
 * Description:	n comb stages at the input rate, a zero-stuff gearbox
 *		that emits two samples per cycle, then n-1 supersampled
 *		integrator stages, with the comb/integrator state held
 *		in one contiguous buffer per spec §9's "array-of-array
 *		registers... represent as a contiguous owning buffer"
 *		guidance (itself grounded in the original gateware's
 *		cic.py make_itercomb, which shares one RAM-backed
 *		accumulator across comb stages rather than instancing
 *		n separate registers).
 *
 *------------------------------------------------------------------*/

import "math"

// CICGainEntry is one row of the gain-normalization LUT: the
// multiplier and shift that bring a rate-r CIC's DC gain to unity.
type CICGainEntry struct {
	Mul   int64
	Shift uint
}

// BuildCICGainLUT returns, for each rate r in [2, rMax], the (mul,
// shift) pair satisfying spec §3's invariant: applying (y*mul)>>shift
// to the raw CIC output yields unity end-to-end DC gain, with mul
// normalized into [2^(lutWidth-1-k), 2^(lutWidth-k)) and
// shift = ceil((n-1)*log2(r)).
func BuildCICGainLUT(n, rMax, lutWidth int) map[int]CICGainEntry {
	lut := make(map[int]CICGainEntry, rMax-1)

	for r := 2; r <= rMax; r++ {
		// Raw CIC DC gain for n comb + n-1 supersampled integrator
		// stages, per spec §4.5's normalization target r^(n-1).
		rawGain := math.Pow(float64(r), float64(n-1))
		shift := uint(math.Ceil(float64(n-1) * math.Log2(float64(r))))

		target := math.Pow(2, float64(shift)) / rawGain
		mul := int64(math.Round(target * float64(int64(1)<<uint(lutWidth-1))))

		// Normalize mul into [2^(lutWidth-1-k), 2^(lutWidth-k)).
		for mul >= int64(1)<<uint(lutWidth) {
			mul >>= 1
			shift--
		}

		for mul > 0 && mul < int64(1)<<uint(lutWidth-1) {
			mul <<= 1
			shift++
		}

		lut[r] = CICGainEntry{Mul: mul, Shift: shift}
	}

	return lut
}

// SuperCIC implements the variable-rate CIC interpolator of spec
// §4.5: n comb stages, a gearboxed zero-stuff to two samples/cycle,
// n-1 supersampled integrator stages, and gain normalization from the
// LUT built by BuildCICGainLUT.
type SuperCIC struct {
	n, rMax, width int
	lut            map[int]CICGainEntry

	combs       []int64 // contiguous comb-stage state, rail-major
	integrators []int64 // contiguous integrator-stage state

	rate int
}

// NewSuperCIC builds a CIC with order n, max rate rMax, internal
// datapath width width (used to size the gain LUT).
func NewSuperCIC(n, rMax, width int) *SuperCIC {
	Assert(n >= 1, "supercic: order must be >= 1")
	Assert(rMax >= 2, "supercic: r_max must be >= 2")

	return &SuperCIC{
		n: n, rMax: rMax, width: width,
		lut:         BuildCICGainLUT(n, rMax, width),
		combs:       make([]int64, n),
		integrators: make([]int64, n-1),
		rate:        2,
	}
}

// SetRate changes the interpolation rate, triggering the full-zero
// reset of combs and integrators spec §4.5 requires on any rate
// change.
func (c *SuperCIC) SetRate(r int) {
	if r == c.rate {
		return
	}

	c.rate = r

	for i := range c.combs {
		c.combs[i] = 0
	}

	for i := range c.integrators {
		c.integrators[i] = 0
	}
}

// combStep runs the input x through the n comb stages, returning the
// final comb output. State is the contiguous per-stage history
// (combs[i] holds stage i's previous input).
func (c *SuperCIC) combStep(x int64) int64 {
	v := x

	for i := 0; i < c.n; i++ {
		prev := c.combs[i]
		c.combs[i] = v
		v = v - prev
	}

	return v
}

// Step pushes one input sample at the CIC's input rate and returns
// two output samples per cycle (the gearboxed supersampled rate).
// Only every rate-th call produces a fresh comb output; in between,
// zero is fed into the comb chain (the "zero-stuff" gearbox).
func (c *SuperCIC) Step(x int64, inValid bool) (y0, y1 int64) {
	var combOut int64
	if inValid {
		combOut = c.combStep(x)
	} else {
		combOut = c.combStep(0)
	}

	y0 = c.integrateStep(combOut)
	y1 = c.integrateStep(0)

	entry, ok := c.lut[c.rate]
	if !ok {
		entry = CICGainEntry{Mul: 1 << uint(c.width-1), Shift: uint(c.width - 1)}
	}

	y0 = roundHalfDown(y0*entry.Mul, entry.Shift)
	y1 = roundHalfDown(y1*entry.Mul, entry.Shift)

	return y0, y1
}

// integrateStep runs one supersampled sample through the n-1
// integrator stages.
func (c *SuperCIC) integrateStep(x int64) int64 {
	v := x

	for i := 0; i < len(c.integrators); i++ {
		c.integrators[i] += v
		v = c.integrators[i]
	}

	return v
}
