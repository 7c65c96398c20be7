package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Complex multiplier with rounding/saturation (spec §4.2).
 *
 * Description:	Three-multiplication Karatsuba-style complex product,
 *		ported from duc.py's ComplexMultiplier. A positive
 *		rounding bias is added before the final shift so
 *		mid-points round down (the "round half down" convention
 *		used throughout this datapath).
 *
 *------------------------------------------------------------------*/

// ComplexMultiplier computes p = a*b, rounded and truncated to pwidth
// bits, in exactly three multiplications sharing one partial product,
// matching the identity in spec §4.2:
//
//	k1 = a.I*(b.I+b.Q)
//	k2 = b.Q*(a.I+a.Q)
//	k3 = b.I*(a.Q-a.I)
//	(a*b).I = k1 - k2
//	(a*b).Q = k1 + k3
type ComplexMultiplier struct {
	awidth, bwidth, pwidth int
	shift                  uint
	bias                   int64
	delay                  *DelayLine[Sample]
}

// NewComplexMultiplier builds a multiplier for awidth-bit a, bwidth-
// bit b (defaults to awidth if 0), producing pwidth-bit output
// (defaults to awidth+bwidth+1 if 0).
func NewComplexMultiplier(awidth, bwidth, pwidth int) *ComplexMultiplier {
	if bwidth == 0 {
		bwidth = awidth
	}

	if pwidth == 0 {
		pwidth = awidth + bwidth + 1
	}

	shiftBits := awidth + bwidth - pwidth
	if shiftBits < 0 {
		shiftBits = 0
	}

	bias := int64(0)
	if shiftBits >= 1 {
		bias = int64(1)<<uint(shiftBits-1) - 1
		if shiftBits == 0 {
			bias = 0
		}
	}

	m := &ComplexMultiplier{
		awidth: awidth, bwidth: bwidth, pwidth: pwidth,
		shift: uint(shiftBits), bias: bias,
	}
	m.delay = NewDelayLine[Sample](m.Latency())

	return m
}

// Latency is the fixed pipeline depth (5 cycles, per spec §4.2).
func (m *ComplexMultiplier) Latency() int { return 5 }

// Step feeds one complex pair through the pipeline and returns the
// product that entered 5 cycles ago.
func (m *ComplexMultiplier) Step(a, b Sample) Sample {
	k1 := a.I * (b.I + b.Q)
	re := k1 - b.Q*(a.I+a.Q)
	im := k1 + b.I*(a.Q-a.I)

	var p Sample
	if m.shift > 0 {
		p = Sample{
			I: (re + m.bias) >> m.shift,
			Q: (im + m.bias) >> m.shift,
		}
	} else {
		p = Sample{I: re, Q: im}
	}

	p.I = clipSigned(p.I, uint(m.pwidth))
	p.Q = clipSigned(p.Q, uint(m.pwidth))

	return m.delay.Push(p)
}

// StepCombinational computes the product without the pipeline delay,
// useful for golden-model tests of the arithmetic in isolation (spec
// §8 scenario 3: ComplexMul rounding).
func (m *ComplexMultiplier) StepCombinational(a, b Sample) Sample {
	k1 := a.I * (b.I + b.Q)
	re := k1 - b.Q*(a.I+a.Q)
	im := k1 + b.I*(a.Q-a.I)

	if m.shift > 0 {
		re = (re + m.bias) >> m.shift
		im = (im + m.bias) >> m.shift
	}

	return Sample{
		I: clipSigned(re, uint(m.pwidth)),
		Q: clipSigned(im, uint(m.pwidth)),
	}
}
