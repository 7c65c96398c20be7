package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Multi-stage polyphase interpolator, spec §4.4.
 *
 * Description:	HBF0 -> HBF1 -> SuperCIC, selected by rate:
 *		  r = 2:  HBF0 only (x2)
 *		  r = 4:  HBF0, HBF1 (x2 each, x4 total)
 *		  r >= 8: HBF0, HBF1, then SuperCIC at r/4
 *
 *		Accepting one input sample produces exactly r output
 *		samples (the cascade's total upsample ratio); those are
 *		queued and drained two per cycle, which is what gives
 *		the black-box contract of spec §4.4: input ack averages
 *		one accept per r/2 cycles, output strobe is continuous at
 *		two samples per cycle. This is a software re-architecture
 *		(§9) of the gateware's cycle-by-cycle shared MAC chain: it
 *		preserves the filter math and the handshake contract
 *		without reproducing MAC-chain scheduling that only
 *		matters for silicon area, not datapath semantics.
 *
 *------------------------------------------------------------------*/

import "fmt"

// SuperInterpolator implements the three-mode interpolator of spec §4.4.
type SuperInterpolator struct {
	hbf0, hbf1 *HBF
	cicI, cicQ *SuperCIC

	cicOrder, cicRMax, cicWidth int

	rate     int
	ackGen   int
	outQueue []Sample
}

// NewSuperInterpolator builds an interpolator with a SuperCIC of
// order cicOrder, max CIC rate cicRMax, internal width cicWidth.
func NewSuperInterpolator(cicOrder, cicRMax, cicWidth int) *SuperInterpolator {
	si := &SuperInterpolator{
		cicOrder: cicOrder, cicRMax: cicRMax, cicWidth: cicWidth,
		rate: 2,
	}
	si.resetFilters()

	return si
}

func (si *SuperInterpolator) resetFilters() {
	si.hbf0 = NewHBF(HBF0Coeffs)
	si.hbf1 = NewHBF(HBF1Coeffs)
	si.cicI = NewSuperCIC(si.cicOrder, si.cicRMax, si.cicWidth)
	si.cicQ = NewSuperCIC(si.cicOrder, si.cicRMax, si.cicWidth)

	if si.rate >= 8 {
		si.cicI.SetRate(si.rate / 4)
		si.cicQ.SetRate(si.rate / 4)
	}

	si.outQueue = si.outQueue[:0]
}

// SetRate changes the overall interpolation rate r, which must be 2
// or a multiple of 4. A change triggers the filter reset (f_rst) of
// spec §4.4: internal state is flushed and a short transient follows.
func (si *SuperInterpolator) SetRate(r int) error {
	if r != 2 && (r < 4 || r%4 != 0) {
		return fmt.Errorf("interpolate: rate %d must be 2 or a multiple of 4", r)
	}

	if r == si.rate {
		return nil
	}

	si.rate = r
	si.resetFilters()
	si.ackGen = 0

	return nil
}

// Rate returns the currently configured interpolation rate.
func (si *SuperInterpolator) Rate() int { return si.rate }

// wantsInput implements the "ack high once per r/2 cycles on average"
// pattern generator of spec §4.4, alternating cleanly for odd r/4.
func (si *SuperInterpolator) wantsInput() bool {
	period := si.rate / 2
	if period < 1 {
		period = 1
	}

	si.ackGen++
	if si.ackGen >= period {
		si.ackGen -= period
		return true
	}

	return false
}

// cascade runs one accepted input sample through the full chain for
// the current rate and returns the r resulting output samples in
// time order.
func (si *SuperInterpolator) cascade(x Sample) []Sample {
	e0, o0 := si.hbf0.Step(x)
	if si.rate == 2 {
		return []Sample{e0, o0}
	}

	e1, o1 := si.hbf1.Step(e0)
	e2, o2 := si.hbf1.Step(o0)
	stage4 := []Sample{e1, o1, e2, o2}

	if si.rate == 4 {
		return stage4
	}

	// Each SuperCIC.Step call already emits the two-samples-per-cycle
	// gearbox output of spec §4.5; rCic/2 calls per intermediate
	// sample (the first accepting it, the rest zero-stuffing) yields
	// rCic total outputs per intermediate sample.
	rCic := si.rate / 4
	calls := rCic / 2

	if calls < 1 {
		calls = 1
	}

	out := make([]Sample, 0, si.rate)

	for _, s := range stage4 {
		for k := 0; k < calls; k++ {
			valid := k == 0
			xi, xq := int64(0), int64(0)

			if valid {
				xi, xq = s.I, s.Q
			}

			yi0, yi1 := si.cicI.Step(xi, valid)
			yq0, yq1 := si.cicQ.Step(xq, valid)
			out = append(out, Sample{I: yi0, Q: yq0}, Sample{I: yi1, Q: yq1})
		}
	}

	return out
}

// Step advances the interpolator by one cycle. in is consumed only
// when the returned ack is true. The interpolator always produces two
// output samples per cycle once its queue has filled (Stb is
// continuous per spec §4.4); during the initial fill and immediately
// after a rate-change reset, outputs are held at zero.
func (si *SuperInterpolator) Step(in Sample) (ack bool, out0, out1 Sample) {
	ack = si.wantsInput()

	if ack {
		si.outQueue = append(si.outQueue, si.cascade(in)...)
	}

	pop := func() Sample {
		if len(si.outQueue) == 0 {
			return Sample{}
		}

		s := si.outQueue[0]
		si.outQueue = si.outQueue[1:]

		return s
	}

	out0 = pop()
	out1 = pop()

	return ack, out0, out1
}
