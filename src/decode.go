package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	SampleMux and Decoder, spec §4.10, ported from decode.py's
 *		SampleMux/Decode.
 *
 *------------------------------------------------------------------*/

// SampleMux is the zero-order-hold interpolator of spec §4.10: it
// takes a frame body as n_mux consecutive complex samples per
// channel, and emits one sample per channel every t_frame/n_mux
// cycles. Its strobe marks the first cycle of every mux slot, slot 0
// of a new body included; the start of a body gets no separate mark.
type SampleMux struct {
	layout  FrameLayout
	nInterp int // t_frame / n_mux

	samples  [][]Sample // [mux slot][channel], most-recent body
	iSample  int
	iInterp  int

	current []Sample // per-channel zero-order-held output
}

// NewSampleMux builds a mux for the given frame geometry and
// t_frame clock cycles per frame, which must be an exact multiple of
// n_mux.
func NewSampleMux(layout FrameLayout, tFrame int) *SampleMux {
	Assert(tFrame%layout.NMux == 0, "samplemux: t_frame must be a multiple of n_mux")

	return &SampleMux{
		layout:  layout,
		nInterp: tFrame / layout.NMux,
		current: make([]Sample, layout.NChannel),
	}
}

// Step advances the mux by one cycle. When bodyStb is true, frame
// carries a freshly decoded frame body that replaces the mux's
// sample buffer and restarts mux-slot iteration at slot 0. It returns
// the current per-channel samples and whether this cycle is the
// first of a new mux slot (true for every slot, not only the first
// slot of a new body).
func (sm *SampleMux) Step(bodyStb bool, frame Frame) (samples []Sample, sampleStb bool) {
	if bodyStb {
		sm.samples = make([][]Sample, sm.layout.NMux)
		for m := 0; m < sm.layout.NMux; m++ {
			row := make([]Sample, sm.layout.NChannel)
			for ch := 0; ch < sm.layout.NChannel; ch++ {
				row[ch] = frame.Sample(sm.layout, m, ch)
			}

			sm.samples[m] = row
		}

		sm.iSample = 0
		sm.iInterp = sm.nInterp - 1
		sampleStb = true
	} else {
		sm.iInterp--

		if sm.iInterp < 0 {
			sm.iInterp = sm.nInterp - 1
			sm.iSample++

			if sm.iSample >= sm.layout.NMux {
				sm.iSample = sm.layout.NMux - 1
			}

			sampleStb = true
		}
	}

	if sm.samples != nil {
		copy(sm.current, sm.samples[sm.iSample])
	}

	out := make([]Sample, len(sm.current))
	copy(out, sm.current)

	return out, sampleStb
}

// Decoder ties a decoded frame to the sample mux, the FFT loader
// strobe, and the register bus, spec §4.10.
type Decoder struct {
	Layout FrameLayout
	Bus    *Bus
	Mux    *SampleMux
}

// NewDecoder builds a decoder for the given frame geometry and
// t_frame cycles per frame.
func NewDecoder(layout FrameLayout, tFrame int) *Decoder {
	return &Decoder{
		Layout: layout,
		Bus:    NewBus(),
		Mux:    NewSampleMux(layout, tFrame),
	}
}

// DecodeResult is what a single frame strobe produces.
type DecodeResult struct {
	RegDatR  uint8
	Samples  []Sample
	SampleStb bool
	FFTStb   bool
	FFTFrame Frame
}

// Step consumes one frame strobe (frameValid, raw) -- raw is only
// meaningful when frameValid is true -- and drives the register bus
// and sample mux for this cycle. Per spec §4.10, header.type selects
// between body_stb (type 1, routed to the sample mux) and fft_stb
// (type 2, routed to the caller for the FFT loader).
func (d *Decoder) Step(frameValid bool, raw []byte) (DecodeResult, error) {
	var frame Frame

	var res DecodeResult

	if frameValid {
		f, err := DecodeFrame(raw, d.Layout)
		if err != nil {
			return DecodeResult{}, err
		}

		frame = f

		we := frame.Header.We
		re := !we
		res.RegDatR = d.Bus.Access(frame.Header.Addr, we, re, frame.Header.Data)

		if frame.Header.Type == FrameTypeFFTLoad {
			res.FFTStb = true
			res.FFTFrame = frame
		}
	}

	bodyStb := frameValid && frame.Header.Type == FrameTypeSample
	samples, sampleStb := d.Mux.Step(bodyStb, frame)
	res.Samples = samples
	res.SampleStb = sampleStb

	return res, nil
}
