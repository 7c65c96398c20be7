package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Top-level board scheduler, spec §5: "single-threaded,
 *		clocked cooperative pipeline... a single free-running
 *		sample clock drives everything."
 *
 * Description:	Board wires a Decoder, per-channel interpolators, a
 *		DUC, a PulseGen and an IIR servo into the production data
 *		flow of spec §2: host frame -> decoder -> per-channel
 *		sample -> (optional STFT branch overrides) -> interpolator
 *		-> DUC -> per-sample output -> (optional IIR scaling from
 *		ADC) -> DAC bus. Tick calls the decoder and each channel's
 *		interpolator and DUC once, in that data-flow order, and the
 *		PulseGen once per channel that selects the STFT branch; it
 *		does not step the IIR servo, so no IIR scaling is applied
 *		to the output. This follows §9's guidance that the
 *		production repo's clocked module graph becomes a plain
 *		function call sequence under a software scheduler, rather
 *		than its own interface/goroutine abstraction.
 *
 *------------------------------------------------------------------*/

// FrameLinkReader is the external collaborator providing framed,
// already byte-aligned, already CRC-checked link input (spec §1's
// "treated as an abstract byte-aligned framed stream, with a single
// 'frame valid' event per frame" -- the physical layer itself is out
// of scope).
type FrameLinkReader interface {
	// ReadFrame returns the next frame's raw bytes and true, or
	// (nil, false) if no frame is available this cycle.
	ReadFrame() ([]byte, bool)
}

// DACSink is the external collaborator that accepts one finished
// output sample per channel per cycle (spec §1's "source-synchronous
// DAC output formatting" is out of scope; Board only produces the
// values).
type DACSink interface {
	WriteSample(ch int, s Sample)
}

// ChannelConfig is one channel's DUC tuning plus STFT-branch override
// selection, addressable from the register map (duc*_cfg, duc*_f,
// duc*_p of spec §6).
type ChannelConfig struct {
	Freq      FreqWord
	Phase     PhaseWord
	Clr       bool
	ClrOnce   bool
	UseTest   bool
	TestValue Sample
	UseSTFT   bool
}

// Board is the assembled datapath: one Decoder, one interpolator and
// one DUC per channel, an optional shared PulseGen STFT branch (Pulse,
// nil unless the caller sets it), and one shared IIR servo.
type Board struct {
	Layout  FrameLayout
	Decoder *Decoder

	interpolators []*SuperInterpolator
	ducs          []*PhasedDUC
	channelCfg    []ChannelConfig

	Pulse *PulseGen
	IIR   *IIR
	Regs  *RegisterMap

	Link FrameLinkReader
	DAC  DACSink

	cycle uint64
}

// NewBoard assembles a board for nChannel DAC channels over the given
// frame layout and t_frame cycles per frame.
func NewBoard(layout FrameLayout, tFrame, fwidth, pwidth, cosSinX, cosSinLUTBits, cosSinDBits, cicOrder, cicRMax, cicWidth int) *Board {
	b := &Board{
		Layout:  layout,
		Decoder: NewDecoder(layout, tFrame),
	}

	for ch := 0; ch < layout.NChannel; ch++ {
		b.interpolators = append(b.interpolators, NewSuperInterpolator(cicOrder, cicRMax, cicWidth))
		b.ducs = append(b.ducs, NewPhasedDUC(2, fwidth, pwidth, cosSinX, cosSinLUTBits, cosSinDBits, layout.WSample))
		b.channelCfg = append(b.channelCfg, ChannelConfig{})
	}

	b.IIR = NewIIR(18, layout.WSample, 8, 4, layout.NChannel)

	b.Regs = NewRegisterMap(b, 18, layout.WSample)
	b.Decoder.Bus = b.Regs.Bus

	return b
}

// SetChannelConfig installs channel ch's DUC tuning for the next tick.
func (b *Board) SetChannelConfig(ch int, cfg ChannelConfig) { b.channelCfg[ch] = cfg }

// Tick advances the entire board by one clock cycle: it pulls at most
// one frame from Link, decodes it, runs every channel's interpolator
// and DUC, steps Pulse (when set) once for each channel with UseSTFT
// and uses its output in place of the DUC's, and pushes the resulting
// samples to DAC. The IIR servo is not stepped by Tick.
func (b *Board) Tick() error {
	b.cycle++

	raw, frameValid := b.Link.ReadFrame()

	res, err := b.Decoder.Step(frameValid, raw)
	if err != nil {
		return err
	}

	b.Regs.Sync()

	for ch := 0; ch < b.Layout.NChannel; ch++ {
		cfg := b.channelCfg[ch]

		in := res.Samples[ch]
		if cfg.UseTest {
			in = cfg.TestValue
		}

		_, i0, _ := b.interpolators[ch].Step(in)

		if cfg.ClrOnce {
			b.ducs[ch].RequestClrOnce()
			b.channelCfg[ch].ClrOnce = false
		}

		lanes := b.ducs[ch].Step(cfg.Freq, cfg.Phase, cfg.Clr, i0)
		out := lanes[0]

		if cfg.UseSTFT && b.Pulse != nil {
			f := make([]FreqWord, len(b.Pulse.Branches))
			p := make([]PhaseWord, len(b.Pulse.Branches))
			clr := make([]bool, len(b.Pulse.Branches))
			stftOut, _ := b.Pulse.Step(f, p, clr)
			out = stftOut
		}

		b.Regs.RefreshReadback(ch, out)
		b.DAC.WriteSample(ch, out)
	}

	return nil
}
