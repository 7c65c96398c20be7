package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Core-visible register map, spec §6's "Register map
 *		(core-visible entries)" table, wired onto one Bus of
 *		concrete Register instances -- the "sta register
 *		composition" supplemented feature: decode.py's
 *		Bus/Register pattern generalized to every named entry in
 *		the table, not just the ones exercised by example.
 *
 * Description:	A link frame write carries one 8-bit dat_w per cycle
 *		(§6), so multi-byte fields (duc*_f, duc*_p,
 *		chN_profileM_dataK) are modeled as consecutive single-byte
 *		registers, MSB first, and reassembled by Sync. duc*_f,
 *		duc*_p and clr_once only take effect on a duc_stb write
 *		(§5's atomicity note); duc*_cfg's clr and mode-select bits,
 *		servo enable/profile, and IIR coefficients apply live on
 *		every Sync call, matching the original's independent
 *		per-field writes with no staging register of their own.
 *
 *------------------------------------------------------------------*/

import "fmt"

// RegisterMap owns every core-visible register of spec §6 for one
// Board and keeps its live channel and IIR configuration synchronized
// with what has been written to them.
type RegisterMap struct {
	Bus *Bus

	board *Board

	Cfg    *Register
	Sta    *Register
	DucStb *Register

	ducCfg []*Register   // [channel]
	ducF   [][]*Register // [channel][4]byte, MSB first
	ducP   [][]*Register // [channel][2]byte, MSB first

	dacData []*Register // [channel]
	dacTest []*Register // [channel]

	servoCfg []*Register // [channel]

	// iirField[channel][profile][field], field 0..3 = B0, B1, A0,
	// Offset, each backed by coeffBytes(width)-wide byte registers.
	iirField [][][][]*Register

	lastDucStb uint8
	nextAddr   uint8
	addrByName map[string]uint8

	wCoeff, wData int
}

func coeffBytes(widthBits int) int { return (widthBits + 7) / 8 }

// NewRegisterMap allocates and connects every register spec §6 names
// for board b's channel and IIR geometry. wCoeff and wData size the
// IIR coefficient and offset fields.
func NewRegisterMap(b *Board, wCoeff, wData int) *RegisterMap {
	rm := &RegisterMap{
		Bus:        NewBus(),
		board:      b,
		addrByName: make(map[string]uint8),
		wCoeff:     wCoeff,
		wData:      wData,
	}

	rm.Cfg = rm.addReg("cfg", true, true, true)
	rm.Sta = rm.addReg("sta", true, false, false)
	rm.DucStb = rm.addReg("duc_stb", false, true, false)

	n := len(b.ducs)

	for ch := 0; ch < n; ch++ {
		rm.ducCfg = append(rm.ducCfg, rm.addReg(fmt.Sprintf("duc%d_cfg", ch), true, true, true))
	}

	for ch := 0; ch < n; ch++ {
		rm.ducF = append(rm.ducF, rm.addBytes(fmt.Sprintf("duc%d_f", ch), 4))
	}

	for ch := 0; ch < n; ch++ {
		rm.ducP = append(rm.ducP, rm.addBytes(fmt.Sprintf("duc%d_p", ch), 2))
	}

	for ch := 0; ch < n; ch++ {
		rm.dacData = append(rm.dacData, rm.addReg(fmt.Sprintf("dac%d_data", ch), true, false, false))
	}

	for ch := 0; ch < n; ch++ {
		rm.dacTest = append(rm.dacTest, rm.addReg(fmt.Sprintf("dac%d_test", ch), true, true, true))
	}

	for ch := 0; ch < n; ch++ {
		rm.servoCfg = append(rm.servoCfg, rm.addReg(fmt.Sprintf("servo%d_cfg", ch), true, true, true))
	}

	coefW := coeffBytes(wCoeff)
	dataW := coeffBytes(wData)
	fieldBytes := []int{coefW, coefW, coefW, dataW} // B0, B1, A0, Offset

	ir := b.IIR
	for ch := 0; ch < ir.nrChannels; ch++ {
		var profiles [][][]*Register

		for p := 0; p < ir.nrProfiles; p++ {
			var fields [][]*Register

			for k, fb := range fieldBytes {
				name := fmt.Sprintf("ch%d_profile%d_data%d", ch, p, k)
				fields = append(fields, rm.addBytes(name, fb))
			}

			profiles = append(profiles, fields)
		}

		rm.iirField = append(rm.iirField, profiles)
	}

	return rm
}

func (rm *RegisterMap) addReg(name string, readable, writable, readback bool) *Register {
	reg := NewRegister(8, readable, writable, readback)

	if err := rm.Bus.Connect(name, reg, rm.nextAddr, 0x7f); err != nil {
		panic("regmap: " + err.Error())
	}

	rm.addrByName[name] = rm.nextAddr
	rm.nextAddr++

	return reg
}

// Addr returns the bus address a named register was connected at.
func (rm *RegisterMap) Addr(name string) (uint8, bool) {
	a, ok := rm.addrByName[name]
	return a, ok
}

func (rm *RegisterMap) addBytes(name string, n int) []*Register {
	regs := make([]*Register, n)
	for i := 0; i < n; i++ {
		regs[i] = rm.addReg(fmt.Sprintf("%s_%d", name, i), true, true, true)
	}

	return regs
}

// assembleBE reassembles a run of single-byte registers into one
// unsigned value, most-significant byte first.
func assembleBE(regs []*Register) int64 {
	var v int64
	for _, r := range regs {
		v = v<<8 | int64(r.Write())
	}

	return v
}

// assembleSigned is assembleBE followed by a sign-extension from the
// field's true bit width, since IIR coefficients are signed but their
// byte-register runs are rounded up to a whole number of bytes.
func assembleSigned(regs []*Register, width int) int64 {
	return signExtend(assembleBE(regs), uint(width))
}

// Sync reassembles written register fields and pushes committed
// values into the board's live state. Call once per tick, after the
// decoder has applied this cycle's frame to the bus.
func (rm *RegisterMap) Sync() {
	stb := rm.DucStb.Write()
	commit := stb != 0 && rm.lastDucStb == 0
	rm.lastDucStb = stb

	for ch := range rm.ducCfg {
		v := rm.ducCfg[ch].Write()
		cfg := rm.board.channelCfg[ch]

		cfg.Clr = v&0x1 != 0

		sel := (v >> 2) & 0x3
		cfg.UseTest = sel == 1
		cfg.UseSTFT = sel == 2

		if commit {
			cfg.Freq = FreqWord(assembleBE(rm.ducF[ch]))
			cfg.Phase = PhaseWord(assembleBE(rm.ducP[ch]))

			if v&0x2 != 0 {
				cfg.ClrOnce = true
			}
		}

		rm.board.channelCfg[ch] = cfg
	}

	for ch := range rm.dacTest {
		rm.board.channelCfg[ch].TestValue = Sample{I: int64(int8(rm.dacTest[ch].Write()))}
	}

	hold := make([]bool, len(rm.servoCfg))

	for ch := range rm.servoCfg {
		v := rm.servoCfg[ch].Write()
		hold[ch] = v&0x2 != 0

		if v&0x1 != 0 {
			rm.board.IIR.SetChannelProfile(ch, int(v>>2))
		}
	}

	for ch, profiles := range rm.iirField {
		for p, fields := range profiles {
			prof := IIRProfile{
				B0:     assembleSigned(fields[0], rm.wCoeff),
				B1:     assembleSigned(fields[1], rm.wCoeff),
				A0:     assembleSigned(fields[2], rm.wCoeff),
				Offset: assembleSigned(fields[3], rm.wData),
				Hold:   hold[ch],
			}
			rm.board.IIR.SetProfile(ch, p, prof)
		}
	}
}

// RefreshReadback updates channel ch's dac*_data snapshot after a
// tick's output sample is known. The low byte of the real rail is all
// an 8-bit bus cycle can carry; a host wanting the full sample reads
// the link's own sample stream, not this register.
func (rm *RegisterMap) RefreshReadback(ch int, out Sample) {
	if ch < len(rm.dacData) {
		rm.dacData[ch].SetRead(uint8(out.I))
	}
}
