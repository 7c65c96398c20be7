package phaser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeRegisterFrame(t *testing.T, d *Decoder, addr uint8, data uint8) {
	t.Helper()

	layout := d.Layout
	buf := make([]byte, (layout.TotalBits()+7)/8)

	setBit(buf, 0) // we=1

	for i := 0; i < 7; i++ {
		if (addr>>uint(i))&1 != 0 {
			setBit(buf, 1+i)
		}
	}

	for i := 0; i < 8; i++ {
		if (data>>uint(i))&1 != 0 {
			setBit(buf, 8+i)
		}
	}

	_, err := d.Step(true, buf)
	assert.NoError(t, err)
}

func mustAddr(t *testing.T, rm *RegisterMap, name string) uint8 {
	t.Helper()

	a, ok := rm.Addr(name)
	assert.True(t, ok, "no such register %q", name)

	return a
}

func TestRegisterMapNamesEveryEntry(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 2, WSample: 16}
	b := NewBoard(layout, 1, 32, 18, 15, 9, 4, 4, 64, 18)

	for _, name := range []string{
		"cfg", "sta", "duc_stb",
		"duc0_cfg", "duc1_cfg",
		"duc0_f_0", "duc1_f_3",
		"duc0_p_0", "duc1_p_1",
		"dac0_data", "dac1_test",
		"servo0_cfg", "servo1_cfg",
		"ch0_profile0_data0_0", "ch1_profile3_data3_1",
	} {
		_, ok := b.Regs.Bus.Lookup(name)
		assert.True(t, ok, "missing register %q", name)
	}
}

func TestRegisterMapDucStbCommitsFrequency(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 16}
	b := NewBoard(layout, 1, 32, 18, 15, 9, 4, 4, 64, 18)

	b.Link = &fakeFrameLink{}
	b.DAC = newCaptureDAC()

	// Write duc0_f bytes MSB first: freq = 0x01020304.
	for i, v := range []uint8{0x01, 0x02, 0x03, 0x04} {
		name := fmt.Sprintf("duc0_f_%d", i)
		writeRegisterFrame(t, b.Decoder, mustAddr(t, b.Regs, name), v)
	}

	assert.Equal(t, FreqWord(0), b.channelCfg[0].Freq, "frequency must not apply before duc_stb")

	writeRegisterFrame(t, b.Decoder, mustAddr(t, b.Regs, "duc_stb"), 0x01)
	assert.NoError(t, b.Tick())

	assert.Equal(t, FreqWord(0x01020304), b.channelCfg[0].Freq)
}

func TestRegisterMapDucCfgSelectsMode(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 16}
	b := NewBoard(layout, 1, 32, 18, 15, 9, 4, 4, 64, 18)

	b.Link = &fakeFrameLink{}
	b.DAC = newCaptureDAC()

	writeRegisterFrame(t, b.Decoder, mustAddr(t, b.Regs, "duc0_cfg"), 0x04) // bits2-3 = 1 -> test mode

	assert.NoError(t, b.Tick())
	assert.True(t, b.channelCfg[0].UseTest)
	assert.False(t, b.channelCfg[0].UseSTFT)
}

func TestRegisterMapServoCfgSelectsProfile(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 16}
	b := NewBoard(layout, 1, 32, 18, 15, 9, 4, 4, 64, 18)

	b.Link = &fakeFrameLink{}
	b.DAC = newCaptureDAC()

	// enable=1, hold=0, profile=2 -> bits: 0b1001 = 0x09
	writeRegisterFrame(t, b.Decoder, mustAddr(t, b.Regs, "servo0_cfg"), 0x09)

	assert.NoError(t, b.Tick())
	assert.Equal(t, 2, b.IIR.chProfile[0])
}

func TestRegisterMapIIRCoefficientsAssembleBigEndian(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 16}
	b := NewBoard(layout, 1, 32, 18, 15, 9, 4, 4, 64, 18)

	b.Link = &fakeFrameLink{}
	b.DAC = newCaptureDAC()

	for i, v := range []uint8{0x00, 0x01, 0x00} {
		name := fmt.Sprintf("ch0_profile0_data0_%d", i)
		writeRegisterFrame(t, b.Decoder, mustAddr(t, b.Regs, name), v)
	}

	assert.NoError(t, b.Tick())
	assert.Equal(t, int64(0x0100), b.IIR.profiles[0][0].B0)
}

func TestRegisterMapDacDataIsReadOnly(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 16}
	b := NewBoard(layout, 1, 32, 18, 15, 9, 4, 4, 64, 18)

	b.Link = &fakeFrameLink{}
	b.DAC = newCaptureDAC()

	b.SetChannelConfig(0, ChannelConfig{UseTest: true, TestValue: Sample{I: 7}})
	assert.NoError(t, b.Tick())

	writeRegisterFrame(t, b.Decoder, mustAddr(t, b.Regs, "dac0_data"), 0xaa)

	reg, ok := b.Regs.Bus.Lookup("dac0_data")
	assert.True(t, ok)
	assert.Equal(t, uint8(0), reg.Write(), "a read-only register must ignore writes")
}

func TestRegisterMapRejectsDuplicateAddress(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 16}
	b := NewBoard(layout, 1, 32, 18, 15, 9, 4, 4, 64, 18)

	extra := NewRegister(8, true, true, true)
	err := b.Regs.Bus.Connect("dup", extra, 0x00, 0x7f)
	assert.Error(t, err)
}
