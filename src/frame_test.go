package phaser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setBit(buf []byte, bit int) {
	buf[bit/8] |= 1 << uint(bit%8)
}

func TestDecodeFrameHeader(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 8}
	buf := make([]byte, (layout.TotalBits()+7)/8)

	// we=1
	setBit(buf, 0)
	// addr = 0x2a (7 bits, bit 1..7)
	addr := uint8(0x2a)
	for i := 0; i < 7; i++ {
		if addr&(1<<uint(i)) != 0 {
			setBit(buf, 1+i)
		}
	}
	// data = 0xc3 (8 bits, bit 8..15)
	data := uint8(0xc3)
	for i := 0; i < 8; i++ {
		if data&(1<<uint(i)) != 0 {
			setBit(buf, 8+i)
		}
	}
	// type = FrameTypeSample (1), bits 16..19
	setBit(buf, 16)

	f, err := DecodeFrame(buf, layout)
	assert.NoError(t, err)
	assert.True(t, f.Header.We)
	assert.Equal(t, addr, f.Header.Addr)
	assert.Equal(t, data, f.Header.Data)
	assert.Equal(t, FrameTypeSample, f.Header.Type)
}

func TestDecodeFrameTooShort(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 8}
	_, err := DecodeFrame(make([]byte, 1), layout)
	assert.Error(t, err)
}

func TestFrameSampleSignExtends(t *testing.T) {
	layout := FrameLayout{NMux: 1, NChannel: 1, WSample: 8}
	buf := make([]byte, (layout.BodyBits()+7)/8)
	// I = -1 (0xff), Q = 1
	buf[0] = 0xff
	buf[1] = 0x01

	f := Frame{Body: buf}
	s := f.Sample(layout, 0, 0)

	assert.Equal(t, int64(-1), s.I)
	assert.Equal(t, int64(1), s.Q)
}

func TestFrameSampleMuxChannelOffsets(t *testing.T) {
	layout := FrameLayout{NMux: 2, NChannel: 2, WSample: 8}
	buf := make([]byte, (layout.BodyBits()+7)/8)

	// mux slot 1, channel 1: I=0x7f at bit offset (1*2+1)*16 = 48
	buf[6] = 0x7f

	f := Frame{Body: buf}
	s := f.Sample(layout, 1, 1)
	assert.Equal(t, int64(0x7f), s.I)

	other := f.Sample(layout, 0, 0)
	assert.Equal(t, int64(0), other.I)
}
