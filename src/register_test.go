package phaser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterWriteReadback(t *testing.T) {
	r := NewRegister(8, true, true, true)

	r.access(true, false, 0x5a)
	assert.Equal(t, uint8(0x5a), r.Write())
	assert.Equal(t, uint8(0x5a), r.access(false, true, 0))
}

func TestRegisterWriteOnlyReadsZero(t *testing.T) {
	r := NewRegister(8, false, true, false)
	r.access(true, false, 0x42)
	assert.Equal(t, uint8(0), r.access(false, true, 0))
}

func TestRegisterNarrowWidthMasks(t *testing.T) {
	r := NewRegister(4, true, true, true)
	r.access(true, false, 0xff)
	assert.Equal(t, uint8(0x0f), r.Write())
}

func TestAddrIntersectOverlapOnCommonBits(t *testing.T) {
	// Same address under masks that share no constrained bits always
	// "intersects" (every address matches both).
	assert.True(t, addrIntersect(0x00, 0x00, 0x00, 0x00))
	assert.True(t, addrIntersect(0x10, 0xf0, 0x10, 0xff))
	assert.False(t, addrIntersect(0x10, 0xff, 0x20, 0xff))
}

func TestBusConnectRejectsOverlap(t *testing.T) {
	bus := NewBus()
	r1 := NewRegister(8, true, true, true)
	r2 := NewRegister(8, true, true, true)

	assert.NoError(t, bus.Connect("a", r1, 0x10, 0xff))
	assert.Error(t, bus.Connect("b", r2, 0x10, 0xf0))
}

func TestBusAccessRoutesToMatchingSlave(t *testing.T) {
	bus := NewBus()
	r1 := NewRegister(8, true, true, true)
	r2 := NewRegister(8, true, true, true)

	assert.NoError(t, bus.Connect("a", r1, 0x00, 0xff))
	assert.NoError(t, bus.Connect("b", r2, 0x01, 0xff))

	bus.Access(0x00, true, false, 0x11)
	bus.Access(0x01, true, false, 0x22)

	assert.Equal(t, uint8(0x11), bus.Access(0x00, false, true, 0))
	assert.Equal(t, uint8(0x22), bus.Access(0x01, false, true, 0))
}

func TestBusLookup(t *testing.T) {
	bus := NewBus()
	r1 := NewRegister(8, true, true, true)
	assert.NoError(t, bus.Connect("freq", r1, 0x00, 0xff))

	got, ok := bus.Lookup("freq")
	assert.True(t, ok)
	assert.Same(t, r1, got)

	_, ok = bus.Lookup("missing")
	assert.False(t, ok)
}
