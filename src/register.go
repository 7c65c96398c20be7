package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Register file and address-decoded bus, spec §3 ("Register
 *		file") and §4.10 ("register bus"), ported from decode.py's
 *		Register/Bus/intersection.
 *
 * Description:	decode.py's intersection() was left as a TODO stub that
 *		always returned False, i.e. it never actually caught
 *		overlapping slave address ranges. Spec §6 leaves this as
 *		an open question; this is resolved here as: two
 *		(addr, mask) ranges intersect iff, restricted to the bits
 *		both masks care about, they select the same address
 *		pattern. Connect returns an error eagerly at wiring time
 *		rather than silently admitting the conflict.
 *
 *------------------------------------------------------------------*/

import "fmt"

// Register is a single addressable configuration/status word, spec
// §3's "each entry is declared readable, writable, or both."
type Register struct {
	Width    uint
	Readable bool
	Writable bool
	// Readback mirrors the written value back on read when both
	// Readable and Writable are set (decode.py's "read.eq(write)").
	Readback bool

	write uint8
	read  uint8
}

// NewRegister builds a register of the given width and access mode.
func NewRegister(width uint, readable, writable, readback bool) *Register {
	return &Register{Width: width, Readable: readable, Writable: writable, Readback: readback}
}

// SetRead sets the observed value exposed on a read (for read-only or
// non-readback registers driven by live hardware state).
func (r *Register) SetRead(v uint8) { r.read = v & mask8(r.Width) }

// Write returns the last latched write value.
func (r *Register) Write() uint8 { return r.write }

// access applies one bus cycle to the register, returning the byte to
// drive back onto dat_r when this register is selected.
func (r *Register) access(we, _ bool, datW uint8) uint8 {
	if we && r.Writable {
		r.write = datW & mask8(r.Width)
	}

	if r.Writable && r.Readback {
		r.read = r.write
	}

	if r.Readable {
		return r.read
	}

	return 0
}

func mask8(width uint) uint8 {
	if width >= 8 {
		return 0xff
	}

	return uint8(1<<width) - 1
}

type busSlave struct {
	name string
	reg  *Register
	addr uint8
	mask uint8
}

// Bus is an address/mask-decoded register bus, spec §4.10: "a slave
// decodes on masked equality; read data is muxed back on match."
type Bus struct {
	slaves []busSlave
}

// NewBus returns an empty register bus.
func NewBus() *Bus { return &Bus{} }

// addrIntersect reports whether the two masked address ranges
// (a, ma) and (b, mb) can ever select the same bus address: on the
// bits both masks constrain, the two patterns must agree.
func addrIntersect(a, ma, b, mb uint8) bool {
	common := ma & mb
	return a&common == b&common
}

// Connect wires reg onto the bus at the given 7-bit address under
// mask. It returns an error if the new range intersects any
// already-connected slave's range.
func (b *Bus) Connect(name string, reg *Register, addr, mask uint8) error {
	addr &= mask

	for _, s := range b.slaves {
		if addrIntersect(s.addr, s.mask, addr, mask) {
			return fmt.Errorf("register bus: %q at addr=0x%02x mask=0x%02x intersects %q at addr=0x%02x mask=0x%02x",
				name, addr, mask, s.name, s.addr, s.mask)
		}
	}

	b.slaves = append(b.slaves, busSlave{name: name, reg: reg, addr: addr, mask: mask})

	return nil
}

// Access drives one bus cycle: adr selects the slave(s) whose
// (addr, mask) matches; we/re gate the register's write/read side.
// dat_r is the OR of all matching slaves' read data (exactly one
// should ever match once Connect has rejected intersections).
func (b *Bus) Access(adr uint8, we, re bool, datW uint8) uint8 {
	var datR uint8

	for _, s := range b.slaves {
		if adr&s.mask == s.addr&s.mask {
			datR |= s.reg.access(we, re, datW)
		}
	}

	return datR
}

// Lookup returns the register connected at name, if any.
func (b *Bus) Lookup(name string) (*Register, bool) {
	for _, s := range b.slaves {
		if s.name == name {
			return s.reg, true
		}
	}

	return nil, false
}
