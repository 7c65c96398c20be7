package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Shared fixed-point data types for the datapath.
 *
 * Description:	Every pipeline stage passes samples and phase words as
 *		plain int64, sign-extended/masked at each stage boundary
 *		per its declared bit width (spec §9: "use fixed-width
 *		signed integers sized to the widest pipeline register and
 *		mask/sign-extend at each stage boundary"). Sample wraps
 *		a complex (i, q) pair.
 *
 *------------------------------------------------------------------*/

// Sample is a complex fixed-point pair (i, q), two's complement,
// width-agnostic: callers mask/sign-extend per their own W_s.
type Sample struct {
	I int64
	Q int64
}

// Stream is the valid/ready ("stb"/"ack") handshake endpoint of §9:
// "represent as a small struct {data, stb, ack} that the producer
// fills and the consumer drains; the scheduler routes back-pressure."
type Stream struct {
	Data Sample
	Stb  bool // producer: data valid this cycle
	Ack  bool // consumer: accepted data this cycle
}

// RealStream is the real-valued equivalent of Stream. No component in
// this package uses it.
type RealStream struct {
	Data int64
	Stb  bool
	Ack  bool
}

// PhaseWord is an unsigned phase, modulo 2^P, P in [16,19] per §3.
type PhaseWord uint32

// FreqWord is a frequency tuning word, width F (typically 32).
type FreqWord uint32

// Clip and sign-extend re-exported for callers outside this package
// that build their own fixed-point glue.

// ClipSigned saturates x to a signed two's-complement range of width bits.
func ClipSigned(x int64, width uint) int64 { return clipSigned(x, width) }

// SignExtend sign-extends the low width bits of x.
func SignExtend(x int64, width uint) int64 { return signExtend(x, width) }

// RoundHalfDown implements (x+bias)>>shift with bias = 2^(shift-1)-1.
func RoundHalfDown(x int64, shift uint) int64 { return roundHalfDown(x, shift) }
