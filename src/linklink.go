package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Byte-aligned framed-stream link collaborators, spec §1's
 *		"physical layer... treated as an abstract byte-aligned
 *		framed stream, with a single frame valid event per frame."
 *
 * Description:	Two concrete FrameLinkReader implementations, grounded
 *		on the production TNC's own serial/pty plumbing:
 *		SerialFrameLink over github.com/pkg/term for a real
 *		hardware link, PTYFrameLink over github.com/creack/pty for
 *		loopback testing without hardware. Both simply read
 *		one fixed-size frame (frame_bits/8, rounded up to whole
 *		bytes, as passed by the caller) at a time; SERDES, bitslip and CRC are
 *		out of scope (spec §1) and are the responsibility of
 *		whatever sits upstream of these two types.
 *
 *------------------------------------------------------------------*/

import (
	"io"
	"os"

	"github.com/creack/pty"
	"github.com/pkg/term"
)

// SerialFrameLink reads fixed-size frames from a real serial device.
type SerialFrameLink struct {
	fd        *term.Term
	frameSize int
}

// OpenSerialFrameLink opens devicename at baud and returns a reader of
// frameSize-byte frames.
func OpenSerialFrameLink(devicename string, baud, frameSize int) (*SerialFrameLink, error) {
	fd, err := term.Open(devicename, term.RawMode)
	if err != nil {
		logEvent(DW_COLOR_ERROR, "serial link: open failed", "device", devicename, "err", err)
		return nil, err
	}

	switch baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400, 921600:
		if err := fd.SetSpeed(baud); err != nil {
			logEvent(DW_COLOR_WARN, "serial link: SetSpeed failed", "baud", baud, "err", err)
		}
	default:
		logEvent(DW_COLOR_ERROR, "serial link: unsupported baud rate, using 115200", "requested", baud)
		_ = fd.SetSpeed(115200)
	}

	return &SerialFrameLink{fd: fd, frameSize: frameSize}, nil
}

// ReadFrame implements FrameLinkReader. It blocks until a full frame
// has arrived or the link errors, returning (nil, false) on error.
func (l *SerialFrameLink) ReadFrame() ([]byte, bool) {
	buf := make([]byte, l.frameSize)

	if _, err := io.ReadFull(l.fd, buf); err != nil {
		if err != io.EOF {
			logEvent(DW_COLOR_ERROR, "serial link: read failed", "err", err)
		}

		return nil, false
	}

	return buf, true
}

// Close releases the underlying serial device.
func (l *SerialFrameLink) Close() error {
	return l.fd.Close()
}

// PTYFrameLink reads fixed-size frames from a pseudo-terminal,
// exercising the exact byte path a SerialFrameLink would without
// requiring hardware -- useful for cmd/phaser-sim.
type PTYFrameLink struct {
	master, slave *os.File
	frameSize     int
}

// OpenPTYFrameLink allocates a pty pair and returns a reader of
// frameSize-byte frames on the master side, plus the slave device
// path a peer process (or test harness) should open to write frames.
func OpenPTYFrameLink(frameSize int) (link *PTYFrameLink, slavePath string, err error) {
	m, s, err := pty.Open()
	if err != nil {
		logEvent(DW_COLOR_ERROR, "pty link: open failed", "err", err)
		return nil, "", err
	}

	return &PTYFrameLink{master: m, slave: s, frameSize: frameSize}, s.Name(), nil
}

// ReadFrame implements FrameLinkReader.
func (l *PTYFrameLink) ReadFrame() ([]byte, bool) {
	buf := make([]byte, l.frameSize)

	if _, err := io.ReadFull(l.master, buf); err != nil {
		if err != io.EOF {
			logEvent(DW_COLOR_ERROR, "pty link: read failed", "err", err)
		}

		return nil, false
	}

	return buf, true
}

// Close releases both ends of the pty pair.
func (l *PTYFrameLink) Close() error {
	_ = l.slave.Close()
	return l.master.Close()
}
