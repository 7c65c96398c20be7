package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Optional rig-sync: drive a channel's DUC frequency word
 *		from an external radio's VFO via Hamlib, instead of a
 *		fixed register write (spec §6's duc*_f is host-writable;
 *		this is one possible host-side source for that write).
 *
 * Description:	github.com/xylo04/goHamlib wraps the Hamlib C library's
 *		rig control; this file is a thin adapter converting a
 *		polled VFO frequency into the board's FreqWord scaling.
 *------------------------------------------------------------------*/

import (
	"fmt"

	hamlib "github.com/xylo04/goHamlib"
)

// RigSync polls an external radio's VFO frequency and converts it to
// a FreqWord for one DUC channel.
type RigSync struct {
	rig        *hamlib.Rig
	sampleRate float64 // base sample clock, Hz
	fwidth     int
}

// OpenRigSync opens the Hamlib rig identified by model at the given
// serial port.
func OpenRigSync(model hamlib.RigModel, port string, sampleRate float64, fwidth int) (*RigSync, error) {
	rig := hamlib.NewRig(model)

	if err := rig.SetConf("rig_pathname", port); err != nil {
		return nil, fmt.Errorf("radio: set port: %w", err)
	}

	if err := rig.Open(); err != nil {
		return nil, fmt.Errorf("radio: open: %w", err)
	}

	return &RigSync{rig: rig, sampleRate: sampleRate, fwidth: fwidth}, nil
}

// FreqWord polls the rig's current VFO frequency and converts it to
// the F-bit tuning word advancing phase by f/2^F per sample, per spec
// §3's frequency tuning word definition.
func (r *RigSync) FreqWord() (FreqWord, error) {
	hz, err := r.rig.GetFreq(hamlib.VFOCurrent)
	if err != nil {
		return 0, fmt.Errorf("radio: get freq: %w", err)
	}

	scale := float64(int64(1) << uint(r.fwidth))
	f := hz / r.sampleRate * scale

	return FreqWord(uint32(int64(f))), nil
}

// Close releases the Hamlib rig handle.
func (r *RigSync) Close() error {
	return r.rig.Close()
}
