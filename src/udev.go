package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Discover the board's frame-link serial device without a
 *		hardcoded /dev path, spec §1's out-of-scope physical layer
 *		made concrete at the host-tooling boundary.
 *
 * Description:	github.com/jochenvg/go-udev enumerates tty devices by
 *		the udev serial-number property (ID_SERIAL_SHORT) instead
 *		of guessing at /dev/ttyUSB* ordering, which is unstable
 *		across reboots and reconnects.
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/jochenvg/go-udev"
)

// FindFrameLinkDevice returns the device node (e.g. /dev/ttyUSB0) of
// the first tty whose ID_SERIAL_SHORT udev property equals serial.
func FindFrameLinkDevice(serial string) (string, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()

	if err := e.AddMatchSubsystem("tty"); err != nil {
		return "", fmt.Errorf("udev: match subsystem: %w", err)
	}

	devices, err := e.Devices()
	if err != nil {
		return "", fmt.Errorf("udev: enumerate: %w", err)
	}

	for _, d := range devices {
		if d.PropertyValue("ID_SERIAL_SHORT") == serial {
			return d.Devnode(), nil
		}
	}

	return "", fmt.Errorf("udev: no tty with ID_SERIAL_SHORT=%q found", serial)
}
