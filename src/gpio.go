package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	GPIO lines for the board's out-of-scope pin-level control
 *		surface: DAC reset/sleep, TRF powersave, attenuator reset
 *		(spec §1, §6's cfg register bitfields).
 *
 * Description:	github.com/warthog618/go-gpiocdev talks to the Linux
 *		gpiocdev character device directly, avoiding the racy
 *		sysfs GPIO interface. Nothing in this package drives
 *		these lines from the cfg register's bitfields; callers
 *		set them through GPIOBank.Set, and this file only owns
 *		the physical line requests.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOLine name constants for the cfg register's bitfields (spec §6).
const (
	GPIODACReset     = "dac_reset"
	GPIODACSleep     = "dac_sleep"
	GPIODACTxEnable  = "dac_txena"
	GPIOTRFPowersave = "trf_powersave"
	GPIOAttenReset   = "atten_reset"
)

// GPIOBank owns one requested output line per named board control
// signal.
type GPIOBank struct {
	chip  string
	lines map[string]*gpiocdev.Line
}

// NewGPIOBank requests output lines for names on chip (e.g. "gpiochip0"),
// offsets giving each name's line offset.
func NewGPIOBank(chip string, offsets map[string]int) (*GPIOBank, error) {
	b := &GPIOBank{chip: chip, lines: make(map[string]*gpiocdev.Line, len(offsets))}

	for name, off := range offsets {
		line, err := gpiocdev.RequestLine(chip, off, gpiocdev.AsOutput(0))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("gpio: request %s offset %d: %w", name, off, err)
		}

		b.lines[name] = line
	}

	return b, nil
}

// Set drives named high (1) or low (0). It is a no-op, logged once,
// for names that were not requested (e.g. a board variant missing a
// control signal).
func (b *GPIOBank) Set(name string, high bool) {
	line, ok := b.lines[name]
	if !ok {
		logEvent(DW_COLOR_WARN, "gpio: set of unrequested line", "name", name)
		return
	}

	v := 0
	if high {
		v = 1
	}

	if err := line.SetValue(v); err != nil {
		logEvent(DW_COLOR_ERROR, "gpio: set value failed", "name", name, "err", err)
	}
}

// Close releases every requested line.
func (b *GPIOBank) Close() {
	for _, line := range b.lines {
		_ = line.Close()
	}
}
