package main

/*------------------------------------------------------------------
 *
 * Purpose:	phaserd, the board daemon: owns the frame link, drives
 *		the phaser datapath one tick per cycle, and announces
 *		itself over mDNS.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/sinara-hw/phaser-gw/src"
)

func main() {
	configFile := pflag.StringP("config-file", "c", "", "YAML configuration file. Defaults are used if omitted.")
	serialDevice := pflag.StringP("serial-device", "s", "", "Serial device carrying the frame link. Overrides the config file.")
	logDir := pflag.StringP("log-dir", "l", "", "Directory for date-named log files. Defaults to stderr.")
	verbose := pflag.BoolP("verbose", "v", false, "Enable debug-level logging.")
	announce := pflag.BoolP("announce", "a", true, "Announce the frame link over mDNS/DNS-SD.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *verbose {
		phaser.SetLogLevel(log.DebugLevel)
	}

	cfg := phaser.DefaultConfig()

	if *configFile != "" {
		loaded, err := phaser.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		cfg = loaded
	}

	if *serialDevice != "" {
		cfg.SerialDevice = *serialDevice
	}

	if *logDir != "" {
		f, err := phaser.DailyLogFile(*logDir, "phaserd-%Y%m%d.log")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		defer f.Close()
		phaser.SetLogOutput(f)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *announce && cfg.DNSSDName != "" {
		phaser.Announce(ctx, cfg.DNSSDName, 0)
	}

	link, err := phaser.OpenSerialFrameLink(cfg.SerialDevice, 0, (cfg.FrameBits()+7)/8)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer link.Close()

	layout := phaser.FrameLayout{NMux: cfg.NMux, NChannel: cfg.NChannel, WSample: cfg.SampleWidth}
	board := phaser.NewBoard(layout, cfg.TFrame, cfg.FreqWidth, cfg.PhaseWidth,
		cfg.CosSinXWidth, cfg.CosSinLUTBits, cfg.CosSinDBits, cfg.CICOrder, cfg.CICRMax, cfg.CICWidth)
	board.Link = link
	board.DAC = dacLogger{}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := board.Tick(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// dacLogger is a placeholder DACSink until a real DAC bus collaborator
// (OSERDES, clock swaps -- out of scope per spec §1) is wired in.
type dacLogger struct{}

func (dacLogger) WriteSample(ch int, s phaser.Sample) {}
