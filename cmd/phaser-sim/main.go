package main

/*------------------------------------------------------------------
 *
 * Purpose:	Run the board datapath against a pty-looped frame link,
 *		for exercising phaserd's logic without real hardware (spec
 *		§1's out-of-scope physical layer, simulated here by a
 *		pseudo-terminal pair instead of SERDES).
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/sinara-hw/phaser-gw/src"
)

func main() {
	ticks := pflag.IntP("ticks", "n", 1000, "Number of datapath ticks to run.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	cfg := phaser.DefaultConfig()
	layout := phaser.FrameLayout{NMux: cfg.NMux, NChannel: cfg.NChannel, WSample: cfg.SampleWidth}

	link, slavePath, err := phaser.OpenPTYFrameLink((layout.TotalBits() + 7) / 8)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer link.Close()

	fmt.Printf("simulated frame link: write %d-byte frames to %s\n", (layout.TotalBits()+7)/8, slavePath)

	board := phaser.NewBoard(layout, cfg.TFrame, cfg.FreqWidth, cfg.PhaseWidth,
		cfg.CosSinXWidth, cfg.CosSinLUTBits, cfg.CosSinDBits, cfg.CICOrder, cfg.CICRMax, cfg.CICWidth)
	board.Link = link
	board.DAC = printingDAC{}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for i := 0; i < *ticks; i++ {
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

type printingDAC struct{}

func (printingDAC) WriteSample(ch int, s phaser.Sample) {
	if s.I != 0 || s.Q != 0 {
		fmt.Printf("ch%d: (%d, %d)\n", ch, s.I, s.Q)
	}
}
