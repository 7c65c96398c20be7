package main

/*------------------------------------------------------------------
 *
 * Purpose:	Dump the cos/sin minimax ROM and CIC gain-normalization
 *		LUT a given configuration would synthesize, for offline
 *		inspection or hardware ROM initialization (spec §9: "large
 *		ROMs... generate once at build/initialization time via a
 *		reference numerical routine").
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sinara-hw/phaser-gw/src"
)

func main() {
	configFile := pflag.StringP("config-file", "c", "", "YAML configuration file. Defaults are used if omitted.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
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

	cs := phaser.NewCosSin(cfg.PhaseWidth, cfg.CosSinXWidth, cfg.CosSinLUTBits, cfg.CosSinDBits)
	fmt.Printf("// cos/sin ROM: 2^%d entries, latency %d cycles\n", cfg.CosSinLUTBits, cs.Latency())

	for i, e := range cs.ROM() {
		fmt.Printf("%4d: x=%6d y=%6d xd=%6d yd=%6d\n", i, e.X, e.Y, e.XD, e.YD)
	}

	gains := phaser.BuildCICGainLUT(cfg.CICOrder, cfg.CICRMax, cfg.CICWidth)
	fmt.Printf("// CIC gain LUT: order %d, rates [2,%d]\n", cfg.CICOrder, cfg.CICRMax)

	for r := 2; r <= cfg.CICRMax; r++ {
		g := gains[r]
		fmt.Printf("rate=%4d mul=0x%x shift=%d\n", r, g.Mul, g.Shift)
	}
}
