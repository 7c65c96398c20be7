package main

/*------------------------------------------------------------------
 *
 * Purpose:	Offline frame dumper: read raw frame_bits-sized records
 *		from a file or stdin and print their decoded header and
 *		sample fields, for debugging a captured frame link.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/sinara-hw/phaser-gw/src"
)

func main() {
	configFile := pflag.StringP("config-file", "c", "", "YAML configuration file. Defaults are used if omitted.")
	inPath := pflag.StringP("input", "i", "-", "Input file of raw frames, or - for stdin.")
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

	layout := phaser.FrameLayout{NMux: cfg.NMux, NChannel: cfg.NChannel, WSample: cfg.SampleWidth}

	in := os.Stdin

	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		defer f.Close()
		in = f
	}

	frameBytes := (layout.TotalBits() + 7) / 8
	buf := make([]byte, frameBytes)
	n := 0

	for {
		if _, err := io.ReadFull(in, buf); err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			break
		}

		frame, err := phaser.DecodeFrame(buf, layout)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Printf("frame %d: we=%v addr=0x%02x data=0x%02x type=%d\n",
			n, frame.Header.We, frame.Header.Addr, frame.Header.Data, frame.Header.Type)

		if frame.Header.Type == phaser.FrameTypeSample {
			for ch := 0; ch < layout.NChannel; ch++ {
				s := frame.Sample(layout, 0, ch)
				fmt.Printf("  ch%d[0] = (%d, %d)\n", ch, s.I, s.Q)
			}
		}

		n++
	}
}
