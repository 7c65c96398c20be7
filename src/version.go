package phaser

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via
// `-ldflags "-X 'github.com/sinara-hw/phaser-gw/src.Version=X'"`.
var Version string

func getBuildSettingOrDefault(bi *debug.BuildInfo, key, fallback string) string {
	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return fallback
}

// PrintVersion writes a one-line version banner, and the full build
// info when verbose is set.
func PrintVersion(verbose bool) {
	bi, _ := debug.ReadBuildInfo()

	commit := getBuildSettingOrDefault(bi, "vcs.revision", "UNKNOWN")
	buildTime := getBuildSettingOrDefault(bi, "vcs.time", "UNKNOWN")

	v := Version
	if v == "" {
		v = "!UNKNOWN!"
	}

	fmt.Printf("phaser-gw - Version %s (revision %s, built at %s)\n", v, commit, buildTime)

	if verbose && bi != nil {
		fmt.Printf("\nBuildInfo: %+v\n", bi)
	}
}
