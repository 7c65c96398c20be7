package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Load the board geometry and link configuration that
 *		parameterizes every component in this package.
 *
 * Description:	Unlike the bulk of the frame/register/DSP model (which
 *		is fixed by the invariants in spec §6), the *sizes* of
 *		things — sample width, FFT length, interpolator rate
 *		range, channel/profile counts, link endpoint — are read
 *		from a YAML config file, the way config.go reads the
 *		daemon's .conf file, just with a real marshaler instead
 *		of a hand-rolled line parser.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete board geometry needed to construct a Decoder
// and its downstream pipeline.
type Config struct {
	// Frame geometry (§3, §6).
	SampleWidth int `yaml:"sample_width"` // W_s, bits per I or Q component
	NChannel    int `yaml:"n_channel"`    // DAC channels (2 for dual-channel)
	NMux        int `yaml:"n_mux"`        // samples per channel per frame body
	TFrame      int `yaml:"t_frame"`      // clock cycles per frame

	// NCO / DUC (§4.3).
	PhaseWidth int `yaml:"phase_width"` // P, phase accumulator output width
	FreqWidth  int `yaml:"freq_width"`  // F, frequency tuning word width
	NLanes     int `yaml:"n_lanes"`     // phased lanes per DUC (N)

	// CosSin ROM (§4.1).
	CosSinLUTBits int `yaml:"cossin_lut_bits"` // zl
	CosSinXWidth  int `yaml:"cossin_x_width"`  // x, output magnitude bits
	CosSinDBits   int `yaml:"cossin_d_bits"`   // xd, derivative LUT bits

	// Interpolator / CIC (§4.4, §4.5).
	CICOrder  int `yaml:"cic_order"`   // n
	CICRMax   int `yaml:"cic_r_max"`   // r_max
	CICWidth  int `yaml:"cic_width"`   // W
	OutWidth  int `yaml:"out_width"`   // final DAC sample width
	FIRCoeffW int `yaml:"fir_coeffw"`  // HBF coefficient width (18 bits nominal)

	// FFT (§4.6).
	FFTSize  int `yaml:"fft_size"`  // N, points
	FFTWidth int `yaml:"fft_width"` // W_fft

	// IIR servo (§4.9).
	IIRChannels int `yaml:"iir_channels"`
	IIRProfiles int `yaml:"iir_profiles"`
	IIRCoeffW   int `yaml:"iir_coeffw"`
	IIRDataW    int `yaml:"iir_dataw"`
	IIRGainBits int `yaml:"iir_gainbits"`

	// Link endpoints (out of scope per §1, but the daemon needs
	// somewhere to get bytes from).
	SerialDevice string `yaml:"serial_device"`
	ListenAddr   string `yaml:"listen_addr"`
	DNSSDName    string `yaml:"dnssd_name"`
	LogDir       string `yaml:"log_dir"`

	// External LO sync (optional; see radio.go).
	HamlibRigModel int    `yaml:"hamlib_rig_model"`
	HamlibDevice   string `yaml:"hamlib_device"`
}

// DefaultConfig returns the board's nominal parameters: the values
// spec §4.1 calls out explicitly (zl=9, xd=4, ~16-bit, ≥100 dB SFDR)
// plus the frame geometry of a 2-channel, 8-sample-per-frame link.
func DefaultConfig() Config {
	return Config{
		SampleWidth: 16,
		NChannel:    2,
		NMux:        8,
		TFrame:      256,

		PhaseWidth: 18,
		FreqWidth:  32,
		NLanes:     2,

		CosSinLUTBits: 9,
		CosSinXWidth:  15,
		CosSinDBits:   4,

		CICOrder: 5,
		CICRMax:  128,
		CICWidth: 17,
		OutWidth: 16,

		FIRCoeffW: 18,

		FFTSize:  1024,
		FFTWidth: 16,

		IIRChannels: 8,
		IIRProfiles: 4,
		IIRCoeffW:   18,
		IIRDataW:    16,
		IIRGainBits: 6,

		ListenAddr: ":7724",
		DNSSDName:  "phaser",
	}
}

// LoadConfig reads and validates a YAML config file, filling any
// unset fields from DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the invariants the rest of the package assumes.
func (c Config) Validate() error {
	if c.SampleWidth < 2 || c.SampleWidth > 32 {
		return fmt.Errorf("sample_width %d out of range [2,32]", c.SampleWidth)
	}

	if c.PhaseWidth < 16 || c.PhaseWidth > 19 {
		return fmt.Errorf("phase_width %d out of range [16,19]", c.PhaseWidth)
	}

	if c.NChannel <= 0 || c.NMux <= 0 {
		return fmt.Errorf("n_channel and n_mux must be positive")
	}

	if c.TFrame%c.NMux != 0 {
		return fmt.Errorf("t_frame %d must be a multiple of n_mux %d", c.TFrame, c.NMux)
	}

	if c.FFTSize&(c.FFTSize-1) != 0 || c.FFTSize < 2 {
		return fmt.Errorf("fft_size %d must be a power of two >= 2", c.FFTSize)
	}

	if c.CosSinLUTBits <= 0 || c.CosSinLUTBits >= c.PhaseWidth-3 {
		return fmt.Errorf("cossin_lut_bits %d must be in [1, phase_width-4]", c.CosSinLUTBits)
	}

	if c.IIRChannels <= 0 || c.IIRProfiles <= 0 {
		return fmt.Errorf("iir_channels and iir_profiles must be positive")
	}

	return nil
}

// FrameBits is the total frame length in bits (header + body), the
// "frame_bits = header_bits + body_bits = known_constant" invariant
// of spec §3.
func (c Config) FrameBits() int {
	const headerBits = 20
	return headerBits + c.NMux*c.NChannel*2*c.SampleWidth
}
