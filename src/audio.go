package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Host-side audio monitor: play a DAC channel's baseband
 *		output through the sound card for diagnostic listening,
 *		without needing a scope or spectrum analyzer attached to
 *		the board.
 *
 * Description:	github.com/gordonklaus/portaudio is the same
 *		cross-platform audio I/O binding the production TNC's
 *		sound-card modem would use; here it only plays back,
 *		pulling real-valued samples (the I rail) from a channel
 *		buffer that the caller fills through Feed.
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// AudioMonitor streams one channel's I-rail output to the default
// audio output device for diagnostic listening.
type AudioMonitor struct {
	stream *portaudio.Stream
	buf    chan float32
}

// OpenAudioMonitor starts a portaudio output stream at sampleRate.
// Feed exposes the channel AudioMonitor drains the Board's DAC-bound
// samples into; samples are scaled from W_s-bit fixed point to the
// [-1, 1] float32 range portaudio expects.
func OpenAudioMonitor(sampleRate float64) (*AudioMonitor, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: initialize: %w", err)
	}

	m := &AudioMonitor{buf: make(chan float32, 4096)}

	cb := func(out []float32) {
		for i := range out {
			select {
			case v := <-m.buf:
				out[i] = v
			default:
				out[i] = 0
			}
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, 0, cb)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		portaudio.Terminate()

		return nil, fmt.Errorf("audio: start stream: %w", err)
	}

	m.stream = stream

	return m, nil
}

// Feed pushes one DAC sample's I rail, scaled to float32, into the
// playback buffer. Samples are dropped (not blocked) if the audio
// callback is falling behind -- diagnostic monitoring must never
// back-pressure the datapath.
func (m *AudioMonitor) Feed(i int64, wSample int) {
	full := float32(int64(1) << uint(wSample-1))

	select {
	case m.buf <- float32(i) / full:
	default:
	}
}

// Close stops playback and releases portaudio.
func (m *AudioMonitor) Close() error {
	if err := m.stream.Stop(); err != nil {
		return err
	}

	if err := m.stream.Close(); err != nil {
		return err
	}

	portaudio.Terminate()

	return nil
}
