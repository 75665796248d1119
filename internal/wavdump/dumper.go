//go:build wavdump

// Package wavdump drains a SID sample ring to a .wav file for offline
// regression listening. It is built only with the wavdump tag so the
// default engine build carries no dependency on an audio file encoder.
package wavdump

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Enabled reports whether this build was compiled with the wavdump tag.
const Enabled = true

// Dumper accumulates SID output buffers and flushes them to a mono 16-bit
// PCM WAV file as they arrive.
type Dumper struct {
	enc *wav.Encoder
}

// New opens a WAV encoder over w at sampleRate.
func New(w io.WriteSeeker, sampleRate int) *Dumper {
	return &Dumper{enc: wav.NewEncoder(w, sampleRate, 16, 1, 1)}
}

// Write appends buf's samples to the file.
func (d *Dumper) Write(buf audio.IntBuffer) error {
	return d.enc.Write(&buf)
}

// Close finalizes the WAV header.
func (d *Dumper) Close() error {
	return d.enc.Close()
}
