//go:build !wavdump

package wavdump

import (
	"io"

	"github.com/go-audio/audio"
)

// Enabled reports whether this build was compiled with the wavdump tag.
const Enabled = false

// Dumper is a no-op stand-in for builds without the wavdump tag, so
// callers don't need a second code path to skip it.
type Dumper struct{}

// New returns a Dumper that discards everything written to it.
func New(w io.WriteSeeker, sampleRate int) *Dumper { return &Dumper{} }

// Write discards buf.
func (d *Dumper) Write(buf audio.IntBuffer) error { return nil }

// Close is a no-op.
func (d *Dumper) Close() error { return nil }
