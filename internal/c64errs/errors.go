// Package c64errs implements curated, categorised errors for the emulation
// engine: a small Errno enum plus a formatted message, so callers (in
// particular a CLI) can switch on category without string matching.
package c64errs

import "fmt"

// Errno categorises an error for programmatic handling (e.g. CLI exit codes).
type Errno int

// Error categories: configuration, media, runtime CPU, snapshot, drive.
const (
	// Configuration errors
	RomMissing Errno = iota
	UnsupportedCartridge
	UnsupportedModel

	// Media errors
	MediaMalformed
	MediaSizeMismatch
	MediaChecksum

	// Runtime CPU errors
	IllegalInstruction
	CPUJammed

	// Snapshot errors
	SnapshotVersionMismatch
	SnapshotCorrupt

	// Drive errors
	DriveSyncNotFound
	DriveSectorChecksum
)

var names = map[Errno]string{
	RomMissing:              "ROM missing",
	UnsupportedCartridge:    "unsupported cartridge type",
	UnsupportedModel:        "unsupported machine model",
	MediaMalformed:          "malformed media container",
	MediaSizeMismatch:       "media size mismatch",
	MediaChecksum:           "media checksum failure",
	IllegalInstruction:      "illegal instruction",
	CPUJammed:               "CPU jammed",
	SnapshotVersionMismatch: "snapshot version mismatch",
	SnapshotCorrupt:         "snapshot corrupt",
	DriveSyncNotFound:       "disk sync mark not found",
	DriveSectorChecksum:     "disk sector checksum failure",
}

func (e Errno) String() string {
	if s, ok := names[e]; ok {
		return s
	}
	return "unknown error"
}

// Error is a curated error: a category plus a formatted, human-readable
// message built from it.
type Error struct {
	Errno Errno
	msg   string
}

func (e *Error) Error() string {
	return e.msg
}

// Is reports whether target is an *Error with the same Errno, supporting
// errors.Is(err, c64errs.RomMissing)-style checks when wrapped as a sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Errno == t.Errno
}

// New builds a curated error of the given category with a formatted message.
func New(errno Errno, format string, args ...interface{}) *Error {
	return &Error{
		Errno: errno,
		msg:   fmt.Sprintf("%s: %s", errno, fmt.Sprintf(format, args...)),
	}
}

// ExitCode maps an error category onto a CLI exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := err.(*Error)
	if !ok {
		return 1
	}
	switch ce.Errno {
	case RomMissing:
		return 1
	case MediaMalformed, MediaSizeMismatch, MediaChecksum:
		return 2
	case SnapshotVersionMismatch, SnapshotCorrupt:
		return 3
	case UnsupportedCartridge:
		return 4
	default:
		return 1
	}
}
