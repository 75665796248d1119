// Package clocks defines the constant values that describe the timing of
// the supported C64 models. Frequencies are in MHz; frame rates in Hz.
//
// Values taken from the C64 Wiki "Clock frequency" and "Video" pages.
package clocks

// CPU/bus clock frequency in MHz, per model.
const (
	PAL  = 0.985248
	NTSC = 1.022727
	PALN = 1.023440 // "Drean"
)

// Frame rate in Hz, per model.
const (
	PALFrameRate  = 50.125
	NTSCFrameRate = 59.826
	PALNFrameRate = 50.0
)

// Raster geometry, per model: total scanlines per frame and VIC cycles per
// scanline, the values that bound the VIC-II's raster line and cycle
// counters.
const (
	PALScanlines  = 312
	NTSCScanlines = 263
	PALNScanlines = 312

	PALCyclesPerLine  = 63
	NTSCCyclesPerLine = 65
	PALNCyclesPerLine = 65
)

// FirstVisibleBadLine and LastVisibleBadLine bound the raster range in which
// bad lines can occur; identical across PAL/NTSC/PAL-N.
const (
	FirstVisibleBadLine = 0x30 // 48
	LastVisibleBadLine  = 0xf7 // 247
)
