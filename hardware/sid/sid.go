// Package sid implements the MOS 6581/8580 Sound Interface Device's
// register face and sample generation. Register writes drive three voices
// (each with a programmable waveform, ADSR envelope and oscillator sync/ring
// modulation); the filter registers are stored but not applied to the
// output. Tick renders the voices into audio
// samples pushed onto a fixed-capacity ring buffer, decoupling sample
// production (clocked by the emulated machine) from sample consumption (the
// host audio callback, clocked by a sound card).
package sid

import (
	"sync"

	"github.com/go-audio/audio"

	"github.com/go64/go64/internal/ring"
)

// Model distinguishes the 6581 (NMOS, nonlinear filter, combined waveforms
// quirkier) from the 8580 (CMOS, cleaner filter).
type Model int

// Supported SID revisions.
const (
	MOS6581 Model = iota
	MOS8580
)

// Waveform bits within a voice's control register.
const (
	WaveTriangle = 1 << 4
	WaveSawtooth = 1 << 5
	WavePulse    = 1 << 6
	WaveNoise    = 1 << 7
	GateBit      = 1 << 0
	SyncBit      = 1 << 1
	RingModBit   = 1 << 2
	TestBit      = 1 << 3
)

// envelopeStage names the ADSR state machine's current phase.
type envelopeStage int

const (
	attack envelopeStage = iota
	decay
	sustainStage
	release
)

type voice struct {
	freq    uint16
	pulse   uint16
	control uint8
	attackDecay uint8
	sustainRelease uint8

	phaseAcc uint32
	noiseLFSR uint32

	envStage envelopeStage
	envLevel uint8
	envCounter int

	gate bool
}

func (v *voice) tick(syncSource, ringSource *voice, clockRatio float64) uint8 {
	if v.noiseLFSR == 0 {
		v.noiseLFSR = 0x7ffff8
	}
	v.phaseAcc += uint32(float64(v.freq) * clockRatio * 16)

	synced := syncSource != nil && v.control&SyncBit != 0 && syncSource.phaseAcc < uint32(float64(syncSource.freq)*clockRatio*16)
	if synced {
		v.phaseAcc = 0
	}

	var out uint8
	switch {
	case v.control&WaveTriangle != 0:
		acc := v.phaseAcc >> 16
		if v.control&RingModBit != 0 && ringSource != nil && ringSource.phaseAcc&0x80000000 != 0 {
			acc ^= 0xffff
		}
		if acc&0x8000 != 0 {
			out = uint8((^acc >> 7) & 0xff)
		} else {
			out = uint8((acc >> 7) & 0xff)
		}
	case v.control&WaveSawtooth != 0:
		out = uint8((v.phaseAcc >> 16) >> 8)
	case v.control&WavePulse != 0:
		threshold := uint32(v.pulse) << 4
		if (v.phaseAcc>>16)&0xffff >= threshold {
			out = 0xff
		}
	case v.control&WaveNoise != 0:
		bit := ((v.noiseLFSR >> 22) ^ (v.noiseLFSR >> 17)) & 1
		v.noiseLFSR = ((v.noiseLFSR << 1) | bit) & 0x7fffff
		out = uint8(((v.noiseLFSR >> 11) & 0xff))
	}

	v.tickEnvelope()
	return uint8((uint16(out) * uint16(v.envLevel)) >> 8)
}

var envelopeRates = [16]int{9, 32, 63, 95, 149, 220, 267, 313, 392, 977, 1954, 3126, 3977, 11186, 19174, 31414}

func (v *voice) tickEnvelope() {
	v.envCounter++
	attackRate := envelopeRates[v.attackDecay>>4]
	decayRate := envelopeRates[v.attackDecay&0x0f]
	releaseRate := envelopeRates[v.sustainRelease&0x0f]
	sustain := (v.sustainRelease >> 4) * 0x11

	switch v.envStage {
	case attack:
		if v.envCounter >= attackRate {
			v.envCounter = 0
			if v.envLevel < 0xff {
				v.envLevel++
			} else {
				v.envStage = decay
			}
		}
	case decay:
		if v.envCounter >= decayRate {
			v.envCounter = 0
			if v.envLevel > sustain {
				v.envLevel--
			} else {
				v.envStage = sustainStage
			}
		}
	case sustainStage:
		v.envLevel = sustain
	case release:
		if v.envCounter >= releaseRate {
			v.envCounter = 0
			if v.envLevel > 0 {
				v.envLevel--
			}
		}
	}

	if v.gate && v.envStage == release {
		v.envStage = attack
		v.envCounter = 0
	}
	if !v.gate && v.envStage != release {
		v.envStage = release
		v.envCounter = 0
	}
}

// SID is a complete three-voice device plus the filter/volume registers and
// a sample-output ring.
type SID struct {
	model Model
	voice [3]voice

	filterCutoff uint16
	filterReso   uint8
	filterRoute  uint8
	modeVolume   uint8

	clockRatio float64 // clock cycles per sample, inverted

	mu     sync.Mutex
	output *ring.Ring[audio.IntBuffer]

	sampleAccum   float64
	cyclesPerSamp float64
}

// SampleRate and channel layout pushed to Output.
const SampleRate = 44100

// New creates a SID clocked at clockHz (0.985248MHz PAL, 1.022727MHz NTSC),
// with sample ring capacity slots.
func New(model Model, clockHz float64, capacity int) *SID {
	return &SID{
		model:         model,
		cyclesPerSamp: clockHz / SampleRate,
		output:        ring.New[audio.IntBuffer](capacity),
	}
}

// sampleFormat describes every buffer pushed onto the output ring: mono,
// at SampleRate.
var sampleFormat = &audio.Format{NumChannels: 1, SampleRate: SampleRate}

// Tick advances the SID by one PHI2 cycle, generating a sample onto the
// output ring whenever enough cycles have accumulated.
func (s *SID) Tick() {
	s.sampleAccum++
	if s.sampleAccum < s.cyclesPerSamp {
		return
	}
	s.sampleAccum -= s.cyclesPerSamp

	var mix int32
	for i := range s.voice {
		var sync_, ring_ *voice
		if i > 0 {
			sync_ = &s.voice[i-1]
			ring_ = &s.voice[i-1]
		} else {
			sync_ = &s.voice[2]
			ring_ = &s.voice[2]
		}
		mix += int32(s.voice[i].tick(sync_, ring_, 1.0))
	}
	mix = mix * int32(s.modeVolume&0x0f) / 3

	s.mu.Lock()
	s.output.Push(audio.IntBuffer{Format: sampleFormat, Data: []int{int(mix)}, SourceBitDepth: 16})
	s.mu.Unlock()
}

// DrainSamples returns and clears all samples currently buffered.
func (s *SID) DrainSamples() []audio.IntBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.Drain()
}

// Register offsets within the 29-byte register file (mirrored through the
// rest of the $D400-$D7FF slot).
const (
	regFreqLo1 = iota
	regFreqHi1
	regPulseLo1
	regPulseHi1
	regControl1
	regAttackDecay1
	regSustainRelease1
)

// Access decodes a register read/write, reg already reduced modulo 32.
func (s *SID) Access(reg uint8, value uint8, write bool) uint8 {
	if reg >= 0x1d {
		return 0xff
	}
	if reg < 0x15 {
		vi := reg / 7
		off := reg % 7
		if write {
			s.writeVoice(&s.voice[vi], off, value)
			return value
		}
		return 0 // write-only voice registers read as 0 on real hardware
	}
	if write {
		s.writeFilter(reg, value)
		return value
	}
	switch reg {
	case 0x1b:
		return s.voice[2].envLevel // misused as oscillator read-back approximation
	case 0x1c:
		return s.voice[2].envLevel
	}
	return 0
}

func (s *SID) writeVoice(v *voice, off uint8, val uint8) {
	switch off {
	case regFreqLo1:
		v.freq = (v.freq & 0xff00) | uint16(val)
	case regFreqHi1:
		v.freq = (v.freq & 0x00ff) | uint16(val)<<8
	case regPulseLo1:
		v.pulse = (v.pulse & 0xff00) | uint16(val)
	case regPulseHi1:
		v.pulse = (v.pulse & 0x000f) | uint16(val&0x0f)<<8
	case regControl1:
		v.control = val
		v.gate = val&GateBit != 0
	case regAttackDecay1:
		v.attackDecay = val
	case regSustainRelease1:
		v.sustainRelease = val
	}
}

func (s *SID) writeFilter(reg uint8, val uint8) {
	switch reg {
	case 0x15:
		s.filterCutoff = (s.filterCutoff & 0x7f8) | uint16(val&0x07)
	case 0x16:
		s.filterCutoff = (s.filterCutoff & 0x007) | uint16(val)<<3
	case 0x17:
		s.filterReso = val >> 4
		s.filterRoute = val & 0x0f
	case 0x18:
		s.modeVolume = val
	}
}
