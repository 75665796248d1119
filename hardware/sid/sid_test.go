package sid

import "testing"

func TestVoiceFrequencyRegistersRoundTrip(t *testing.T) {
	s := New(MOS6581, 985248, 16)
	s.Access(regFreqLo1, 0x34, true)
	s.Access(regFreqHi1, 0x12, true)
	if s.voice[0].freq != 0x1234 {
		t.Fatalf("voice[0].freq = %#04x, want 0x1234", s.voice[0].freq)
	}
}

func TestWriteOnlyVoiceRegistersReadAsZero(t *testing.T) {
	s := New(MOS6581, 985248, 16)
	s.Access(regFreqLo1, 0x34, true)
	if got := s.Access(regFreqLo1, 0, false); got != 0 {
		t.Fatalf("reading a write-only voice register = %#02x, want 0", got)
	}
}

func TestGateOnStartsAttackEnvelope(t *testing.T) {
	s := New(MOS6581, 985248, 16)
	s.Access(regControl1, GateBit, true)
	if !s.voice[0].gate {
		t.Fatalf("gate bit should be latched from the control register write")
	}
	before := s.voice[0].envLevel
	for i := 0; i < envelopeRates[0]+1; i++ {
		s.voice[0].tickEnvelope()
	}
	if s.voice[0].envLevel <= before {
		t.Fatalf("envelope level should have risen during attack, got %d (was %d)", s.voice[0].envLevel, before)
	}
}

func TestGateOffForcesRelease(t *testing.T) {
	s := New(MOS6581, 985248, 16)
	s.voice[0].gate = true
	s.voice[0].envStage = attack
	s.voice[0].envLevel = 0x80

	s.Access(regControl1, 0, true) // gate bit clear
	s.voice[0].tickEnvelope()
	if s.voice[0].envStage != release {
		t.Fatalf("envStage = %v, want release once gate drops", s.voice[0].envStage)
	}
}

func TestTickAccumulatesSamplesOntoTheOutputRing(t *testing.T) {
	s := New(MOS6581, 985248, 16)
	s.Access(regControl1, WaveSawtooth, true) // voice 0: sawtooth, audible
	s.Access(0x18, 0x0f, true)                // full volume
	s.voice[0].freq = 0xffff
	s.voice[0].envLevel = 0xff // skip the attack ramp, envelope fully open

	perSample := int(s.cyclesPerSamp) + 1
	for i := 0; i < perSample*20; i++ { // enough samples for the sawtooth ramp to leave 0
		s.Tick()
	}
	samples := s.DrainSamples()
	if len(samples) == 0 {
		t.Fatalf("expected at least one sample")
	}
	buf := samples[0]
	if buf.Format == nil || buf.Format.NumChannels != 1 || buf.Format.SampleRate != SampleRate {
		t.Fatalf("buffer format = %+v, want mono at %d Hz", buf.Format, SampleRate)
	}
	if len(buf.Data) != 1 {
		t.Fatalf("buffer Data length = %d, want 1 sample per buffer", len(buf.Data))
	}
	nonZero := false
	for _, buf := range samples {
		if buf.Data[0] != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Fatalf("sawtooth voice at full volume never produced a nonzero sample, mixing is not reaching the ring")
	}
}

func TestDrainSamplesClearsTheRing(t *testing.T) {
	s := New(MOS6581, 985248, 16)
	cycles := int(s.cyclesPerSamp) + 1
	for i := 0; i < cycles; i++ {
		s.Tick()
	}
	s.DrainSamples()
	if got := s.DrainSamples(); len(got) != 0 {
		t.Fatalf("second drain returned %d samples, want 0", len(got))
	}
}

func TestFilterCutoffSplitAcrossTwoRegisters(t *testing.T) {
	s := New(MOS6581, 985248, 16)
	s.Access(0x15, 0x05, true)
	s.Access(0x16, 0xab, true)
	want := uint16(0x05) | uint16(0xab)<<3
	if s.filterCutoff != want {
		t.Fatalf("filterCutoff = %#04x, want %#04x", s.filterCutoff, want)
	}
}
