package snapshot

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := &Snapshot{
		Model: "PAL",
		CPU:   CPUState{A: 0x12, X: 0x34, PC: 0xc000},
		Memory: MemoryState{
			RAM:    []byte{1, 2, 3},
			LORAM:  true,
			HIRAM:  true,
			CHAREN: true,
		},
	}
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.CPU.A != 0x12 || got.CPU.PC != 0xc000 {
		t.Fatalf("CPU state did not round-trip: %+v", got.CPU)
	}
	if got.Model != "PAL" {
		t.Fatalf("Model = %q, want PAL", got.Model)
	}
	if len(got.Memory.RAM) != 3 || got.Memory.RAM[2] != 3 {
		t.Fatalf("Memory.RAM did not round-trip: %v", got.Memory.RAM)
	}
}

func TestEncodeStampsMagicAndVersion(t *testing.T) {
	s := &Snapshot{}
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Magic != Magic || got.Version != Version {
		t.Fatalf("Magic/Version = %q/%d, want %q/%d", got.Magic, got.Version, Magic, Version)
	}
}

func TestDecodeRejectsNonGzipData(t *testing.T) {
	if _, err := Decode([]byte("not a gzip stream")); err == nil {
		t.Fatalf("expected an error decoding non-gzip data")
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(&Snapshot{Magic: Magic, Version: Version + 1}); err != nil {
		t.Fatalf("gob encode: %v", err)
	}
	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	gz.Write(raw.Bytes())
	gz.Close()

	if _, err := Decode(compressed.Bytes()); err == nil {
		t.Fatalf("expected an error for a future snapshot version")
	}
}
