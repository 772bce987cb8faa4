package cea_test

import (
	"errors"
	"testing"

	"github.com/pimedia/hdmilink/internal/cea"
)

func TestSpeakerMask(t *testing.T) {
	tests := []struct {
		name     string
		spkAlloc byte
		want     cea.Speaker
	}{
		{"none", 0x00, 0},
		{"stereo", 0x01, cea.FL | cea.FR},
		{"5.1", 0x0f, cea.FL | cea.FR | cea.LFE | cea.FC | cea.RL | cea.RR},
		{"7.1", 0x4f, cea.FL | cea.FR | cea.LFE | cea.FC | cea.RL | cea.RR | cea.RLC | cea.RRC},
		{"all groups", 0x7f, cea.FL | cea.FR | cea.LFE | cea.FC | cea.RL | cea.RR | cea.RC | cea.FLC | cea.FRC | cea.RLC | cea.RRC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cea.SpeakerMask(tt.spkAlloc); got != tt.want {
				t.Errorf("SpeakerMask(%#x) = %#x, want %#x", tt.spkAlloc, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		spkAlloc byte
		channels int
		wantCA   byte
	}{
		{"stereo sink stereo stream", 0x01, 2, 0x00},
		// With no speaker data the stereo allocation always wins.
		{"unplugged", 0x00, 8, 0x00},
		{"5.1 sink 6ch", 0x0f, 6, 0x0b},
		// No LFE or FC: surround40 is the first 6ch entry that fits.
		{"quad sink 6ch", 0x09, 6, 0x08},
		{"7.1 sink 8ch", 0x4f, 8, 0x13},
		// 6.1 outranks the catch-all 8ch entries.
		{"6.1 sink 8ch", 0x1f, 8, 0x0f},
		{"2ch on 5.1 sink", 0x0f, 2, 0x00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cea.Resolve(tt.spkAlloc, tt.channels)
			if err != nil {
				t.Fatalf("Resolve(%#x, %d) error: %v", tt.spkAlloc, tt.channels, err)
			}
			if got.CA != tt.wantCA {
				t.Errorf("Resolve(%#x, %d) CA = %#x, want %#x", tt.spkAlloc, tt.channels, got.CA, tt.wantCA)
			}
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	// A stereo-only sink cannot take a 6-channel stream.
	_, err := cea.Resolve(0x01, 6)
	if !errors.Is(err, cea.ErrNoAllocation) {
		t.Fatalf("Resolve(0x01, 6) error = %v, want ErrNoAllocation", err)
	}
}

// The table must keep its preference order: common layouts first, then the
// remaining CA values ascending.
func TestAllocationTableOrder(t *testing.T) {
	want := []byte{
		0x00, 0x01, 0x02, 0x0b, 0x08, 0x09, 0x0a, 0x0f, 0x13,
		0x03, 0x04, 0x05, 0x06, 0x07, 0x0c, 0x0d, 0x0e, 0x10, 0x11, 0x12,
		0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f,
	}
	got := cea.Allocations()
	if len(got) != len(want) {
		t.Fatalf("table has %d entries, want %d", len(got), len(want))
	}
	for i, a := range got {
		if a.CA != want[i] {
			t.Errorf("entry %d: CA = %#x, want %#x", i, a.CA, want[i])
		}
		if a.Mask&(cea.FL|cea.FR) != cea.FL|cea.FR {
			t.Errorf("entry %d (CA %#x): missing front pair", i, a.CA)
		}
	}
}

func TestMaps(t *testing.T) {
	if maps := cea.Maps(0x01); len(maps) != 1 || maps[0].Channels != 2 {
		t.Errorf("Maps(stereo) = %v, want single stereo map", maps)
	}
	if maps := cea.Maps(0x0f); len(maps) != 0x20 {
		t.Errorf("Maps(5.1) returned %d maps, want 32", len(maps))
	}
}

func TestMapForCA(t *testing.T) {
	m, ok := cea.MapForCA(0x0b)
	if !ok || m.Channels != 6 {
		t.Fatalf("MapForCA(0x0b) = %v, %v", m, ok)
	}
	want := []cea.Position{cea.PosFL, cea.PosFR, cea.PosLFE, cea.PosFC, cea.PosRL, cea.PosRR}
	for i, p := range m.Map {
		if p != want[i] {
			t.Errorf("CA 0x0b slot %d = %s, want %s", i, p, want[i])
		}
	}
	if _, ok := cea.MapForCA(0x20); ok {
		t.Error("MapForCA(0x20) should not resolve")
	}
}
