package cea

// Position is a slot in a channel map: which speaker a stream channel
// feeds, or NA for a slot the allocation leaves unused.
type Position int

const (
	NA Position = iota
	PosFL
	PosFR
	PosLFE
	PosFC
	PosRL
	PosRR
	PosRC
	PosFLC
	PosFRC
	PosRLC
	PosRRC
)

var positionNames = map[Position]string{
	NA: "NA", PosFL: "FL", PosFR: "FR", PosLFE: "LFE", PosFC: "FC",
	PosRL: "RL", PosRR: "RR", PosRC: "RC", PosFLC: "FLC", PosFRC: "FRC",
	PosRLC: "RLC", PosRRC: "RRC",
}

func (p Position) String() string {
	if s, ok := positionNames[p]; ok {
		return s
	}
	return "invalid"
}

// ChannelMap assigns stream channels to speakers for one CA value.
type ChannelMap struct {
	Channels int
	Map      []Position
}

var stereoMaps = []ChannelMap{
	{2, []Position{PosFL, PosFR}},
}

// multiMaps is indexed by CA value. Order within each map follows the
// CEA-861 channel/speaker assignment table.
var multiMaps = [0x20]ChannelMap{
	0x00: {2, []Position{PosFL, PosFR}},
	0x01: {4, []Position{PosFL, PosFR, PosLFE, NA}},
	0x02: {4, []Position{PosFL, PosFR, NA, PosFC}},
	0x03: {4, []Position{PosFL, PosFR, PosLFE, PosFC}},
	0x04: {6, []Position{PosFL, PosFR, NA, NA, PosRC, NA}},
	0x05: {6, []Position{PosFL, PosFR, PosLFE, NA, PosRC, NA}},
	0x06: {6, []Position{PosFL, PosFR, NA, PosFC, PosRC, NA}},
	0x07: {6, []Position{PosFL, PosFR, PosLFE, PosFC, PosRC, NA}},
	0x08: {6, []Position{PosFL, PosFR, NA, NA, PosRL, PosRR}},
	0x09: {6, []Position{PosFL, PosFR, PosLFE, NA, PosRL, PosRR}},
	0x0a: {6, []Position{PosFL, PosFR, NA, PosFC, PosRL, PosRR}},
	0x0b: {6, []Position{PosFL, PosFR, PosLFE, PosFC, PosRL, PosRR}},
	0x0c: {8, []Position{PosFL, PosFR, NA, NA, PosRL, PosRR, PosRC, NA}},
	0x0d: {8, []Position{PosFL, PosFR, PosLFE, NA, PosRL, PosRR, PosRC, NA}},
	0x0e: {8, []Position{PosFL, PosFR, NA, PosFC, PosRL, PosRR, PosRC, NA}},
	0x0f: {8, []Position{PosFL, PosFR, PosLFE, PosFC, PosRL, PosRR, PosRC, NA}},
	0x10: {8, []Position{PosFL, PosFR, NA, NA, PosRL, PosRR, PosRLC, PosRRC}},
	0x11: {8, []Position{PosFL, PosFR, PosLFE, NA, PosRL, PosRR, PosRLC, PosRRC}},
	0x12: {8, []Position{PosFL, PosFR, NA, PosFC, PosRL, PosRR, PosRLC, PosRRC}},
	0x13: {8, []Position{PosFL, PosFR, PosLFE, PosFC, PosRL, PosRR, PosRLC, PosRRC}},
	0x14: {8, []Position{PosFL, PosFR, NA, NA, NA, NA, PosFLC, PosFRC}},
	0x15: {8, []Position{PosFL, PosFR, PosLFE, NA, NA, NA, PosFLC, PosFRC}},
	0x16: {8, []Position{PosFL, PosFR, NA, PosFC, NA, NA, PosFLC, PosFRC}},
	0x17: {8, []Position{PosFL, PosFR, PosLFE, PosFC, NA, NA, PosFLC, PosFRC}},
	0x18: {8, []Position{PosFL, PosFR, NA, NA, NA, NA, PosFLC, PosFRC}},
	0x19: {8, []Position{PosFL, PosFR, PosLFE, NA, NA, NA, PosFLC, PosFRC}},
	0x1a: {8, []Position{PosFL, PosFR, NA, PosFC, NA, NA, PosFLC, PosFRC}},
	0x1b: {8, []Position{PosFL, PosFR, PosLFE, PosFC, NA, NA, PosFLC, PosFRC}},
	0x1c: {8, []Position{PosFL, PosFR, NA, NA, NA, NA, PosFLC, PosFRC}},
	0x1d: {8, []Position{PosFL, PosFR, PosLFE, NA, NA, NA, PosFLC, PosFRC}},
	0x1e: {8, []Position{PosFL, PosFR, NA, PosFC, NA, NA, PosFLC, PosFRC}},
	0x1f: {8, []Position{PosFL, PosFR, PosLFE, PosFC, NA, NA, PosFLC, PosFRC}},
}

// Maps returns the channel maps usable with a sink: the full multichannel
// table when any speaker beyond the front pair is present, else stereo only.
func Maps(spkAlloc byte) []ChannelMap {
	if SpeakerMask(spkAlloc)&^(FL|FR) != 0 {
		return multiMaps[:]
	}
	return stereoMaps
}

// MapForCA returns the channel map for a CA value.
func MapForCA(ca byte) (ChannelMap, bool) {
	if int(ca) >= len(multiMaps) {
		return ChannelMap{}, false
	}
	return multiMaps[ca], true
}
