// Package cea resolves CEA-861 audio channel allocations. Given the sink's
// speaker allocation byte (from its EDID audio data block) and a channel
// count, it picks the CA value for the audio infoframe and the matching
// channel-to-speaker map.
package cea

import "errors"

// Speaker is a bitmask of CEA speaker placements for HDMI 1.4:
//
//	FL  FLC   FC   FRC   FR
//
//	                           LFE
//
//	RL  RLC   RC   RRC   RR
type Speaker uint16

const (
	FL  Speaker = 1 << 0 // front left
	FC  Speaker = 1 << 1 // front center
	FR  Speaker = 1 << 2 // front right
	FLC Speaker = 1 << 3 // front left center
	FRC Speaker = 1 << 4 // front right center
	RL  Speaker = 1 << 5 // rear left
	RC  Speaker = 1 << 6 // rear center
	RR  Speaker = 1 << 7 // rear right
	RLC Speaker = 1 << 8 // rear left center
	RRC Speaker = 1 << 9 // rear right center
	LFE Speaker = 1 << 10
)

// ErrNoAllocation means no CA value covers the requested channel count with
// the sink's speakers.
var ErrNoAllocation = errors.New("cea: no channel allocation for speaker setup")

// Allocation is one CA entry: the infoframe CA value, the stream channel
// count it describes, and the speakers it needs.
type Allocation struct {
	CA       byte
	Channels int
	Mask     Speaker
}

// allocations is ordered by preference: the first entry whose channel count
// and speaker requirements match wins. Common layouts come before the
// catch-all 8-channel ones.
var allocations = []Allocation{
	{0x00, 2, FL | FR},
	// 2.1
	{0x01, 4, FL | FR | LFE},
	// Dolby Surround
	{0x02, 4, FL | FR | FC},
	// surround51
	{0x0b, 6, FL | FR | LFE | FC | RL | RR},
	// surround40
	{0x08, 6, FL | FR | RL | RR},
	// surround41
	{0x09, 6, FL | FR | LFE | RL | RR},
	// surround50
	{0x0a, 6, FL | FR | FC | RL | RR},
	// 6.1
	{0x0f, 8, FL | FR | LFE | FC | RL | RR | RC},
	// surround71
	{0x13, 8, FL | FR | LFE | FC | RL | RR | RLC | RRC},
	// others
	{0x03, 8, FL | FR | LFE | FC},
	{0x04, 8, FL | FR | RC},
	{0x05, 8, FL | FR | LFE | RC},
	{0x06, 8, FL | FR | FC | RC},
	{0x07, 8, FL | FR | LFE | FC | RC},
	{0x0c, 8, FL | FR | RC | RL | RR},
	{0x0d, 8, FL | FR | LFE | RL | RR | RC},
	{0x0e, 8, FL | FR | FC | RL | RR | RC},
	{0x10, 8, FL | FR | RL | RR | RLC | RRC},
	{0x11, 8, FL | FR | LFE | RL | RR | RLC | RRC},
	{0x12, 8, FL | FR | FC | RL | RR | RLC | RRC},
	{0x14, 8, FL | FR | FLC | FRC},
	{0x15, 8, FL | FR | LFE | FLC | FRC},
	{0x16, 8, FL | FR | FC | FLC | FRC},
	{0x17, 8, FL | FR | LFE | FC | FLC | FRC},
	{0x18, 8, FL | FR | RC | FLC | FRC},
	{0x19, 8, FL | FR | LFE | RC | FLC | FRC},
	{0x1a, 8, FL | FR | RC | FC | FLC | FRC},
	{0x1b, 8, FL | FR | LFE | RC | FC | FLC | FRC},
	{0x1c, 8, FL | FR | RL | RR | FLC | FRC},
	{0x1d, 8, FL | FR | LFE | RL | RR | FLC | FRC},
	{0x1e, 8, FL | FR | FC | RL | RR | FLC | FRC},
	{0x1f, 8, FL | FR | LFE | FC | RL | RR | FLC | FRC},
}

// speaker groups addressed by the EDID speaker allocation byte, bit 0 first.
var allocBits = [7]Speaker{
	FL | FR, LFE, FC, RL | RR, RC, FLC | FRC, RLC | RRC,
}

// SpeakerMask expands the sink's speaker allocation byte into placements.
func SpeakerMask(spkAlloc byte) Speaker {
	var mask Speaker
	for i, group := range allocBits {
		if spkAlloc&(1<<i) != 0 {
			mask |= group
		}
	}
	return mask
}

// Resolve picks the preferred allocation for a stream with the given channel
// count on a sink with the given speaker allocation byte. A zero spkAlloc
// (sink unplugged or ELD missing) resolves to the stereo allocation
// regardless of channel count.
func Resolve(spkAlloc byte, channels int) (Allocation, error) {
	mask := SpeakerMask(spkAlloc)
	for _, a := range allocations {
		if spkAlloc == 0 && a.CA == 0 {
			return a, nil
		}
		if a.Channels != channels {
			continue
		}
		if a.Mask&mask != a.Mask {
			continue
		}
		return a, nil
	}
	return Allocation{}, ErrNoAllocation
}

// Allocations returns the preference-ordered CA table.
func Allocations() []Allocation {
	return allocations
}
