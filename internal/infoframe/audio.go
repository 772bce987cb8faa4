package infoframe

import "fmt"

// CAUnknown marks a stream whose channel allocation could not be resolved
// against the sink's speakers. It is carried on the wire as-is; sinks treat
// it as "refer to stream header".
const CAUnknown = 0xff

// Audio infoframe, version 1, 10-byte payload. The zero value describes an
// IEC audio stream that carries its own format ("refer to stream header"),
// which is what the encoder sends for PCM playback.
type Audio struct {
	Channels       int  // channel count, 0 for "refer to stream header"
	CodingType     byte // 0 = refer to stream header
	SampleFreq     byte // 0 = refer to stream header
	SampleSize     byte // 0 = refer to stream header
	CodingTypeExt  byte
	CA             byte // channel allocation, or CAUnknown
	LevelShift     byte
	DownmixInhibit bool
}

const audioLength = 10

func (f *Audio) Type() Type { return TypeAudio }

func (f *Audio) Pack() ([]byte, error) {
	if f.Channels < 0 || f.Channels > 8 {
		return nil, fmt.Errorf("infoframe: audio channel count %d out of range", f.Channels)
	}

	buf := make([]byte, 4+audioLength)
	p := buf[4:]

	// Channel count is carried as count-1; 0 means unspecified.
	var cc byte
	if f.Channels >= 2 {
		cc = byte(f.Channels - 1)
	}
	p[0] = cc | (f.CodingType&0xf)<<4
	p[1] = (f.SampleFreq&0x7)<<2 | f.SampleSize&0x3
	p[2] = f.CodingTypeExt & 0x1f
	p[3] = f.CA
	p[4] = (f.LevelShift & 0xf) << 3
	if f.DownmixInhibit {
		p[4] |= 1 << 7
	}

	header(buf, TypeAudio, 1)
	return buf, nil
}
