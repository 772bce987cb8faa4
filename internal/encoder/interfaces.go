package encoder

import "github.com/pimedia/hdmilink/internal/mode"

// ClockID names one of the encoder's clocks.
type ClockID int

const (
	// ClockPixel drives the video timing generator.
	ClockPixel ClockID = iota
	// ClockHSM is the HDMI state machine clock. It must run slightly
	// faster than the pixel clock and feeds the MAI audio divider.
	ClockHSM
)

func (c ClockID) String() string {
	switch c {
	case ClockPixel:
		return "pixel"
	case ClockHSM:
		return "hsm"
	}
	return "invalid"
}

// Clocks abstracts the clock controller feeding the encoder. On real
// hardware this talks to the firmware clock manager; tests use a mock.
type Clocks interface {
	SetRate(id ClockID, hz uint64) error
	Enable(id ClockID) error
	Disable(id ClockID)
	Rate(id ClockID) uint64
}

// PowerDomain gates the encoder's power island. Acquire and Release nest.
type PowerDomain interface {
	Acquire() error
	Release() error
}

// PHY drives the analog transmitter. RNGEnable/RNGDisable gate the audio
// sample-rate converter range block around stream start/stop.
type PHY interface {
	Init(m *mode.Mode) error
	Disable()
	RNGEnable()
	RNGDisable()
}

// ResetLine pulses an external reset controller. Only the newer generation
// has one; nil means none.
type ResetLine interface {
	Reset()
}

// Sink describes what the EDID layer learned about the connected display.
type Sink struct {
	// HDMI is false for DVI sinks, which get no infoframes or audio.
	HDMI bool
	// SpeakerAlloc is the speaker allocation byte from the sink's audio
	// data block; zero when unknown.
	SpeakerAlloc byte
	// QuantSelectable is set when the sink accepts explicit quantization
	// range signalling in the AVI infoframe.
	QuantSelectable bool
}

// Margins are overscan bar widths carried in the AVI infoframe.
type Margins struct {
	Top, Bottom, Left, Right uint16
}
