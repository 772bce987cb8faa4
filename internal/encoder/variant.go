package encoder

import (
	"github.com/pimedia/hdmilink/internal/mode"
	"github.com/pimedia/hdmilink/internal/regmap"
)

// hsmClockBCM2835 is the HSM rate the firmware sets on the older generation.
// It only needs to be a bit above the highest pixel clock (148.5 MHz).
const hsmClockBCM2835 = 163682864

// generation is the per-hardware-generation strategy: everything that
// differs between the BCM2835 and BCM2711 encoders beyond register
// placement.
type generation interface {
	reset(e *Encoder)
	setTimings(e *Encoder, m *mode.Mode)
	cscSetup(e *Encoder, enable bool)
	calcHSMRate(pixelRate uint64) uint64
	hsmRate(e *Encoder) uint64
	channelMap(mask uint32) uint32
}

// Variant describes one HDMI output instance.
type Variant struct {
	Name string

	// MaxPixelClock bounds ModeValid, in Hz. It keeps a 1% margin below
	// the HSM clock on the older generation.
	MaxPixelClock uint64

	// CECInputClock feeds the CEC bit-clock divider, in Hz.
	CECInputClock uint64

	// AudioAvailable gates the MAI audio path.
	AudioAvailable bool

	Layout *regmap.Layout

	gen generation
}

var (
	BCM2835 = &Variant{
		Name:           "bcm2835",
		MaxPixelClock:  162000000,
		CECInputClock:  hsmClockBCM2835,
		AudioAvailable: true,
		Layout:         regmap.BCM2835,
		gen:            gen4{},
	}

	BCM2711HDMI0 = &Variant{
		Name:           "bcm2711-hdmi0",
		MaxPixelClock:  297000000,
		CECInputClock:  27000000,
		AudioAvailable: true,
		Layout:         regmap.BCM2711HDMI0,
		gen:            gen5{},
	}

	BCM2711HDMI1 = &Variant{
		Name:           "bcm2711-hdmi1",
		MaxPixelClock:  297000000,
		CECInputClock:  27000000,
		AudioAvailable: true,
		Layout:         regmap.BCM2711HDMI1,
		gen:            gen5{},
	}
)

// Variants lists the supported outputs by name.
var Variants = map[string]*Variant{
	BCM2835.Name:      BCM2835,
	BCM2711HDMI0.Name: BCM2711HDMI0,
	BCM2711HDMI1.Name: BCM2711HDMI1,
}
