// Package config handles loading and saving the daemon configuration.
package config

import "github.com/google/uuid"

// Config is the persisted daemon configuration.
type Config struct {
	// DeviceID identifies this daemon instance. Generated on first load
	// and kept stable across restarts.
	DeviceID string `toml:"device_id"`

	// Variant selects the hardware generation and instance, e.g.
	// "bcm2835" or "bcm2711-hdmi0".
	Variant string `toml:"variant"`

	// PreferredMode is enabled automatically when a sink connects.
	PreferredMode string `toml:"preferred_mode"`

	// ForceDVI disables HDMI-mode features (infoframes, audio) even for
	// sinks that support them. Some displays with broken EDID need this.
	ForceDVI bool `toml:"force_dvi"`

	Margins Margins `toml:"margins"`
	SPD     SPD     `toml:"spd"`
	Audio   Audio   `toml:"audio"`
}

// Margins are overscan bars in pixels/lines, signalled via the AVI frame.
type Margins struct {
	Top    uint16 `toml:"top"`
	Bottom uint16 `toml:"bottom"`
	Left   uint16 `toml:"left"`
	Right  uint16 `toml:"right"`
}

// SPD is the source product description presented to the sink.
type SPD struct {
	Vendor  string `toml:"vendor"`
	Product string `toml:"product"`
}

// Audio carries sink audio capabilities that would normally come from EDID
// parsing, which the daemon does not do.
type Audio struct {
	// SpeakerAlloc is the CEA-861 speaker allocation byte of the sink.
	SpeakerAlloc byte `toml:"speaker_alloc"`
}

// Default returns the configuration used when no file exists yet. The
// device ID is freshly generated; Load persists it.
func Default() Config {
	return Config{
		DeviceID:      uuid.NewString(),
		Variant:       "bcm2711-hdmi0",
		PreferredMode: "1920x1080@60",
		SPD: SPD{
			Vendor:  "Broadcom",
			Product: "Videocore",
		},
	}
}
