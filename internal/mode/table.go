package mode

import (
	"errors"
	"fmt"
)

// Table lists the CEA modes the daemon exposes by name. Timings are the
// CEA-861 ones; more can be added as sinks demand them.
var Table = []Mode{
	{
		Name: "640x480@60", Clock: 25175, VIC: 1,
		HDisplay: 640, HSyncStart: 656, HSyncEnd: 752, HTotal: 800,
		VDisplay: 480, VSyncStart: 490, VSyncEnd: 492, VTotal: 525,
		Flags: NHSync | NVSync,
	},
	{
		Name: "720x480@60", Clock: 27027, VIC: 3,
		HDisplay: 720, HSyncStart: 736, HSyncEnd: 798, HTotal: 858,
		VDisplay: 480, VSyncStart: 489, VSyncEnd: 495, VTotal: 525,
		Flags: NHSync | NVSync,
	},
	{
		Name: "1280x720@60", Clock: 74250, VIC: 4,
		HDisplay: 1280, HSyncStart: 1390, HSyncEnd: 1430, HTotal: 1650,
		VDisplay: 720, VSyncStart: 725, VSyncEnd: 730, VTotal: 750,
		Flags: PHSync | PVSync,
	},
	{
		Name: "1920x1080i@60", Clock: 74250, VIC: 5,
		HDisplay: 1920, HSyncStart: 2008, HSyncEnd: 2052, HTotal: 2200,
		VDisplay: 1080, VSyncStart: 1084, VSyncEnd: 1094, VTotal: 1125,
		Flags: PHSync | PVSync | Interlace,
	},
	{
		Name: "720x480i@60", Clock: 13500, VIC: 6,
		HDisplay: 720, HSyncStart: 739, HSyncEnd: 801, HTotal: 858,
		VDisplay: 480, VSyncStart: 488, VSyncEnd: 494, VTotal: 525,
		Flags: NHSync | NVSync | Interlace | DoubleClock,
	},
	{
		Name: "1920x1080@60", Clock: 148500, VIC: 16,
		HDisplay: 1920, HSyncStart: 2008, HSyncEnd: 2052, HTotal: 2200,
		VDisplay: 1080, VSyncStart: 1084, VSyncEnd: 1089, VTotal: 1125,
		Flags: PHSync | PVSync,
	},
	{
		Name: "1920x1080@50", Clock: 148500, VIC: 31,
		HDisplay: 1920, HSyncStart: 2448, HSyncEnd: 2492, HTotal: 2640,
		VDisplay: 1080, VSyncStart: 1084, VSyncEnd: 1089, VTotal: 1125,
		Flags: PHSync | PVSync,
	},
	{
		Name: "3840x2160@30", Clock: 297000, VIC: 95,
		HDisplay: 3840, HSyncStart: 4016, HSyncEnd: 4104, HTotal: 4400,
		VDisplay: 2160, VSyncStart: 2168, VSyncEnd: 2178, VTotal: 2250,
		Flags: PHSync | PVSync,
	},
}

// ErrUnknownMode means the requested name is not in the table.
var ErrUnknownMode = errors.New("mode: unknown mode")

// Lookup finds a table mode by name.
func Lookup(name string) (*Mode, error) {
	for i := range Table {
		if Table[i].Name == name {
			return &Table[i], nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMode, name)
}
