// Package mode models display modes the way the encoder consumes them:
// pixel clock, blanking intervals, sync polarity and the CEA-861 attributes
// that decide quantization range and pixel repetition.
package mode

// Flags carries the mode attributes the timing generator cares about.
type Flags uint32

const (
	PHSync Flags = 1 << iota // positive hsync pulse
	NHSync
	PVSync
	NVSync
	Interlace
	// DoubleClock marks pixel-repeated modes (480i/576i over HDMI): every
	// pixel is sent twice and the link runs at twice the mode clock.
	DoubleClock
)

// Mode is one display timing. Horizontal values are in pixels, vertical in
// lines, Clock in kHz. Vertical values are frame-based; interlaced modes are
// halved per field by FieldTiming.
type Mode struct {
	Name  string
	Clock int

	HDisplay   int
	HSyncStart int
	HSyncEnd   int
	HTotal     int

	VDisplay   int
	VSyncStart int
	VSyncEnd   int
	VTotal     int

	Flags Flags

	// VIC is the CEA-861 video identification code, 0 for non-CEA modes.
	VIC byte
}

func (m *Mode) Interlaced() bool {
	return m.Flags&Interlace != 0
}

// PixelRepeat is 2 for double-clocked modes, else 1.
func (m *Mode) PixelRepeat() int {
	if m.Flags&DoubleClock != 0 {
		return 2
	}
	return 1
}

// PixelRate is the link rate in Hz, with pixel repetition applied.
func (m *Mode) PixelRate() uint64 {
	return uint64(m.Clock) * 1000 * uint64(m.PixelRepeat())
}

// VRefresh approximates the vertical refresh rate in Hz.
func (m *Mode) VRefresh() int {
	if m.HTotal == 0 || m.VTotal == 0 {
		return 0
	}
	refresh := m.Clock * 1000 / (m.HTotal * m.VTotal)
	if m.Interlaced() {
		refresh *= 2
	}
	if m.Flags&DoubleClock != 0 {
		refresh /= 2
	}
	return refresh
}

// FieldTiming holds the vertical timings as scanned out: frame values for
// progressive modes, halved per field for interlaced ones.
type FieldTiming struct {
	VDisplay   int
	VSyncStart int
	VSyncEnd   int
	VTotal     int
}

func (m *Mode) FieldTiming() FieldTiming {
	ft := FieldTiming{m.VDisplay, m.VSyncStart, m.VSyncEnd, m.VTotal}
	if m.Interlaced() {
		ft.VDisplay /= 2
		ft.VSyncStart /= 2
		ft.VSyncEnd /= 2
		ft.VTotal /= 2
	}
	return ft
}

// QuantRange is the RGB quantization range signalled to the sink.
type QuantRange int

const (
	QuantFull QuantRange = iota
	QuantLimited
)

func (q QuantRange) String() string {
	if q == QuantLimited {
		return "limited"
	}
	return "full"
}

// DefaultRGBQuantRange returns the range CEA-861 mandates for the mode when
// nothing overrides it: limited for all CEA modes except VIC 1, full for VIC
// 1 and non-CEA modes.
func (m *Mode) DefaultRGBQuantRange() QuantRange {
	if m.VIC > 1 {
		return QuantLimited
	}
	return QuantFull
}
