// Package encoder drives the VideoCore HDMI output block: video timings,
// colour-space setup, infoframe packet RAM and the MAI audio link. All
// hardware access goes through the hw.Bus and the variant's register layout,
// so the same code runs against /dev/mem and against the mock.
package encoder

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pimedia/hdmilink/internal/hw"
	"github.com/pimedia/hdmilink/internal/mode"
	"github.com/pimedia/hdmilink/internal/regmap"
)

// State is the encoder's lifecycle state.
type State int

const (
	StateDisabled State = iota
	StateEnabling
	StateActiveDVI
	StateActiveHDMI
	StateDisabling
)

var stateNames = [...]string{"disabled", "enabling", "active-dvi", "active-hdmi", "disabling"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "invalid"
	}
	return stateNames[s]
}

// Active reports whether scanout is running.
func (s State) Active() bool {
	return s == StateActiveDVI || s == StateActiveHDMI
}

// Deps collects the encoder's collaborators.
type Deps struct {
	Bus     hw.Bus
	Variant *Variant
	Clocks  Clocks
	Power   PowerDomain
	PHY     PHY
	Reset   ResetLine    // optional, newer generation only
	Log     *slog.Logger // optional
}

// Encoder is one HDMI output instance. A single mutex serializes all device
// access; every exported method takes it.
type Encoder struct {
	mu      sync.Mutex
	bus     hw.Bus
	variant *Variant
	clocks  Clocks
	power   PowerDomain
	phy     PHY
	reset   ResetLine
	log     *slog.Logger

	state      State
	mode       *mode.Mode
	sink       Sink
	margins    Margins
	spdVendor  string
	spdProduct string
	limitedRGB bool

	audio audioState
}

// New wires up an encoder and brings the register block to a known state:
// the core enable dance on the older generation, and the CEC bit-clock
// divider on both.
func New(d Deps) *Encoder {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	e := &Encoder{
		bus:        d.Bus,
		variant:    d.Variant,
		clocks:     d.Clocks,
		power:      d.Power,
		phy:        d.PHY,
		reset:      d.Reset,
		log:        log.With("output", d.Variant.Name),
		spdVendor:  "Broadcom",
		spdProduct: "Videocore",
	}
	e.audio.iec = defaultIECStatus()

	if e.variant.Layout.Has(regmap.MCtl) {
		e.wr(regmap.MCtl, regmap.MCtlSWReset)
		e.wr(regmap.MCtl, regmap.MCtlEnable)
	}
	e.initCEC()

	return e
}

// initCEC programs the divider that derives the 40 kHz CEC bit clock from
// the variant's CEC input clock, and parks the logical address at
// unregistered. The CEC wire protocol itself lives elsewhere.
func (e *Encoder) initCEC() {
	cnt := uint32(e.variant.CECInputClock / regmap.CECClockFreq)
	v := e.rd(regmap.CECControl1)
	v &^= regmap.CECDivClkCntMask
	v |= regmap.CECAddrMask | regmap.Field(cnt-1, regmap.CECDivClkCntMask, regmap.CECDivClkCntShift)
	e.wr(regmap.CECControl1, v)
}

func (e *Encoder) rd(r regmap.Reg) uint32 {
	b, off, ok := e.variant.Layout.Lookup(r)
	if !ok {
		panic(fmt.Sprintf("encoder: register %s not present on %s", r, e.variant.Name))
	}
	return e.bus.Read(b, off)
}

func (e *Encoder) wr(r regmap.Reg, v uint32) {
	b, off, ok := e.variant.Layout.Lookup(r)
	if !ok {
		panic(fmt.Sprintf("encoder: register %s not present on %s", r, e.variant.Name))
	}
	e.bus.Write(b, off, v)
}

func (e *Encoder) setBits(r regmap.Reg, bits uint32) {
	e.wr(r, e.rd(r)|bits)
}

func (e *Encoder) clearBits(r regmap.Reg, bits uint32) {
	e.wr(r, e.rd(r)&^bits)
}

// State returns the current lifecycle state.
func (e *Encoder) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Mode returns the active display mode, or nil when disabled.
func (e *Encoder) Mode() *mode.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SinkInfo returns what the encoder currently believes about the sink.
func (e *Encoder) SinkInfo() Sink {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sink
}

// SetSink records the sink capabilities learned from EDID. It takes effect
// on the next Enable.
func (e *Encoder) SetSink(s Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = s
}

// SetMargins sets the overscan bars advertised in the AVI infoframe.
func (e *Encoder) SetMargins(m Margins) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.margins = m
}

// SetProduct sets the SPD infoframe strings.
func (e *Encoder) SetProduct(vendor, product string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spdVendor = vendor
	e.spdProduct = product
}

// Connected reads the hotplug register bit. HPD GPIO based detection, where
// fitted, lives in the hotplug package.
func (e *Encoder) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rd(regmap.Hotplug)&regmap.HotplugConnected != 0
}

// ModeValid rejects modes whose pixel clock the variant cannot drive.
func (e *Encoder) ModeValid(m *mode.Mode) error {
	if uint64(m.Clock)*1000 > e.variant.MaxPixelClock {
		return fmt.Errorf("%w: %d kHz > %d Hz (%s)", ErrUnsupportedMode,
			m.Clock, e.variant.MaxPixelClock, e.variant.Name)
	}
	return nil
}

// Enable brings up the output with the given mode. An already-active output
// is torn down first. On failure every acquired clock and the power domain
// are released again and the encoder is left disabled.
func (e *Encoder) Enable(m *mode.Mode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateDisabled {
		e.disableLocked()
	}
	if err := e.ModeValid(m); err != nil {
		return err
	}

	e.state = StateEnabling
	if err := e.enableLocked(m); err != nil {
		e.state = StateDisabled
		return err
	}
	e.mode = m
	e.log.Info("output enabled",
		"mode", m.Name,
		"state", e.state.String(),
		"limited_rgb", e.limitedRGB,
	)
	return nil
}

func (e *Encoder) enableLocked(m *mode.Mode) error {
	pixelRate := m.PixelRate()

	if err := e.power.Acquire(); err != nil {
		return fmt.Errorf("encoder: acquire power domain: %w", err)
	}
	if err := e.clocks.SetRate(ClockPixel, pixelRate); err != nil {
		e.releasePower()
		return fmt.Errorf("encoder: set pixel clock to %d Hz: %w", pixelRate, err)
	}
	if err := e.clocks.Enable(ClockPixel); err != nil {
		e.releasePower()
		return fmt.Errorf("encoder: enable pixel clock: %w", err)
	}

	hsmRate := e.variant.gen.calcHSMRate(pixelRate)
	if err := e.clocks.SetRate(ClockHSM, hsmRate); err != nil {
		e.clocks.Disable(ClockPixel)
		e.releasePower()
		return fmt.Errorf("encoder: set HSM clock to %d Hz: %w", hsmRate, err)
	}
	if err := e.clocks.Enable(ClockHSM); err != nil {
		e.clocks.Disable(ClockPixel)
		e.releasePower()
		return fmt.Errorf("encoder: enable HSM clock: %w", err)
	}

	e.variant.gen.reset(e)

	if err := e.phy.Init(m); err != nil {
		e.clocks.Disable(ClockHSM)
		e.clocks.Disable(ClockPixel)
		e.releasePower()
		return fmt.Errorf("encoder: PHY init: %w", err)
	}

	e.wr(regmap.VidCtl, 0)
	e.setBits(regmap.SchedulerControl,
		regmap.SchedCtlManualFormat|regmap.SchedCtlIgnoreVSyncPredicts)

	e.variant.gen.setTimings(e, m)

	e.limitedRGB = e.sink.HDMI && m.DefaultRGBQuantRange() == mode.QuantLimited
	e.variant.gen.cscSetup(e, e.limitedRGB)

	e.wr(regmap.FIFOCtl, regmap.FIFOCtlMasterSlaveN)

	e.setBits(regmap.VidCtl,
		regmap.VidCtlEnable|regmap.VidCtlUnderflowEnable|regmap.VidCtlFrameCounterReset)

	if e.sink.HDMI {
		e.setBits(regmap.SchedulerControl, regmap.SchedCtlModeHDMI)
		if err := e.pollReg(time.Second, func() uint32 { return e.rd(regmap.SchedulerControl) },
			regmap.SchedCtlHDMIActive, regmap.SchedCtlHDMIActive, "HDMI mode active"); err != nil {
			e.log.Warn("scheduler did not report HDMI active", "err", err)
		}

		e.setBits(regmap.SchedulerControl, regmap.SchedCtlVertAlwaysKeepout)
		e.wr(regmap.RAMPacketConfig, regmap.RAMPacketEnable)
		e.writeInfoframesLocked(m)
		e.recenterFIFO()
		e.state = StateActiveHDMI
	} else {
		e.clearBits(regmap.RAMPacketConfig, regmap.RAMPacketEnable)
		e.clearBits(regmap.SchedulerControl, regmap.SchedCtlModeHDMI)
		if err := e.pollReg(time.Second, func() uint32 { return e.rd(regmap.SchedulerControl) },
			regmap.SchedCtlHDMIActive, 0, "DVI mode active"); err != nil {
			e.log.Warn("scheduler did not leave HDMI mode", "err", err)
		}
		e.state = StateActiveDVI
	}

	return nil
}

// recenterFIFO pulses the pixel FIFO recenter bit twice, preserving only the
// writable control bits so stale status cannot be written back.
func (e *Encoder) recenterFIFO() {
	drift := e.rd(regmap.FIFOCtl) & regmap.FIFOValidWriteMask

	e.wr(regmap.FIFOCtl, drift&^regmap.FIFOCtlRecenter)
	e.wr(regmap.FIFOCtl, drift|regmap.FIFOCtlRecenter)
	time.Sleep(time.Millisecond)
	e.wr(regmap.FIFOCtl, drift&^regmap.FIFOCtlRecenter)
	e.wr(regmap.FIFOCtl, drift|regmap.FIFOCtlRecenter)

	if err := e.pollReg(time.Millisecond, func() uint32 { return e.rd(regmap.FIFOCtl) },
		regmap.FIFOCtlRecenterDone, regmap.FIFOCtlRecenterDone, "FIFO recenter"); err != nil {
		e.log.Warn("FIFO recenter did not complete", "err", err)
	}
}

// Disable tears the output down. It always completes: clock and power
// release failures are logged, never propagated, so a wedged collaborator
// cannot leave the pipeline half-on.
func (e *Encoder) Disable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateDisabled {
		return
	}
	e.disableLocked()
	e.log.Info("output disabled")
}

func (e *Encoder) disableLocked() {
	e.state = StateDisabling

	e.wr(regmap.RAMPacketConfig, 0)
	e.phy.Disable()
	e.clearBits(regmap.VidCtl, regmap.VidCtlEnable)

	e.clocks.Disable(ClockHSM)
	e.clocks.Disable(ClockPixel)
	e.releasePower()

	e.state = StateDisabled
	e.mode = nil
	e.limitedRGB = false
}

func (e *Encoder) releasePower() {
	if err := e.power.Release(); err != nil {
		e.log.Error("failed to release power domain", "err", err)
	}
}
