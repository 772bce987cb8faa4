package encoder_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pimedia/hdmilink/internal/encoder"
	"github.com/pimedia/hdmilink/internal/hw"
	"github.com/pimedia/hdmilink/internal/infoframe"
	"github.com/pimedia/hdmilink/internal/mode"
	"github.com/pimedia/hdmilink/internal/regmap"
)

type rig struct {
	enc    *encoder.Encoder
	sim    *encoder.Simulator
	clocks *encoder.MockClocks
	power  *encoder.MockPower
	phy    *encoder.MockPHY
	reset  *encoder.MockReset
	v      *encoder.Variant
}

func newRig(t *testing.T, v *encoder.Variant) *rig {
	t.Helper()
	r := &rig{
		sim:    encoder.NewSimulator(v),
		clocks: encoder.NewMockClocks(),
		power:  &encoder.MockPower{},
		phy:    &encoder.MockPHY{},
		reset:  &encoder.MockReset{},
		v:      v,
	}
	r.enc = encoder.New(encoder.Deps{
		Bus:     r.sim.Bus,
		Variant: v,
		Clocks:  r.clocks,
		Power:   r.power,
		PHY:     r.phy,
		Reset:   r.reset,
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return r
}

func (r *rig) reg(t *testing.T, reg regmap.Reg) uint32 {
	t.Helper()
	b, off, ok := r.v.Layout.Lookup(reg)
	if !ok {
		t.Fatalf("register %s not in layout", reg)
	}
	return r.sim.Bus.Read(b, off)
}

func mustMode(t *testing.T, name string) *mode.Mode {
	t.Helper()
	m, err := mode.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEnableHDMI(t *testing.T) {
	r := newRig(t, encoder.BCM2711HDMI0)
	r.enc.SetSink(encoder.Sink{HDMI: true})

	if err := r.enc.Enable(mustMode(t, "1920x1080@60")); err != nil {
		t.Fatal(err)
	}

	if got := r.enc.State(); got != encoder.StateActiveHDMI {
		t.Errorf("state = %s, want active-hdmi", got)
	}
	if got := r.clocks.Rate(encoder.ClockPixel); got != 148500000 {
		t.Errorf("pixel clock = %d, want 148500000", got)
	}
	// 101% of the pixel clock, above the 108 MHz floor.
	if got := r.clocks.Rate(encoder.ClockHSM); got != 149985000 {
		t.Errorf("HSM clock = %d, want 149985000", got)
	}
	if !r.clocks.Enabled(encoder.ClockPixel) || !r.clocks.Enabled(encoder.ClockHSM) {
		t.Error("clocks not enabled")
	}
	if got := r.power.Held(); got != 1 {
		t.Errorf("power domain held %d times, want 1", got)
	}
	if !r.phy.Running() {
		t.Error("PHY not initialized")
	}
	if r.reset.Pulses() != 1 {
		t.Errorf("reset pulses = %d, want 1", r.reset.Pulses())
	}

	vidCtl := r.reg(t, regmap.VidCtl)
	if vidCtl&regmap.VidCtlEnable == 0 {
		t.Error("VID_CTL enable bit not set")
	}
	sched := r.reg(t, regmap.SchedulerControl)
	if sched&regmap.SchedCtlModeHDMI == 0 {
		t.Error("scheduler not in HDMI mode")
	}
	if sched&regmap.SchedCtlVertAlwaysKeepout == 0 {
		t.Error("vertical keepout not set")
	}
	cfg := r.reg(t, regmap.RAMPacketConfig)
	if cfg&regmap.RAMPacketEnable == 0 {
		t.Error("packet RAM not enabled")
	}
	for _, typ := range []infoframe.Type{infoframe.TypeAVI, infoframe.TypeSPD} {
		if cfg&(1<<typ.SlotID()) == 0 {
			t.Errorf("%s packet slot not enabled", typ)
		}
	}

	// 1080p defaults to limited range: the CSC must squash.
	if got := r.reg(t, regmap.CSC12_11); got != 0x1b80 {
		t.Errorf("CSC_12_11 = %#x, want 0x1b80", got)
	}

	avi, err := infoframe.ParseAVI(r.enc.ReadPacket(infoframe.TypeAVI))
	if err != nil {
		t.Fatalf("AVI packet in RAM does not parse: %v", err)
	}
	if avi.VIC != 16 {
		t.Errorf("AVI VIC = %d, want 16", avi.VIC)
	}
	if avi.PictureAspect != 2 {
		t.Errorf("AVI picture aspect = %d, want 16:9", avi.PictureAspect)
	}
}

func TestEnableDVI(t *testing.T) {
	r := newRig(t, encoder.BCM2835)
	r.enc.SetSink(encoder.Sink{HDMI: false})

	if err := r.enc.Enable(mustMode(t, "1280x720@60")); err != nil {
		t.Fatal(err)
	}

	if got := r.enc.State(); got != encoder.StateActiveDVI {
		t.Errorf("state = %s, want active-dvi", got)
	}
	if sched := r.reg(t, regmap.SchedulerControl); sched&regmap.SchedCtlModeHDMI != 0 {
		t.Error("scheduler in HDMI mode for a DVI sink")
	}
	if cfg := r.reg(t, regmap.RAMPacketConfig); cfg&regmap.RAMPacketEnable != 0 {
		t.Error("packet RAM enabled for a DVI sink")
	}
	// The older generation runs its HSM at the firmware's fixed rate.
	if got := r.clocks.Rate(encoder.ClockHSM); got != 163682864 {
		t.Errorf("HSM clock = %d, want 163682864", got)
	}
}

func TestEnableRollsBackOnClockFailure(t *testing.T) {
	r := newRig(t, encoder.BCM2711HDMI0)
	r.enc.SetSink(encoder.Sink{HDMI: true})
	r.clocks.FailEnable = map[encoder.ClockID]error{
		encoder.ClockHSM: errors.New("plldiv busy"),
	}

	err := r.enc.Enable(mustMode(t, "1920x1080@60"))
	if err == nil {
		t.Fatal("Enable should fail when the HSM clock cannot be enabled")
	}
	if got := r.enc.State(); got != encoder.StateDisabled {
		t.Errorf("state after failed enable = %s, want disabled", got)
	}
	if got := r.power.Held(); got != 0 {
		t.Errorf("power domain still held %d times after rollback", got)
	}
	if !r.clocks.Balanced() {
		t.Error("clock enables not balanced after rollback")
	}
}

func TestEnableRollsBackOnPHYFailure(t *testing.T) {
	r := newRig(t, encoder.BCM2711HDMI0)
	r.enc.SetSink(encoder.Sink{HDMI: true})
	r.phy.FailInit = errors.New("lane calibration failed")

	if err := r.enc.Enable(mustMode(t, "1920x1080@60")); err == nil {
		t.Fatal("Enable should fail when the PHY cannot init")
	}
	if got := r.power.Held(); got != 0 {
		t.Errorf("power domain still held %d times after rollback", got)
	}
	if !r.clocks.Balanced() {
		t.Error("clock enables not balanced after rollback")
	}
}

func TestModeValid(t *testing.T) {
	r := newRig(t, encoder.BCM2835)

	if err := r.enc.ModeValid(mustMode(t, "1920x1080@60")); err != nil {
		t.Errorf("1080p should be valid on bcm2835: %v", err)
	}
	err := r.enc.ModeValid(mustMode(t, "3840x2160@30"))
	if !errors.Is(err, encoder.ErrUnsupportedMode) {
		t.Errorf("4k on bcm2835: err = %v, want ErrUnsupportedMode", err)
	}
	if err := r.enc.Enable(mustMode(t, "3840x2160@30")); !errors.Is(err, encoder.ErrUnsupportedMode) {
		t.Errorf("Enable of invalid mode: err = %v, want ErrUnsupportedMode", err)
	}

	r5 := newRig(t, encoder.BCM2711HDMI0)
	if err := r5.enc.ModeValid(mustMode(t, "3840x2160@30")); err != nil {
		t.Errorf("4k@30 should be valid on bcm2711: %v", err)
	}
}

func TestDisable(t *testing.T) {
	r := newRig(t, encoder.BCM2711HDMI0)
	r.enc.SetSink(encoder.Sink{HDMI: true})
	if err := r.enc.Enable(mustMode(t, "1920x1080@60")); err != nil {
		t.Fatal(err)
	}

	r.enc.Disable()

	if got := r.enc.State(); got != encoder.StateDisabled {
		t.Errorf("state = %s, want disabled", got)
	}
	if r.enc.Mode() != nil {
		t.Error("mode still set after disable")
	}
	if got := r.power.Held(); got != 0 {
		t.Errorf("power domain held %d times after disable", got)
	}
	if !r.clocks.Balanced() {
		t.Error("clock enables not balanced after disable")
	}
	if r.phy.Running() {
		t.Error("PHY still running after disable")
	}
	if got := r.reg(t, regmap.RAMPacketConfig); got != 0 {
		t.Errorf("RAM_PACKET_CONFIG = %#x after disable, want 0", got)
	}
	if v := r.reg(t, regmap.VidCtl); v&regmap.VidCtlEnable != 0 {
		t.Error("VID_CTL still enabled after disable")
	}

	// Disabling again is a no-op.
	r.enc.Disable()
	if got := r.power.Held(); got != 0 {
		t.Errorf("double disable unbalanced the power domain: %d", got)
	}
}

func TestReEnableTearsDownFirst(t *testing.T) {
	r := newRig(t, encoder.BCM2711HDMI0)
	r.enc.SetSink(encoder.Sink{HDMI: true})

	if err := r.enc.Enable(mustMode(t, "1280x720@60")); err != nil {
		t.Fatal(err)
	}
	if err := r.enc.Enable(mustMode(t, "1920x1080@60")); err != nil {
		t.Fatal(err)
	}

	if got := r.power.Held(); got != 1 {
		t.Errorf("power domain held %d times after re-enable, want 1", got)
	}
	if got := r.enc.Mode().Name; got != "1920x1080@60" {
		t.Errorf("active mode = %s, want 1920x1080@60", got)
	}
}

func TestConnected(t *testing.T) {
	r := newRig(t, encoder.BCM2835)
	if r.enc.Connected() {
		t.Error("hotplug should start disconnected")
	}
	r.sim.SetConnected(true)
	if !r.enc.Connected() {
		t.Error("hotplug bit not seen")
	}
}

func TestCoreEnableAtInit(t *testing.T) {
	// The older generation needs the shared HD core taken out of reset.
	r := newRig(t, encoder.BCM2835)
	if got := r.reg(t, regmap.MCtl); got != regmap.MCtlEnable {
		t.Errorf("M_CTL = %#x, want enable bit only", got)
	}
}

func TestCECDividerInit(t *testing.T) {
	r := newRig(t, encoder.BCM2711HDMI0)
	v := r.reg(t, regmap.CECControl1)

	// 27 MHz / 40 kHz, minus one.
	wantCnt := uint32(27000000/40000 - 1)
	if got := regmap.GetField(v, regmap.CECDivClkCntMask, regmap.CECDivClkCntShift); got != wantCnt {
		t.Errorf("CEC divider = %d, want %d", got, wantCnt)
	}
	if v&regmap.CECAddrMask != regmap.CECAddrMask {
		t.Error("CEC logical address not parked at unregistered")
	}
}

var _ hw.Bus = (*hw.Mock)(nil)
