// Package controller is the single owner of the HDMI output: it glues the
// encoder to the persisted configuration, publishes state changes on the
// event bus, and keeps the Prometheus gauges in sync. The API layer and the
// hotplug monitor only ever talk to the controller, never to the encoder
// directly.
package controller

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pimedia/hdmilink/internal/config"
	"github.com/pimedia/hdmilink/internal/encoder"
	"github.com/pimedia/hdmilink/internal/events"
	"github.com/pimedia/hdmilink/internal/infoframe"
	"github.com/pimedia/hdmilink/internal/metrics"
	"github.com/pimedia/hdmilink/internal/mode"
)

// Controller serializes all output mutations. The encoder has its own lock
// for register access; the controller lock covers the configuration and the
// enable/disable sequencing around it.
type Controller struct {
	mu    sync.Mutex
	enc   *encoder.Encoder
	store *config.Store
	bus   *events.Bus
	log   *slog.Logger

	cfg       config.Config
	connected bool
}

// New loads the configuration, applies the cosmetic parts (margins, SPD,
// sink capabilities) to the encoder and returns the controller. The output
// stays disabled until a hotplug event or an explicit Enable.
func New(enc *encoder.Encoder, store *config.Store, bus *events.Bus, log *slog.Logger) (*Controller, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("controller: load config: %w", err)
	}

	c := &Controller{
		enc:       enc,
		store:     store,
		bus:       bus,
		log:       log,
		cfg:       cfg,
		connected: enc.Connected(),
	}
	c.applyConfigLocked(cfg)
	c.syncMetricsLocked()
	return c, nil
}

// Status is the outward-facing snapshot of the output.
type Status struct {
	DeviceID       string `json:"device_id"`
	Variant        string `json:"variant"`
	State          string `json:"state"`
	Mode           string `json:"mode,omitempty"`
	PixelClockHz   uint64 `json:"pixel_clock_hz"`
	Connected      bool   `json:"connected"`
	AudioStreaming bool   `json:"audio_streaming"`
}

// Status returns the current output snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	st := Status{
		DeviceID:       c.cfg.DeviceID,
		Variant:        c.cfg.Variant,
		State:          c.enc.State().String(),
		Connected:      c.connected,
		AudioStreaming: c.enc.AudioStreaming(),
	}
	if m := c.enc.Mode(); m != nil {
		st.Mode = m.Name
		st.PixelClockHz = m.PixelRate()
	}
	return st
}

// ModeInfo describes one entry of the mode table for the API.
type ModeInfo struct {
	Name       string `json:"name"`
	ClockKHz   int    `json:"clock_khz"`
	Refresh    int    `json:"refresh"`
	Interlaced bool   `json:"interlaced"`
	VIC        byte   `json:"vic,omitempty"`
	Supported  bool   `json:"supported"`
}

// Modes lists every known mode and whether this variant can drive it.
func (c *Controller) Modes() []ModeInfo {
	out := make([]ModeInfo, 0, len(mode.Table))
	for i := range mode.Table {
		m := &mode.Table[i]
		out = append(out, ModeInfo{
			Name:       m.Name,
			ClockKHz:   m.Clock,
			Refresh:    m.VRefresh(),
			Interlaced: m.Interlaced(),
			VIC:        m.VIC,
			Supported:  c.enc.ModeValid(m) == nil,
		})
	}
	return out
}

// Enable brings the output up with the named mode, or with the configured
// preferred mode when name is empty.
func (c *Controller) Enable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enableLocked(name)
}

func (c *Controller) enableLocked(name string) error {
	if name == "" {
		name = c.cfg.PreferredMode
	}
	m, err := mode.Lookup(name)
	if err != nil {
		metrics.EnablesTotal.WithLabelValues("error").Inc()
		return err
	}

	c.enc.SetSink(c.sinkLocked())
	if err := c.enc.Enable(m); err != nil {
		metrics.EnablesTotal.WithLabelValues("error").Inc()
		c.syncMetricsLocked()
		return err
	}

	metrics.EnablesTotal.WithLabelValues("ok").Inc()
	c.syncMetricsLocked()
	c.publishLocked(events.KindState)
	return nil
}

// Disable tears the output down. Idempotent.
func (c *Controller) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disableLocked()
}

func (c *Controller) disableLocked() {
	if !c.enc.State().Active() {
		return
	}
	c.enc.Disable()
	c.syncMetricsLocked()
	c.publishLocked(events.KindState)
}

// PrepareAudio configures the audio path for a stream.
func (c *Controller) PrepareAudio(p encoder.AudioParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc.PrepareAudio(p)
}

// StartAudio starts the prepared stream.
func (c *Controller) StartAudio() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enc.StartAudio(); err != nil {
		return err
	}
	c.syncMetricsLocked()
	c.publishLocked(events.KindAudio)
	return nil
}

// StopAudio stops a running stream. Idempotent.
func (c *Controller) StopAudio() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enc.AudioStreaming() {
		return
	}
	c.enc.StopAudio()
	c.syncMetricsLocked()
	c.publishLocked(events.KindAudio)
}

// ResetAudio tears the audio path down completely, including the audio
// infoframe slot.
func (c *Controller) ResetAudio() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enc.ResetAudio()
	c.syncMetricsLocked()
	c.publishLocked(events.KindAudio)
}

// ReadPacket returns the raw packet RAM contents for an infoframe type, for
// the debug API.
func (c *Controller) ReadPacket(t infoframe.Type) []byte {
	return c.enc.ReadPacket(t)
}

// HandleHotplug reacts to a debounced cable event: connect enables the
// preferred mode, disconnect tears the output down. Wired as the hotplug
// monitor's callback.
func (c *Controller) HandleHotplug(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = connected
	if connected {
		metrics.HotplugEventsTotal.WithLabelValues("connect").Inc()
	} else {
		metrics.HotplugEventsTotal.WithLabelValues("disconnect").Inc()
	}
	c.publishLocked(events.KindHotplug)

	if connected {
		if c.cfg.PreferredMode == "" {
			c.log.Info("sink connected, no preferred mode configured")
			return
		}
		if err := c.enableLocked(""); err != nil {
			c.log.Error("failed to enable output on connect",
				"mode", c.cfg.PreferredMode, "err", err)
		}
	} else {
		c.disableLocked()
	}
}

// ApplyConfig takes a freshly loaded configuration, typically from the file
// watcher. Margins, SPD and sink capabilities are applied immediately but
// only take effect at the next modeset; the variant cannot change at
// runtime.
func (c *Controller) ApplyConfig(cfg config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg.Variant != c.cfg.Variant {
		c.log.Warn("variant change requires a restart",
			"running", c.cfg.Variant, "configured", cfg.Variant)
		cfg.Variant = c.cfg.Variant
	}
	c.cfg = cfg
	c.applyConfigLocked(cfg)
	c.log.Info("configuration applied", "preferred_mode", cfg.PreferredMode)
}

func (c *Controller) applyConfigLocked(cfg config.Config) {
	c.enc.SetMargins(encoder.Margins{
		Top:    cfg.Margins.Top,
		Bottom: cfg.Margins.Bottom,
		Left:   cfg.Margins.Left,
		Right:  cfg.Margins.Right,
	})
	c.enc.SetProduct(cfg.SPD.Vendor, cfg.SPD.Product)
	c.enc.SetSink(c.sinkLocked())
}

func (c *Controller) sinkLocked() encoder.Sink {
	return encoder.Sink{
		HDMI:         !c.cfg.ForceDVI,
		SpeakerAlloc: c.cfg.Audio.SpeakerAlloc,
	}
}

func (c *Controller) publishLocked(kind events.Kind) {
	st := c.statusLocked()
	c.bus.Publish(events.Event{
		Kind:           kind,
		State:          st.State,
		Mode:           st.Mode,
		Connected:      st.Connected,
		AudioStreaming: st.AudioStreaming,
	})
}

func (c *Controller) syncMetricsLocked() {
	metrics.EncoderState.Set(float64(c.enc.State()))
	var pixel float64
	if m := c.enc.Mode(); m != nil {
		pixel = float64(m.PixelRate())
	}
	metrics.PixelClockHz.Set(pixel)
	var streaming float64
	if c.enc.AudioStreaming() {
		streaming = 1
	}
	metrics.AudioStreaming.Set(streaming)
}
