package encoder

import (
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIOReset pulses an active-low reset line routed to a GPIO. Some carrier
// boards put an HDMI redriver behind one; the encoder pulses it during the
// enable sequence. The caller must have run host.Init.
type GPIOReset struct {
	pin gpio.PinIO
	// holdTime is how long the line is held low. The redrivers seen so
	// far need >300ns; 1ms gives generous margin.
	holdTime time.Duration
	// settleTime is the wait after release before register access resumes.
	settleTime time.Duration
	log        *slog.Logger
}

// NewGPIOReset opens the named pin (BCM numbering, e.g. "GPIO5") and parks
// it high, out of reset.
func NewGPIOReset(pinName string, log *slog.Logger) (*GPIOReset, error) {
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("encoder: no reset pin %s", pinName)
	}
	if err := pin.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("encoder: release reset %s: %w", pinName, err)
	}
	return &GPIOReset{
		pin:        pin,
		holdTime:   time.Millisecond,
		settleTime: 10 * time.Millisecond,
		log:        log,
	}, nil
}

// Reset asserts the line low, holds it, and releases it again. Errors from
// the pin driver are logged; the enable sequence carries on either way.
func (r *GPIOReset) Reset() {
	if err := r.pin.Out(gpio.Low); err != nil {
		r.log.Error("failed to assert reset line", "pin", r.pin.Name(), "err", err)
		return
	}
	time.Sleep(r.holdTime)
	if err := r.pin.Out(gpio.High); err != nil {
		r.log.Error("failed to release reset line", "pin", r.pin.Name(), "err", err)
		return
	}
	time.Sleep(r.settleTime)
	r.log.Debug("reset line pulsed", "pin", r.pin.Name())
}
