package hotplug

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIOSource reads the HPD line directly, for boards that route it to a
// GPIO instead of the encoder. The caller must have run host.Init.
type GPIOSource struct {
	// Pin is the BCM pin name, e.g. "GPIO46".
	Pin string

	pin gpio.PinIO
}

func (s *GPIOSource) Name() string { return "gpio:" + s.Pin }

func (s *GPIOSource) Run(ctx context.Context, report func(bool)) error {
	s.pin = gpioreg.ByName(s.Pin)
	if s.pin == nil {
		return fmt.Errorf("no pin %s", s.Pin)
	}
	if err := s.pin.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return fmt.Errorf("configure %s: %w", s.Pin, err)
	}

	report(s.pin.Read() == gpio.High)
	for {
		if ctx.Err() != nil {
			return nil
		}
		// The timeout bounds how long a shutdown can hang here.
		if s.pin.WaitForEdge(time.Second) {
			report(s.pin.Read() == gpio.High)
		}
	}
}
