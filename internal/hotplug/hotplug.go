// Package hotplug watches for HDMI cable connect and disconnect.
//
// Three sources are supported, picked per platform: the encoder's own
// hotplug register, an HPD GPIO, and DRM uevents from the kernel. All of
// them funnel through a Monitor that debounces the line, which bounces
// mechanically when a cable is seated.
package hotplug

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Source delivers raw connect-state reports. Implementations block in Run
// until ctx is cancelled and may report the same state repeatedly.
type Source interface {
	Name() string
	Run(ctx context.Context, report func(connected bool)) error
}

// debounceInterval is how fast state changes are let through. HPD lines
// glitch for tens of milliseconds when a plug is seated.
const debounceInterval = 500 * time.Millisecond

// Monitor debounces a Source and delivers deduplicated transitions.
type Monitor struct {
	src      Source
	limiter  *rate.Limiter
	onChange func(connected bool)
	log      *slog.Logger
}

func NewMonitor(src Source, log *slog.Logger, onChange func(connected bool)) *Monitor {
	return &Monitor{
		src:      src,
		limiter:  rate.NewLimiter(rate.Every(debounceInterval), 1),
		onChange: onChange,
		log:      log,
	}
}

// Run pumps the source until ctx is cancelled. Reports arriving faster than
// the debounce interval are coalesced; only the latest state survives.
func (m *Monitor) Run(ctx context.Context) error {
	latest := make(chan bool, 1)
	report := func(connected bool) {
		for {
			select {
			case latest <- connected:
				return
			default:
				// Replace the stale pending state.
				select {
				case <-latest:
				default:
				}
			}
		}
	}

	errc := make(chan error, 1)
	go func() {
		errc <- m.src.Run(ctx, report)
	}()

	var have, last bool
	for {
		select {
		case <-ctx.Done():
			return <-errc
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("hotplug: source %s: %w", m.src.Name(), err)
			}
			return nil
		case connected := <-latest:
			if have && connected == last {
				continue
			}
			if err := m.limiter.Wait(ctx); err != nil {
				return <-errc
			}
			// The line may have moved again while we waited.
			select {
			case connected = <-latest:
			default:
			}
			if have && connected == last {
				continue
			}
			have, last = true, connected
			m.log.Info("hotplug", "source", m.src.Name(), "connected", connected)
			m.onChange(connected)
		}
	}
}

// RegisterSource polls a probe function, normally the encoder's hotplug
// register bit. It is the fallback when neither GPIO nor udev applies.
type RegisterSource struct {
	Probe    func() bool
	Interval time.Duration
}

func (s *RegisterSource) Name() string { return "register" }

func (s *RegisterSource) Run(ctx context.Context, report func(bool)) error {
	interval := s.Interval
	if interval == 0 {
		interval = 250 * time.Millisecond
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	report(s.Probe())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			report(s.Probe())
		}
	}
}
