package encoder

import (
	"fmt"
	"time"

	"github.com/pimedia/hdmilink/internal/metrics"
)

// poll waits for cond to become true, checking every interval until timeout.
// The condition is checked once more after the deadline so a slow scheduler
// cannot miss a state that did arrive in time.
func poll(timeout, interval time.Duration, cond func() bool) error {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return nil
		}
		if time.Now().After(deadline) {
			if cond() {
				return nil
			}
			return ErrTimeout
		}
		time.Sleep(interval)
	}
}

// pollReg waits for the masked bits of a register read to equal want.
func (e *Encoder) pollReg(timeout time.Duration, read func() uint32, mask, want uint32, what string) error {
	err := poll(timeout, 100*time.Microsecond, func() bool {
		return read()&mask == want
	})
	if err != nil {
		metrics.PollTimeoutsTotal.Inc()
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
