package firmware

import (
	"fmt"
	"sync"

	"github.com/pimedia/hdmilink/internal/encoder"
)

// Firmware clock ids for the property channel.
const (
	ClockPixel    = 9  // gen4 pixel clock
	ClockPixelBVB = 14 // gen5 pixel valve B clock, feeds the HDMI islands
)

// domainHDMI is the firmware power domain covering the HDMI core.
const domainHDMI = 6

// propertyFunc is the mailbox call shape, extracted so tests can fake it.
type propertyFunc func(tag uint32, args []uint32, respWords int) ([]uint32, error)

// Clocks drives the firmware-owned clocks through the property channel.
// Clock ids without a firmware mapping (the HSM, which the firmware keeps
// running on its own) are tracked locally so Rate still answers.
type Clocks struct {
	prop propertyFunc
	ids  map[encoder.ClockID]uint32

	mu    sync.Mutex
	rates map[encoder.ClockID]uint64
}

// NewClocks builds a Clocks over the mailbox. ids maps the encoder's clock
// names to firmware clock ids; unmapped clocks are software-tracked only.
func NewClocks(c *Client, ids map[encoder.ClockID]uint32) *Clocks {
	return &Clocks{
		prop:  c.Property,
		ids:   ids,
		rates: make(map[encoder.ClockID]uint64),
	}
}

func (c *Clocks) SetRate(id encoder.ClockID, hz uint64) error {
	if fw, ok := c.ids[id]; ok {
		// Third argument: skip turbo setting.
		_, err := c.prop(tagSetClockRate, []uint32{fw, uint32(hz), 1}, 2)
		if err != nil {
			return fmt.Errorf("set %s rate: %w", id, err)
		}
	}
	c.mu.Lock()
	c.rates[id] = hz
	c.mu.Unlock()
	return nil
}

func (c *Clocks) Enable(id encoder.ClockID) error {
	fw, ok := c.ids[id]
	if !ok {
		return nil
	}
	if _, err := c.prop(tagSetClockState, []uint32{fw, 1}, 2); err != nil {
		return fmt.Errorf("enable %s: %w", id, err)
	}
	return nil
}

func (c *Clocks) Disable(id encoder.ClockID) {
	if fw, ok := c.ids[id]; ok {
		_, _ = c.prop(tagSetClockState, []uint32{fw, 0}, 2)
	}
}

func (c *Clocks) Rate(id encoder.ClockID) uint64 {
	c.mu.Lock()
	if hz, ok := c.rates[id]; ok {
		c.mu.Unlock()
		return hz
	}
	c.mu.Unlock()

	fw, ok := c.ids[id]
	if !ok {
		return 0
	}
	resp, err := c.prop(tagGetClockRate, []uint32{fw, 0}, 2)
	if err != nil {
		return 0
	}
	return uint64(resp[1])
}

// Power holds the HDMI power domain up through the firmware.
type Power struct {
	prop propertyFunc
}

func NewPower(c *Client) *Power {
	return &Power{prop: c.Property}
}

func (p *Power) Acquire() error {
	if _, err := p.prop(tagSetDomainState, []uint32{domainHDMI, 1}, 2); err != nil {
		return fmt.Errorf("power on HDMI domain: %w", err)
	}
	return nil
}

func (p *Power) Release() error {
	if _, err := p.prop(tagSetDomainState, []uint32{domainHDMI, 0}, 2); err != nil {
		return fmt.Errorf("power off HDMI domain: %w", err)
	}
	return nil
}
