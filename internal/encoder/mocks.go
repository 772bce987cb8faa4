package encoder

import (
	"sync"

	"github.com/pimedia/hdmilink/internal/mode"
)

// MockClocks is an in-memory Clocks implementation with fail injection for
// tests and for running the daemon without hardware.
type MockClocks struct {
	mu      sync.Mutex
	rates   map[ClockID]uint64
	enabled map[ClockID]int

	FailSetRate map[ClockID]error
	FailEnable  map[ClockID]error
}

func NewMockClocks() *MockClocks {
	return &MockClocks{
		rates:   make(map[ClockID]uint64),
		enabled: make(map[ClockID]int),
	}
}

func (c *MockClocks) SetRate(id ClockID, hz uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailSetRate[id]; err != nil {
		return err
	}
	c.rates[id] = hz
	return nil
}

func (c *MockClocks) Enable(id ClockID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailEnable[id]; err != nil {
		return err
	}
	c.enabled[id]++
	return nil
}

func (c *MockClocks) Disable(id ClockID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled[id]--
}

func (c *MockClocks) Rate(id ClockID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rates[id]
}

// Enabled reports whether the clock's enable count is positive.
func (c *MockClocks) Enabled(id ClockID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled[id] > 0
}

// Balanced reports whether every Enable was matched by a Disable.
func (c *MockClocks) Balanced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.enabled {
		if n != 0 {
			return false
		}
	}
	return true
}

// MockPower tracks power domain reference counting.
type MockPower struct {
	mu    sync.Mutex
	count int

	FailAcquire error
	FailRelease error
}

func (p *MockPower) Acquire() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailAcquire != nil {
		return p.FailAcquire
	}
	p.count++
	return nil
}

func (p *MockPower) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailRelease != nil {
		return p.FailRelease
	}
	p.count--
	return nil
}

// Held returns the current acquisition count.
func (p *MockPower) Held() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// MockPHY records transmitter state.
type MockPHY struct {
	mu      sync.Mutex
	running bool
	rng     bool

	FailInit error
}

func (p *MockPHY) Init(m *mode.Mode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailInit != nil {
		return p.FailInit
	}
	p.running = true
	return nil
}

func (p *MockPHY) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}

func (p *MockPHY) RNGEnable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rng = true
}

func (p *MockPHY) RNGDisable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rng = false
}

func (p *MockPHY) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *MockPHY) RNGRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng
}

// MockReset counts reset pulses.
type MockReset struct {
	mu     sync.Mutex
	pulses int
}

func (r *MockReset) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulses++
}

func (r *MockReset) Pulses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pulses
}
