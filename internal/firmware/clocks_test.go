package firmware

import (
	"errors"
	"testing"

	"github.com/pimedia/hdmilink/internal/encoder"
)

type call struct {
	tag  uint32
	args []uint32
}

func fakeProp(calls *[]call, fail error) propertyFunc {
	return func(tag uint32, args []uint32, respWords int) ([]uint32, error) {
		*calls = append(*calls, call{tag, append([]uint32(nil), args...)})
		if fail != nil {
			return nil, fail
		}
		return make([]uint32, respWords), nil
	}
}

func TestClocksMappedSetRate(t *testing.T) {
	var calls []call
	c := &Clocks{
		prop:  fakeProp(&calls, nil),
		ids:   map[encoder.ClockID]uint32{encoder.ClockPixel: ClockPixelBVB},
		rates: make(map[encoder.ClockID]uint64),
	}

	if err := c.SetRate(encoder.ClockPixel, 148500000); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0].tag != tagSetClockRate {
		t.Fatalf("calls = %+v", calls)
	}
	if calls[0].args[0] != ClockPixelBVB || calls[0].args[1] != 148500000 {
		t.Errorf("args = %v", calls[0].args)
	}
	if got := c.Rate(encoder.ClockPixel); got != 148500000 {
		t.Errorf("Rate = %d", got)
	}
}

func TestClocksUnmappedIsSoftwareTracked(t *testing.T) {
	var calls []call
	c := &Clocks{
		prop:  fakeProp(&calls, nil),
		ids:   map[encoder.ClockID]uint32{},
		rates: make(map[encoder.ClockID]uint64),
	}

	// The firmware keeps the HSM going; we only remember the rate.
	if err := c.SetRate(encoder.ClockHSM, 163682864); err != nil {
		t.Fatal(err)
	}
	if err := c.Enable(encoder.ClockHSM); err != nil {
		t.Fatal(err)
	}
	c.Disable(encoder.ClockHSM)

	if len(calls) != 0 {
		t.Errorf("unexpected mailbox traffic: %+v", calls)
	}
	if got := c.Rate(encoder.ClockHSM); got != 163682864 {
		t.Errorf("Rate = %d", got)
	}
}

func TestClocksPropagatesFailure(t *testing.T) {
	var calls []call
	boom := errors.New("firmware unhappy")
	c := &Clocks{
		prop:  fakeProp(&calls, boom),
		ids:   map[encoder.ClockID]uint32{encoder.ClockPixel: ClockPixel},
		rates: make(map[encoder.ClockID]uint64),
	}

	if err := c.SetRate(encoder.ClockPixel, 1); !errors.Is(err, boom) {
		t.Errorf("SetRate err = %v", err)
	}
	if err := c.Enable(encoder.ClockPixel); !errors.Is(err, boom) {
		t.Errorf("Enable err = %v", err)
	}
}

func TestPowerDomain(t *testing.T) {
	var calls []call
	p := &Power{prop: fakeProp(&calls, nil)}

	if err := p.Acquire(); err != nil {
		t.Fatal(err)
	}
	if err := p.Release(); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 {
		t.Fatalf("calls = %+v", calls)
	}
	if calls[0].args[1] != 1 || calls[1].args[1] != 0 {
		t.Errorf("domain states = %v, %v", calls[0].args, calls[1].args)
	}
}
