package encoder

import (
	"fmt"

	"github.com/pimedia/hdmilink/internal/hw"
	"github.com/pimedia/hdmilink/internal/mode"
	"github.com/pimedia/hdmilink/internal/regmap"
)

// RegisterPHY drives the older generation's transmitter PHY through its
// core-block registers: a lane reset pulse to bring it up and the RNG
// power-down bit for the audio path.
type RegisterPHY struct {
	bus    hw.Bus
	layout *regmap.Layout
}

// NewRegisterPHY builds a PHY driver for variants that expose the TX PHY
// registers.
func NewRegisterPHY(bus hw.Bus, v *Variant) (*RegisterPHY, error) {
	if !v.Layout.Has(regmap.TXPHYResetCtl) {
		return nil, fmt.Errorf("encoder: %s has no register-driven PHY", v.Name)
	}
	return &RegisterPHY{bus: bus, layout: v.Layout}, nil
}

func (p *RegisterPHY) wr(r regmap.Reg, val uint32) {
	b, off, _ := p.layout.Lookup(r)
	p.bus.Write(b, off, val)
}

func (p *RegisterPHY) rd(r regmap.Reg) uint32 {
	b, off, _ := p.layout.Lookup(r)
	return p.bus.Read(b, off)
}

func (p *RegisterPHY) Init(m *mode.Mode) error {
	p.wr(regmap.TXPHYResetCtl, regmap.TXPHYResetAll)
	p.wr(regmap.TXPHYResetCtl, 0)
	return nil
}

func (p *RegisterPHY) Disable() {
	p.wr(regmap.TXPHYResetCtl, regmap.TXPHYResetAll)
}

func (p *RegisterPHY) RNGEnable() {
	p.wr(regmap.TXPHYCtl0, p.rd(regmap.TXPHYCtl0)&^uint32(regmap.TXPHYRNGPowerDown))
}

func (p *RegisterPHY) RNGDisable() {
	p.wr(regmap.TXPHYCtl0, p.rd(regmap.TXPHYCtl0)|regmap.TXPHYRNGPowerDown)
}

// NoopPHY is for the newer generation, where the firmware owns the PHY and
// keeps it configured for whatever mode the pixel clock runs at.
type NoopPHY struct{}

func (NoopPHY) Init(*mode.Mode) error { return nil }
func (NoopPHY) Disable()              {}
func (NoopPHY) RNGEnable()            {}
func (NoopPHY) RNGDisable()           {}
