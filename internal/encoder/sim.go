package encoder

import (
	"github.com/pimedia/hdmilink/internal/hw"
	"github.com/pimedia/hdmilink/internal/regmap"
)

// Simulator is a mock bus that reacts like the hardware's status logic:
// the scheduler acknowledges HDMI/DVI mode switches, the FIFO completes
// recenter pulses and the packet engine mirrors enabled slots into the
// status register. It backs the daemon's --mock mode and the package tests.
type Simulator struct {
	Bus    *hw.Mock
	layout *regmap.Layout
}

func NewSimulator(v *Variant) *Simulator {
	s := &Simulator{
		Bus:    hw.NewMock(),
		layout: v.Layout,
	}

	schedBlk, schedOff, _ := s.layout.Lookup(regmap.SchedulerControl)
	fifoBlk, fifoOff, _ := s.layout.Lookup(regmap.FIFOCtl)
	cfgBlk, cfgOff, _ := s.layout.Lookup(regmap.RAMPacketConfig)
	stBlk, stOff, _ := s.layout.Lookup(regmap.RAMPacketStatus)

	s.Bus.OnWrite = func(b hw.Block, off uint32, val uint32, poke func(hw.Block, uint32, uint32)) {
		switch {
		case b == schedBlk && off == schedOff:
			if val&regmap.SchedCtlModeHDMI != 0 {
				poke(b, off, val|regmap.SchedCtlHDMIActive)
			} else {
				poke(b, off, val&^uint32(regmap.SchedCtlHDMIActive))
			}
		case b == fifoBlk && off == fifoOff:
			if val&regmap.FIFOCtlRecenter != 0 {
				poke(b, off, val|regmap.FIFOCtlRecenterDone)
			}
		case b == cfgBlk && off == cfgOff:
			// Slot bits live below the enable bit; with the RAM off
			// nothing transmits.
			status := uint32(0)
			if val&regmap.RAMPacketEnable != 0 {
				status = val &^ uint32(regmap.RAMPacketEnable)
			}
			poke(stBlk, stOff, status)
		}
	}
	return s
}

// SetConnected drives the hotplug register bit.
func (s *Simulator) SetConnected(connected bool) {
	b, off, _ := s.layout.Lookup(regmap.Hotplug)
	if connected {
		s.Bus.Poke(b, off, regmap.HotplugConnected)
	} else {
		s.Bus.Poke(b, off, 0)
	}
}
