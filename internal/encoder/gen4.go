package encoder

import (
	"github.com/pimedia/hdmilink/internal/mode"
	"github.com/pimedia/hdmilink/internal/regmap"
)

// gen4 is the BCM2835 encoder: a single core/HD register pair, software
// reset via the core block, CSC in the HD block.
type gen4 struct{}

func (gen4) reset(e *Encoder) {
	e.wr(regmap.SWResetControl, regmap.SWResetHDMI|regmap.SWResetFormatDetect)
	e.wr(regmap.SWResetControl, 0)
}

func (gen4) setTimings(e *Encoder, m *mode.Mode) {
	hsyncPos := m.Flags&mode.PHSync != 0
	vsyncPos := m.Flags&mode.PVSync != 0
	rep := uint32(m.PixelRepeat())
	ft := m.FieldTiming()

	var interlaced uint32
	if m.Interlaced() {
		interlaced = 1
	}

	verta := regmap.Field(uint32(ft.VSyncEnd-ft.VSyncStart), regmap.G4VertAVSPMask, regmap.G4VertAVSPShift) |
		regmap.Field(uint32(ft.VSyncStart-ft.VDisplay), regmap.G4VertAVFPMask, regmap.G4VertAVFPShift) |
		regmap.Field(uint32(ft.VDisplay), regmap.G4VertAVALMask, regmap.G4VertAVALShift)
	vertb := regmap.Field(0, regmap.G4VertBVSPOMask, regmap.G4VertBVSPOShift) |
		regmap.Field(uint32(ft.VTotal-ft.VSyncEnd), regmap.G4VertBVBPMask, regmap.G4VertBVBPShift)
	// The even field of an interlaced frame is one line shorter.
	vertbEven := regmap.Field(0, regmap.G4VertBVSPOMask, regmap.G4VertBVSPOShift) |
		regmap.Field(uint32(ft.VTotal-ft.VSyncEnd)-interlaced, regmap.G4VertBVBPMask, regmap.G4VertBVBPShift)

	horza := regmap.Field(uint32(m.HDisplay)*rep, regmap.G4HorzAHAPMask, 0)
	if vsyncPos {
		horza |= regmap.G4HorzAVPosActive
	}
	if hsyncPos {
		horza |= regmap.G4HorzAHPosActive
	}
	e.wr(regmap.HorzA, horza)

	e.wr(regmap.HorzB,
		regmap.Field(uint32(m.HTotal-m.HSyncEnd)*rep, regmap.G4HorzBHBPMask, regmap.G4HorzBHBPShift)|
			regmap.Field(uint32(m.HSyncEnd-m.HSyncStart)*rep, regmap.G4HorzBHSPMask, regmap.G4HorzBHSPShift)|
			regmap.Field(uint32(m.HSyncStart-m.HDisplay)*rep, regmap.G4HorzBHFPMask, regmap.G4HorzBHFPShift))

	e.wr(regmap.VertA0, verta)
	e.wr(regmap.VertA1, verta)
	e.wr(regmap.VertB0, vertbEven)
	e.wr(regmap.VertB1, vertb)

	var vidCtl uint32
	if !vsyncPos {
		vidCtl |= regmap.VidCtlVSyncLow
	}
	if !hsyncPos {
		vidCtl |= regmap.VidCtlHSyncLow
	}
	e.wr(regmap.VidCtl, vidCtl)
}

func (gen4) cscSetup(e *Encoder, enable bool) {
	cscCtl := regmap.Field(regmap.CSCCtlOrderBGR, regmap.CSCCtlOrderMask, regmap.CSCCtlOrderShift)

	if enable {
		// CEA VICs other than 1 require limited range RGB output
		// unless overridden by an AVI infoframe. Apply a colorspace
		// conversion to squash 0-255 down to 16-235. The matrix here
		// is:
		//
		//	[ 0      0      0.8594 16 ]
		//	[ 0      0.8594 0      16 ]
		//	[ 0.8594 0      0      16 ]
		//	[ 0      0      0       1 ]
		cscCtl |= regmap.CSCCtlEnable | regmap.CSCCtlRGB2YCC |
			regmap.Field(regmap.CSCCtlModeCustom, regmap.CSCCtlModeMask, regmap.CSCCtlModeShift)

		e.wr(regmap.CSC12_11, (0x000<<16)|0x000)
		e.wr(regmap.CSC14_13, (0x100<<16)|0x6e0)
		e.wr(regmap.CSC22_21, (0x6e0<<16)|0x000)
		e.wr(regmap.CSC24_23, (0x100<<16)|0x000)
		e.wr(regmap.CSC32_31, (0x000<<16)|0x6e0)
		e.wr(regmap.CSC34_33, (0x100<<16)|0x000)
	}

	// The RGB order applies even when the CSC is disabled.
	e.wr(regmap.CSCCtl, cscCtl)
}

func (gen4) calcHSMRate(pixelRate uint64) uint64 {
	// The firmware runs the HSM at a fixed rate a little above the
	// highest supported pixel clock.
	return hsmClockBCM2835
}

func (gen4) hsmRate(e *Encoder) uint64 {
	return e.clocks.Rate(ClockHSM)
}

func (gen4) channelMap(mask uint32) uint32 {
	var m uint32
	for i := uint32(0); i < 8; i++ {
		if mask&(1<<i) != 0 {
			m |= i << (3 * i)
		}
	}
	return m
}
