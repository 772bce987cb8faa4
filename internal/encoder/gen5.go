package encoder

import (
	"github.com/pimedia/hdmilink/internal/mode"
	"github.com/pimedia/hdmilink/internal/regmap"
)

// gen5 is the BCM2711 encoder: register islands per instance, an external
// reset line, a standalone CSC block and the VEC crossbar in the video path.
type gen5 struct{}

func (gen5) reset(e *Encoder) {
	if e.reset != nil {
		e.reset.Reset()
	}
	e.wr(regmap.DVPCtl, regmap.G5DVPCtlInit)
}

func (gen5) setTimings(e *Encoder, m *mode.Mode) {
	hsyncPos := m.Flags&mode.PHSync != 0
	vsyncPos := m.Flags&mode.PVSync != 0
	rep := uint32(m.PixelRepeat())
	ft := m.FieldTiming()

	var interlaced uint32
	if m.Interlaced() {
		interlaced = 1
	}

	verta := regmap.Field(uint32(ft.VSyncEnd-ft.VSyncStart), regmap.G5VertAVSPMask, regmap.G5VertAVSPShift) |
		regmap.Field(uint32(ft.VSyncStart-ft.VDisplay), regmap.G5VertAVFPMask, regmap.G5VertAVFPShift) |
		regmap.Field(uint32(ft.VDisplay), regmap.G5VertAVALMask, regmap.G5VertAVALShift)
	vertb := regmap.Field(0, regmap.G5VertBVSPOMask, regmap.G5VertBVSPOShift) |
		regmap.Field(uint32(ft.VTotal-ft.VSyncEnd), regmap.G5VertBVBPMask, regmap.G5VertBVBPShift)
	vertbEven := regmap.Field(0, regmap.G5VertBVSPOMask, regmap.G5VertBVSPOShift) |
		regmap.Field(uint32(ft.VTotal-ft.VSyncEnd)-interlaced, regmap.G5VertBVBPMask, regmap.G5VertBVBPShift)

	e.wr(regmap.VecInterfaceXbar, regmap.G5VecInterfaceXbarValue)

	// This generation folds the horizontal front porch into HORZA.
	horza := regmap.Field(uint32(m.HDisplay)*rep, regmap.G5HorzAHAPMask, 0) |
		regmap.Field(uint32(m.HSyncStart-m.HDisplay)*rep, regmap.G5HorzAHFPMask, regmap.G5HorzAHFPShift)
	if vsyncPos {
		horza |= regmap.G5HorzAVPosActive
	}
	if hsyncPos {
		horza |= regmap.G5HorzAHPosActive
	}
	e.wr(regmap.HorzA, horza)

	e.wr(regmap.HorzB,
		regmap.Field(uint32(m.HTotal-m.HSyncEnd)*rep, regmap.G5HorzBHBPMask, regmap.G5HorzBHBPShift)|
			regmap.Field(uint32(m.HSyncEnd-m.HSyncStart)*rep, regmap.G5HorzBHSPMask, regmap.G5HorzBHSPShift))

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

	e.wr(regmap.ClockStop, 0)
}

func (gen5) cscSetup(e *Encoder, enable bool) {
	// Matrix is signed 2p13 fixed point, with signed 9p6 offsets.
	if enable {
		// Squash 0-255 down to 16-235:
		//
		//	[ 0.8594 0      0      16 ]
		//	[ 0      0.8594 0      16 ]
		//	[ 0      0      0.8594 16 ]
		//	[ 0      0      0       1 ]
		e.wr(regmap.CSC12_11, (0x0000<<16)|0x1b80)
		e.wr(regmap.CSC14_13, (0x0400<<16)|0x0000)
		e.wr(regmap.CSC22_21, (0x1b80<<16)|0x0000)
		e.wr(regmap.CSC24_23, (0x0400<<16)|0x0000)
		e.wr(regmap.CSC32_31, (0x0000<<16)|0x0000)
		e.wr(regmap.CSC34_33, (0x0400<<16)|0x1b80)
	} else {
		// Full range still goes through the matrix, as unity.
		e.wr(regmap.CSC12_11, (0x0000<<16)|0x2000)
		e.wr(regmap.CSC14_13, (0x0000<<16)|0x0000)
		e.wr(regmap.CSC22_21, (0x2000<<16)|0x0000)
		e.wr(regmap.CSC24_23, (0x0000<<16)|0x0000)
		e.wr(regmap.CSC32_31, (0x0000<<16)|0x0000)
		e.wr(regmap.CSC34_33, (0x0000<<16)|0x2000)
	}

	e.wr(regmap.CSCCtl, regmap.G5CSCCtlMode)
}

func (gen5) calcHSMRate(pixelRate uint64) uint64 {
	// The HSM rate needs to be slightly greater than the pixel clock,
	// with a minimum of 108 MHz. 101% is what the firmware uses.
	rate := pixelRate / 100 * 101
	if rate < 108000000 {
		return 108000000
	}
	return rate
}

func (gen5) hsmRate(e *Encoder) uint64 {
	return 108000000
}

func (gen5) channelMap(mask uint32) uint32 {
	var m uint32
	for i := uint32(0); i < 8; i++ {
		if mask&(1<<i) != 0 {
			m |= i << (4 * i)
		}
	}
	return m
}
