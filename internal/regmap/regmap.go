// Package regmap holds the register layouts for the supported HDMI hardware
// generations. Each generation addresses the same logical registers at
// different (block, offset) locations; the encoder resolves every access
// through a Layout so no call site hard-codes a physical address.
package regmap

import "github.com/pimedia/hdmilink/internal/hw"

// Reg names a logical register. Not every generation implements every
// register; Layout.Lookup reports whether one exists.
type Reg int

const (
	// Core block.
	SWResetControl Reg = iota
	Hotplug
	FIFOCtl
	MAIChannelMap
	MAIConfig
	AudioPacketConfig
	RAMPacketConfig
	RAMPacketStatus
	CRPCfg
	CTS0
	CTS1
	SchedulerControl
	HorzA
	HorzB
	VertA0
	VertB0
	VertA1
	VertB1
	CECControl1
	VecInterfaceXbar
	ClockStop

	// HD block.
	MCtl
	MAICtl
	MAIThr
	MAIFmt
	MAIData
	MAISmp
	VidCtl

	// CSC (HD block on gen4, its own island on gen5).
	CSCCtl
	CSC12_11
	CSC14_13
	CSC22_21
	CSC24_23
	CSC32_31
	CSC34_33

	// DVP glue (gen5 only).
	DVPCtl

	// Transmitter PHY (gen4 only; the gen5 PHY is firmware-managed).
	TXPHYResetCtl
	TXPHYCtl0

	// Packet RAM. RAMPacketStart is the base of slot 0; slots are laid out
	// every PacketStride bytes.
	RAMPacketStart

	numRegs
)

var regNames = [numRegs]string{
	"SW_RESET_CONTROL", "HOTPLUG", "FIFO_CTL", "MAI_CHANNEL_MAP", "MAI_CONFIG",
	"AUDIO_PACKET_CONFIG", "RAM_PACKET_CONFIG", "RAM_PACKET_STATUS", "CRP_CFG",
	"CTS_0", "CTS_1", "SCHEDULER_CONTROL", "HORZA", "HORZB", "VERTA0", "VERTB0",
	"VERTA1", "VERTB1", "CEC_CNTRL_1", "VEC_INTERFACE_XBAR", "CLOCK_STOP",
	"M_CTL", "MAI_CTL", "MAI_THR", "MAI_FMT", "MAI_DATA", "MAI_SMP", "VID_CTL",
	"CSC_CTL", "CSC_12_11", "CSC_14_13", "CSC_22_21", "CSC_24_23", "CSC_32_31",
	"CSC_34_33", "DVP_CTL", "TX_PHY_RESET_CTL", "TX_PHY_CTL_0", "RAM_PACKET_START",
}

func (r Reg) String() string {
	if r < 0 || r >= numRegs {
		return "invalid"
	}
	return regNames[r]
}

// PacketStride is the spacing of packet RAM slots in bytes: 9 data words
// (31 bytes of a CEA-861 packet, word-packed) padded to the next slot.
const PacketStride = 0x24

type loc struct {
	block  hw.Block
	offset uint32
	ok     bool
}

// Layout maps logical registers to (block, offset) pairs for one hardware
// instance, and records where each block sits in physical address space.
type Layout struct {
	regs    [numRegs]loc
	windows map[hw.Block]hw.Window
}

// Lookup resolves a logical register. ok is false when this generation has no
// such register.
func (l *Layout) Lookup(r Reg) (hw.Block, uint32, bool) {
	if r < 0 || r >= numRegs {
		return 0, 0, false
	}
	e := l.regs[r]
	return e.block, e.offset, e.ok
}

// Has reports whether the layout defines the register.
func (l *Layout) Has(r Reg) bool {
	_, _, ok := l.Lookup(r)
	return ok
}

// Windows returns the physical windows to map for this instance.
func (l *Layout) Windows() map[hw.Block]hw.Window {
	return l.windows
}

func (l *Layout) set(r Reg, b hw.Block, offset uint32) {
	l.regs[r] = loc{b, offset, true}
}
