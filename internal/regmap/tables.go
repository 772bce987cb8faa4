package regmap

import "github.com/pimedia/hdmilink/internal/hw"

// BCM2835 exposes two islands: the HDMI core at 0x7e902000 and the shared HD
// block at 0x7e808000 (ARM physical 0x3f902000 / 0x3f808000 on Pi 2/3).
func newBCM2835() *Layout {
	l := &Layout{
		windows: map[hw.Block]hw.Window{
			hw.BlockCore: {Base: 0x3f902000, Size: 0x600},
			hw.BlockHD:   {Base: 0x3f808000, Size: 0x100},
		},
	}

	core := func(r Reg, off uint32) { l.set(r, hw.BlockCore, off) }
	hd := func(r Reg, off uint32) { l.set(r, hw.BlockHD, off) }

	core(SWResetControl, 0x004)
	core(Hotplug, 0x00c)
	core(FIFOCtl, 0x05c)
	core(MAIChannelMap, 0x090)
	core(MAIConfig, 0x094)
	core(AudioPacketConfig, 0x09c)
	core(RAMPacketConfig, 0x0a0)
	core(RAMPacketStatus, 0x0a4)
	core(CRPCfg, 0x0a8)
	core(CTS0, 0x0ac)
	core(CTS1, 0x0b0)
	core(SchedulerControl, 0x0c0)
	core(HorzA, 0x0c4)
	core(HorzB, 0x0c8)
	core(VertA0, 0x0cc)
	core(VertB0, 0x0d0)
	core(VertA1, 0x0d4)
	core(VertB1, 0x0d8)
	core(CECControl1, 0x0e8)
	core(TXPHYResetCtl, 0x2c0)
	core(TXPHYCtl0, 0x2c4)
	core(RAMPacketStart, 0x400)

	hd(MCtl, 0x00c)
	hd(MAICtl, 0x014)
	hd(MAIThr, 0x018)
	hd(MAIFmt, 0x01c)
	hd(MAIData, 0x020)
	hd(MAISmp, 0x02c)
	hd(VidCtl, 0x038)
	hd(CSCCtl, 0x040)
	hd(CSC12_11, 0x044)
	hd(CSC14_13, 0x048)
	hd(CSC22_21, 0x04c)
	hd(CSC24_23, 0x050)
	hd(CSC32_31, 0x054)
	hd(CSC34_33, 0x058)

	return l
}

// BCM2711 splits the encoder into small islands per instance. Bases are the
// ARM physical addresses in low peripheral mode (bus 0x7efxxxxx maps to
// 0xfefxxxxx). The two instances share the register layout and differ only in
// window bases.
func newBCM2711(core, csc, dvp, phy, ram, rm, cec, hd uint64) *Layout {
	l := &Layout{
		windows: map[hw.Block]hw.Window{
			hw.BlockCore: {Base: core, Size: 0x800},
			hw.BlockCSC:  {Base: csc, Size: 0x80},
			hw.BlockDVP:  {Base: dvp, Size: 0x80},
			hw.BlockPHY:  {Base: phy, Size: 0x80},
			hw.BlockRAM:  {Base: ram, Size: 0x400},
			hw.BlockRM:   {Base: rm, Size: 0x80},
			hw.BlockCEC:  {Base: cec, Size: 0x100},
			hw.BlockHD:   {Base: hd, Size: 0x40},
		},
	}

	c := func(r Reg, off uint32) { l.set(r, hw.BlockCore, off) }

	c(Hotplug, 0x1a8)
	c(FIFOCtl, 0x074)
	c(SchedulerControl, 0x08c)
	c(HorzA, 0x090)
	c(HorzB, 0x094)
	c(VertA0, 0x098)
	c(VertB0, 0x09c)
	c(VertA1, 0x0a0)
	c(VertB1, 0x0a4)
	c(RAMPacketConfig, 0x0b0)
	c(RAMPacketStatus, 0x0b4)
	c(CRPCfg, 0x0b8)
	c(CTS0, 0x0bc)
	c(CTS1, 0x0c0)
	c(AudioPacketConfig, 0x0c8)
	c(MAIChannelMap, 0x0d0)
	c(MAIConfig, 0x0d4)
	c(VecInterfaceXbar, 0x0f0)
	c(ClockStop, 0x1b0)

	l.set(CECControl1, hw.BlockCEC, 0x010)

	l.set(MAICtl, hw.BlockHD, 0x010)
	l.set(MAIThr, hw.BlockHD, 0x014)
	l.set(MAIFmt, hw.BlockHD, 0x018)
	l.set(MAIData, hw.BlockHD, 0x01c)
	l.set(MAISmp, hw.BlockHD, 0x020)
	l.set(VidCtl, hw.BlockHD, 0x004)

	l.set(CSCCtl, hw.BlockCSC, 0x000)
	l.set(CSC12_11, hw.BlockCSC, 0x004)
	l.set(CSC14_13, hw.BlockCSC, 0x008)
	l.set(CSC22_21, hw.BlockCSC, 0x00c)
	l.set(CSC24_23, hw.BlockCSC, 0x010)
	l.set(CSC32_31, hw.BlockCSC, 0x014)
	l.set(CSC34_33, hw.BlockCSC, 0x018)

	l.set(DVPCtl, hw.BlockDVP, 0x000)
	l.set(RAMPacketStart, hw.BlockRAM, 0x000)

	return l
}

var (
	// BCM2835 is the single HDMI instance on Pi 0-3.
	BCM2835 = newBCM2835()

	// BCM2711HDMI0 and BCM2711HDMI1 are the two instances on Pi 4.
	BCM2711HDMI0 = newBCM2711(0xfef00700, 0xfef00200, 0xfef00300, 0xfef00f00, 0xfef01b00, 0xfef00f80, 0xfef04300, 0xfe2000c0)
	BCM2711HDMI1 = newBCM2711(0xfef05700, 0xfef05200, 0xfef05300, 0xfef05f00, 0xfef06b00, 0xfef05f80, 0xfef09300, 0xfe2000f0)
)
