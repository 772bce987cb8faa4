package regmap

// Mask builds a 32-bit mask covering bits hi..lo inclusive.
func Mask(hi, lo uint) uint32 {
	return (uint32(0xffffffff) >> (31 - hi + lo)) << lo
}

// Field shifts v into place and clips it to mask.
func Field(v uint32, mask uint32, shift uint) uint32 {
	return (v << shift) & mask
}

// GetField extracts a field from a register value.
func GetField(reg uint32, mask uint32, shift uint) uint32 {
	return (reg & mask) >> shift
}

// VID_CTL
const (
	VidCtlEnable            = 1 << 31
	VidCtlUnderflowEnable   = 1 << 30
	VidCtlFrameCounterReset = 1 << 29
	VidCtlVSyncLow          = 1 << 28
	VidCtlHSyncLow          = 1 << 27
)

// SCHEDULER_CONTROL
const (
	SchedCtlManualFormat        = 1 << 15
	SchedCtlIgnoreVSyncPredicts = 1 << 5
	SchedCtlVertAlwaysKeepout   = 1 << 3
	SchedCtlHDMIActive          = 1 << 1
	SchedCtlModeHDMI            = 1 << 0
)

// SW_RESET_CONTROL
const (
	SWResetHDMI         = 1 << 0
	SWResetFormatDetect = 1 << 1
)

// HOTPLUG
const HotplugConnected = 1 << 0

// M_CTL
const (
	MCtlSWReset = 1 << 2
	MCtlEnable  = 1 << 0
)

// FIFO_CTL
const (
	FIFOCtlMasterSlaveN = 1 << 0
	FIFOCtlRecenter     = 1 << 6
	FIFOCtlRecenterDone = 1 << 14

	// Bits of FIFO_CTL that are actual control state, as opposed to
	// read-only status. Used to detect drift before a recenter pulse.
	FIFOValidWriteMask = 0xefff
)

// RAM_PACKET_CONFIG
const RAMPacketEnable = 1 << 16

// MAI_CTL. DLATE/ERRORE/ERRORF are write-one-to-clear status bits.
const (
	MAICtlReset      = 1 << 0
	MAICtlFlush      = 1 << 1
	MAICtlEnable     = 1 << 3
	MAICtlWholSmp    = 1 << 8
	MAICtlChAlign    = 1 << 9
	MAICtlErrorF     = 1 << 12
	MAICtlErrorE     = 1 << 13
	MAICtlDLate      = 1 << 14
	MAICtlChNumShift = 4
)

var MAICtlChNumMask = Mask(7, 4)

// MAI_CONFIG
const (
	MAIConfigBitReverse    = 1 << 27
	MAIConfigFormatReverse = 1 << 26
	MAIChannelMaskShift    = 0
)

var MAIChannelMaskMask = Mask(15, 0)

// MAI_FMT
const (
	MAIFmtSampleRateShift  = 24
	MAIFmtAudioFormatShift = 16

	// Audio format codes for MAI_FMT.
	MAIFormatPCM = 2
	MAIFormatHBR = 200
)

var (
	MAIFmtSampleRateMask  = Mask(27, 24)
	MAIFmtAudioFormatMask = Mask(23, 16)
)

// MAI_THR FIFO watermark fields.
const (
	MAIThrPanicHighShift = 24
	MAIThrPanicLowShift  = 16
	MAIThrDREQHighShift  = 8
	MAIThrDREQLowShift   = 0
)

var (
	MAIThrPanicHighMask = Mask(31, 24)
	MAIThrPanicLowMask  = Mask(23, 16)
	MAIThrDREQHighMask  = Mask(15, 8)
	MAIThrDREQLowMask   = Mask(7, 0)
)

// MAI_SMP holds the N/M divider from the HSM clock to the MAI bus clock.
const (
	MAISmpNShift = 8
	MAISmpMShift = 0
)

var (
	MAISmpNMask = Mask(31, 8)
	MAISmpMMask = Mask(7, 0)
)

// AUDIO_PACKET_CONFIG
const (
	AudioPacketZeroDataOnSampleFlat       = 1 << 29
	AudioPacketZeroDataOnInactiveChannels = 1 << 24
	AudioPacketBFrameIdentifierShift      = 10
	AudioPacketCEAMaskShift               = 0
)

var (
	AudioPacketBFrameIdentifierMask = Mask(13, 10)
	AudioPacketCEAMaskMask          = Mask(7, 0)
)

// CRP_CFG
const (
	CRPCfgExternalCTSEnable = 1 << 24
	CRPCfgNShift            = 0
)

var CRPCfgNMask = Mask(19, 0)

// CSC_CTL (gen4). Gen5 programs its CSC_CTL with a raw mode word instead.
const (
	CSCCtlEnable     = 1 << 0
	CSCCtlRGB2YCC    = 1 << 1
	CSCCtlModeShift  = 2
	CSCCtlOrderShift = 5

	CSCCtlModeCustom = 3
	CSCCtlOrderBGR   = 3
)

var (
	CSCCtlModeMask  = Mask(3, 2)
	CSCCtlOrderMask = Mask(7, 5)
)

// CEC_CNTRL_1. The divider turns the CEC input clock into the 40 kHz bit
// clock; the address field set to all ones means unregistered.
const CECDivClkCntShift = 12

var (
	CECAddrMask      = Mask(29, 26)
	CECDivClkCntMask = Mask(25, 12)
)

// CECClockFreq is the CEC bit clock in Hz.
const CECClockFreq = 40000

// TX PHY (gen4).
const (
	// TXPHYResetAll holds every lane driver in reset.
	TXPHYResetAll = 0xf << 16

	// TXPHYRNGPowerDown gates the rate negotiation generator feeding the
	// audio sample clock.
	TXPHYRNGPowerDown = 1 << 4
)

// Gen4 timing words.
const (
	G4HorzAVPosActive = 1 << 13
	G4HorzAHPosActive = 1 << 12
	G4HorzBHBPShift   = 20
	G4HorzBHSPShift   = 10
	G4HorzBHFPShift   = 0
	G4VertAVSPShift   = 20
	G4VertAVFPShift   = 13
	G4VertAVALShift   = 0
	G4VertBVSPOShift  = 9
	G4VertBVBPShift   = 0
)

var (
	G4HorzAHAPMask = Mask(11, 0)
	G4HorzBHBPMask = Mask(29, 20)
	G4HorzBHSPMask = Mask(19, 10)
	G4HorzBHFPMask = Mask(9, 0)
	G4VertAVSPMask = Mask(24, 20)
	G4VertAVFPMask = Mask(19, 13)
	G4VertAVALMask = Mask(12, 0)
	G4VertBVSPOMask = Mask(20, 9)
	G4VertBVBPMask  = Mask(8, 0)
)

// Gen5 timing words. HFP moves into HORZA on this generation.
const (
	G5HorzAHFPShift   = 16
	G5HorzAVPosActive = 1 << 15
	G5HorzAHPosActive = 1 << 14
	G5HorzBHBPShift   = 16
	G5HorzBHSPShift   = 0
	G5VertAVSPShift   = 24
	G5VertAVFPShift   = 16
	G5VertAVALShift   = 0
	G5VertBVSPOShift  = 16
	G5VertBVBPShift   = 0
)

var (
	G5HorzAHFPMask = Mask(28, 16)
	G5HorzAHAPMask = Mask(13, 0)
	G5HorzBHBPMask = Mask(26, 16)
	G5HorzBHSPMask = Mask(10, 0)
	G5VertAVSPMask = Mask(28, 24)
	G5VertAVFPMask = Mask(22, 16)
	G5VertAVALMask = Mask(12, 0)
	G5VertBVSPOMask = Mask(29, 16)
	G5VertBVBPMask  = Mask(15, 0)
)

// Gen5 misc values.
const (
	G5VecInterfaceXbarValue = 0x354021
	G5CSCCtlMode            = 0x07
	G5DVPCtlInit            = 0
)
