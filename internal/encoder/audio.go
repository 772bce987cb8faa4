package encoder

import (
	"fmt"

	"github.com/pimedia/hdmilink/internal/cea"
	"github.com/pimedia/hdmilink/internal/infoframe"
	"github.com/pimedia/hdmilink/internal/rational"
	"github.com/pimedia/hdmilink/internal/regmap"
)

// IEC60958 channel status bits the MAI path cares about.
const (
	iecAES0NotCopyright = 0x04
	iecAES0NonAudio     = 0x02
	iecAES1Original     = 0x80
	iecAES1PCMCoder     = 0x02
	iecAES3FS48000      = 0x02
)

func defaultIECStatus() [4]byte {
	return [4]byte{
		iecAES0NotCopyright,
		iecAES1Original | iecAES1PCMCoder,
		0,
		iecAES3FS48000,
	}
}

type audioState struct {
	streaming bool
	channels  int
	rate      int
	iec       [4]byte
	ca        byte
}

// AudioParams describes the stream about to be played.
type AudioParams struct {
	Rate     int // samples per second
	Channels int // 1 to 8

	// NonAudio marks an IEC61937 compressed bitstream. Together with 8
	// channels it selects the high-bitrate MAI format.
	NonAudio bool
}

// AudioStreaming reports whether a stream is running.
func (e *Encoder) AudioStreaming() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.audio.streaming
}

// sampleRateCode maps a sample rate to the MAI_FMT code. Unlisted rates get
// the "not indicated" code 0; the sink then follows the channel status.
func sampleRateCode(rate int) uint32 {
	switch rate {
	case 8000:
		return 1
	case 11025:
		return 2
	case 12000:
		return 3
	case 16000:
		return 4
	case 22050:
		return 5
	case 24000:
		return 6
	case 32000:
		return 7
	case 44100:
		return 8
	case 48000:
		return 9
	case 64000:
		return 10
	case 88200:
		return 11
	case 96000:
		return 12
	case 128000:
		return 13
	case 176400:
		return 14
	case 192000:
		return 15
	}
	return 0
}

// PrepareAudio programs the whole audio path for a stream: MAI reset and
// clock divider, sample format, packet layout, channel map, clock recovery
// and the channel allocation for the audio infoframe. The stream is not
// started; call StartAudio.
func (e *Encoder) PrepareAudio(p AudioParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.variant.AudioAvailable {
		return ErrAudioUnavailable
	}
	if e.state != StateActiveHDMI {
		return fmt.Errorf("encoder: prepare audio: %w", ErrNotEnabled)
	}
	if p.Channels < 1 || p.Channels > 8 {
		return fmt.Errorf("encoder: %d channels out of range", p.Channels)
	}
	if p.Rate <= 0 {
		return fmt.Errorf("encoder: invalid sample rate %d", p.Rate)
	}

	e.audio.channels = p.Channels
	e.audio.rate = p.Rate
	e.audio.iec = defaultIECStatus()
	if p.NonAudio {
		e.audio.iec[0] |= iecAES0NonAudio
	}

	e.wr(regmap.MAICtl,
		regmap.MAICtlReset|regmap.MAICtlFlush|
			regmap.MAICtlDLate|regmap.MAICtlErrorE|regmap.MAICtlErrorF)

	e.setMAIClockLocked()

	format := uint32(regmap.MAIFormatPCM)
	if e.audio.iec[0]&iecAES0NonAudio != 0 && e.audio.channels == 8 {
		format = regmap.MAIFormatHBR
	}
	e.wr(regmap.MAIFmt,
		regmap.Field(sampleRateCode(p.Rate), regmap.MAIFmtSampleRateMask, regmap.MAIFmtSampleRateShift)|
			regmap.Field(format, regmap.MAIFmtAudioFormatMask, regmap.MAIFmtAudioFormatShift))

	// The B frame identifier has to match what alsa-lib uses.
	channelMask := uint32(1)<<p.Channels - 1
	packetConfig := regmap.AudioPacketZeroDataOnSampleFlat |
		regmap.AudioPacketZeroDataOnInactiveChannels |
		regmap.Field(0x8, regmap.AudioPacketBFrameIdentifierMask, regmap.AudioPacketBFrameIdentifierShift) |
		regmap.Field(channelMask, regmap.AudioPacketCEAMaskMask, regmap.AudioPacketCEAMaskShift)

	e.wr(regmap.MAIThr,
		regmap.Field(0x10, regmap.MAIThrPanicHighMask, regmap.MAIThrPanicHighShift)|
			regmap.Field(0x10, regmap.MAIThrPanicLowMask, regmap.MAIThrPanicLowShift)|
			regmap.Field(0x10, regmap.MAIThrDREQHighMask, regmap.MAIThrDREQHighShift)|
			regmap.Field(0x10, regmap.MAIThrDREQLowMask, regmap.MAIThrDREQLowShift))

	e.wr(regmap.MAIConfig,
		regmap.MAIConfigBitReverse|regmap.MAIConfigFormatReverse|
			regmap.Field(channelMask, regmap.MAIChannelMaskMask, regmap.MAIChannelMaskShift))

	e.wr(regmap.MAIChannelMap, e.variant.gen.channelMap(channelMask))
	e.wr(regmap.AudioPacketConfig, uint32(packetConfig))
	e.setNCTSLocked()

	alloc, err := cea.Resolve(e.sink.SpeakerAlloc, p.Channels)
	if err != nil {
		// Not fatal: the frame carries the unknown marker and the sink
		// falls back to the stream header.
		e.log.Error("unable to map channels to speakers",
			"channels", p.Channels,
			"speaker_alloc", e.sink.SpeakerAlloc,
			"err", err,
		)
		e.audio.ca = infoframe.CAUnknown
	} else {
		e.audio.ca = alloc.CA
	}

	e.log.Debug("audio path prepared",
		"rate", p.Rate,
		"channels", p.Channels,
		"hbr", format == regmap.MAIFormatHBR,
		"ca", fmt.Sprintf("%#02x", e.audio.ca),
	)
	return nil
}

// setMAIClockLocked programs the N/M divider deriving the MAI bus clock
// from the HSM clock.
func (e *Encoder) setMAIClockLocked() {
	hsm := e.variant.gen.hsmRate(e)
	n, m := rational.BestApproximation(hsm, uint64(e.audio.rate),
		uint64(regmap.MAISmpNMask>>regmap.MAISmpNShift),
		uint64(regmap.MAISmpMMask>>regmap.MAISmpMShift)+1)

	e.wr(regmap.MAISmp,
		regmap.Field(uint32(n), regmap.MAISmpNMask, regmap.MAISmpNShift)|
			regmap.Field(uint32(m-1), regmap.MAISmpMMask, regmap.MAISmpMShift))
}

// setNCTSLocked programs the audio clock regeneration values for the active
// mode. A single CTS value is used; alternating CTS_0/CTS_1 could be
// slightly more accurate for some rates.
func (e *Encoder) setNCTSLocked() {
	rate := uint64(e.audio.rate)
	n := 128 * rate / 1000
	cts := uint64(e.mode.Clock) * 1000 * n / (128 * rate)

	e.wr(regmap.CRPCfg,
		regmap.CRPCfgExternalCTSEnable|
			regmap.Field(uint32(n), regmap.CRPCfgNMask, regmap.CRPCfgNShift))
	e.wr(regmap.CTS0, uint32(cts))
	e.wr(regmap.CTS1, uint32(cts))
}

func (e *Encoder) writeAudioInfoframeLocked() {
	f := &infoframe.Audio{
		Channels: e.audio.channels,
		CA:       e.audio.ca,
	}
	if err := e.writeFrameLocked(f); err != nil {
		e.log.Error("failed to write audio infoframe", "err", err)
	}
}

// StartAudio starts the prepared stream.
func (e *Encoder) StartAudio() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateActiveHDMI {
		return fmt.Errorf("encoder: start audio: %w", ErrNotEnabled)
	}
	if e.audio.streaming {
		return ErrStreamBusy
	}

	e.writeAudioInfoframeLocked()
	e.audio.streaming = true

	e.phy.RNGEnable()
	e.wr(regmap.MAICtl,
		regmap.Field(uint32(e.audio.channels), regmap.MAICtlChNumMask, regmap.MAICtlChNumShift)|
			regmap.MAICtlWholSmp|regmap.MAICtlChAlign|regmap.MAICtlEnable)

	e.log.Info("audio stream started", "rate", e.audio.rate, "channels", e.audio.channels)
	return nil
}

// StopAudio halts a running stream. Stopping an idle path is a no-op.
func (e *Encoder) StopAudio() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.audio.streaming {
		return
	}

	e.wr(regmap.MAICtl,
		regmap.MAICtlDLate|regmap.MAICtlErrorE|regmap.MAICtlErrorF)
	e.phy.RNGDisable()
	e.audio.streaming = false
	e.log.Info("audio stream stopped")
}

// ResetAudio tears the audio path down completely: stream flag, audio
// infoframe slot, and the MAI FIFO.
func (e *Encoder) ResetAudio() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.audio.streaming = false
	if e.state == StateActiveHDMI {
		if err := e.stopPacketLocked(infoframe.TypeAudio); err != nil {
			e.log.Error("failed to stop audio infoframe", "err", err)
		}
	}

	e.wr(regmap.MAICtl, regmap.MAICtlReset)
	e.wr(regmap.MAICtl, regmap.MAICtlErrorF)
	e.wr(regmap.MAICtl, regmap.MAICtlFlush)
}
