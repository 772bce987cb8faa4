package encoder

import (
	"fmt"
	"time"

	"github.com/pimedia/hdmilink/internal/infoframe"
	"github.com/pimedia/hdmilink/internal/mode"
	"github.com/pimedia/hdmilink/internal/regmap"
)

const packetPollTimeout = 100 * time.Millisecond

// stopPacketLocked takes a packet slot out of the transmit rotation and
// waits for the engine to stop cycling it.
func (e *Encoder) stopPacketLocked(t infoframe.Type) error {
	bit := uint32(1) << t.SlotID()
	e.clearBits(regmap.RAMPacketConfig, bit)
	return e.pollReg(packetPollTimeout,
		func() uint32 { return e.rd(regmap.RAMPacketStatus) },
		bit, 0, fmt.Sprintf("encoder: stop %s packet", t))
}

// writeFrameLocked serializes a frame into its packet RAM slot and enables
// it. The packet RAM must be powered (RAM_PACKET_CONFIG enable bit set);
// frames cannot be stored in DVI mode.
func (e *Encoder) writeFrameLocked(f infoframe.Frame) error {
	if e.rd(regmap.RAMPacketConfig)&regmap.RAMPacketEnable == 0 {
		return ErrPacketRAMOff
	}

	buf, err := f.Pack()
	if err != nil {
		return fmt.Errorf("encoder: pack %s infoframe: %w", f.Type(), err)
	}
	if len(buf) > infoframe.MaxSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrPacketTooLarge, f.Type(), len(buf))
	}

	if err := e.stopPacketLocked(f.Type()); err != nil {
		return err
	}

	id := f.Type().SlotID()
	block, base, ok := e.variant.Layout.Lookup(regmap.RAMPacketStart)
	if !ok {
		panic("encoder: no packet RAM on this variant")
	}
	off := base + uint32(regmap.PacketStride*id)

	// The RAM takes 7 packet bytes per pair of words.
	for i := 0; i < len(buf); i += 7 {
		var c [7]byte
		copy(c[:], buf[i:])
		e.bus.Write(block, off,
			uint32(c[0])|uint32(c[1])<<8|uint32(c[2])<<16)
		off += 4
		e.bus.Write(block, off,
			uint32(c[3])|uint32(c[4])<<8|uint32(c[5])<<16|uint32(c[6])<<24)
		off += 4
	}

	bit := uint32(1) << id
	e.setBits(regmap.RAMPacketConfig, bit)
	return e.pollReg(packetPollTimeout,
		func() uint32 { return e.rd(regmap.RAMPacketStatus) },
		bit, bit, fmt.Sprintf("encoder: start %s packet", f.Type()))
}

// WriteFrame stores an infoframe while the output is active in HDMI mode.
// The controller uses it to refresh the AVI frame on margin changes.
func (e *Encoder) WriteFrame(f infoframe.Frame) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActiveHDMI {
		return ErrNotEnabled
	}
	return e.writeFrameLocked(f)
}

// ReadPacket reassembles a packet RAM slot back into bytes, undoing the
// 7-bytes-per-word-pair packing. It backs tests and the debug API.
func (e *Encoder) ReadPacket(t infoframe.Type) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()

	block, base, ok := e.variant.Layout.Lookup(regmap.RAMPacketStart)
	if !ok {
		return nil
	}
	off := base + uint32(regmap.PacketStride*t.SlotID())

	buf := make([]byte, 0, infoframe.MaxSize+4)
	for len(buf) < infoframe.MaxSize {
		w0 := e.bus.Read(block, off)
		w1 := e.bus.Read(block, off+4)
		off += 8
		buf = append(buf,
			byte(w0), byte(w0>>8), byte(w0>>16),
			byte(w1), byte(w1>>8), byte(w1>>16), byte(w1>>24))
	}
	return buf[:infoframe.MaxSize]
}

// writeInfoframesLocked installs the frames for the active mode: AVI and
// SPD always, audio when a stream is running. Failures are logged and the
// enable sequence carries on; a missing infoframe degrades the picture
// metadata, not the picture.
func (e *Encoder) writeInfoframesLocked(m *mode.Mode) {
	if err := e.writeFrameLocked(e.buildAVI(m)); err != nil {
		e.log.Error("failed to write AVI infoframe", "err", err)
	}

	spd, err := infoframe.NewSPD(e.spdVendor, e.spdProduct, infoframe.SDIPC)
	if err == nil {
		err = e.writeFrameLocked(spd)
	}
	if err != nil {
		e.log.Error("failed to write SPD infoframe", "err", err)
	}

	// If audio was streaming across a modeset, its frame has to come back
	// too.
	if e.audio.streaming {
		e.writeAudioInfoframeLocked()
	}
}

// buildAVI describes the active mode to the sink: format code, aspect,
// quantization range and the configured overscan bars.
func (e *Encoder) buildAVI(m *mode.Mode) *infoframe.AVI {
	f := &infoframe.AVI{
		ActiveAspect: 0x8, // same as picture
		VIC:          m.VIC,
		PixelRepeat:  byte(m.PixelRepeat() - 1),
		TopBar:       e.margins.Top,
		BottomBar:    e.margins.Bottom,
		LeftBar:      e.margins.Left,
		RightBar:     e.margins.Right,
	}

	switch {
	case m.HDisplay*3 == m.VDisplay*4:
		f.PictureAspect = 1 // 4:3
	case m.HDisplay*9 == m.VDisplay*16:
		f.PictureAspect = 2 // 16:9
	}

	// Explicit range signalling is only allowed when the sink declares
	// support; otherwise the CEA default for the VIC applies implicitly.
	if e.sink.QuantSelectable {
		if e.limitedRGB {
			f.Quant = 1
		} else {
			f.Quant = 2
		}
	}
	return f
}
