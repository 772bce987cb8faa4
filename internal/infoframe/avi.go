package infoframe

import "fmt"

// AVI auxiliary video information frame, version 2, 13-byte payload.
type AVI struct {
	Colorspace     byte // 0 RGB, 1 YCbCr 4:2:2, 2 YCbCr 4:4:4
	Scan           byte
	Colorimetry    byte
	PictureAspect  byte // 0 none, 1 4:3, 2 16:9
	ActiveAspect   byte
	ExtColorimetry byte
	Quant          byte // 0 default, 1 limited, 2 full
	NUPS           byte // non-uniform picture scaling
	ITC            bool
	VIC            byte
	YCCQuant       byte
	ContentType    byte
	PixelRepeat    byte // repetitions minus one

	// Bar widths in pixels/lines. Nonzero bars set the corresponding
	// valid flags in the first payload byte.
	TopBar, BottomBar, LeftBar, RightBar uint16
}

const aviLength = 13

func (f *AVI) Type() Type { return TypeAVI }

func (f *AVI) Pack() ([]byte, error) {
	if f.PixelRepeat > 0xf {
		return nil, fmt.Errorf("infoframe: AVI pixel repeat %d out of range", f.PixelRepeat)
	}

	buf := make([]byte, 4+aviLength)
	p := buf[4:]

	p[0] = (f.Colorspace&0x3)<<5 | f.Scan&0x3
	if f.ActiveAspect&0xf != 0 {
		p[0] |= 1 << 4
	}
	if f.TopBar != 0 || f.BottomBar != 0 {
		p[0] |= 1 << 3
	}
	if f.LeftBar != 0 || f.RightBar != 0 {
		p[0] |= 1 << 2
	}

	p[1] = (f.Colorimetry&0x3)<<6 | (f.PictureAspect&0x3)<<4 | f.ActiveAspect&0xf

	p[2] = (f.ExtColorimetry&0x7)<<4 | (f.Quant&0x3)<<2 | f.NUPS&0x3
	if f.ITC {
		p[2] |= 1 << 7
	}

	p[3] = f.VIC
	p[4] = (f.YCCQuant&0x3)<<6 | (f.ContentType&0x3)<<4 | f.PixelRepeat&0xf

	p[5] = byte(f.TopBar)
	p[6] = byte(f.TopBar >> 8)
	p[7] = byte(f.BottomBar)
	p[8] = byte(f.BottomBar >> 8)
	p[9] = byte(f.LeftBar)
	p[10] = byte(f.LeftBar >> 8)
	p[11] = byte(f.RightBar)
	p[12] = byte(f.RightBar >> 8)

	header(buf, TypeAVI, 2)
	return buf, nil
}

// ParseAVI decodes a packed AVI frame, verifying header and checksum. It is
// the inverse of Pack and backs the API's readback of what is on the wire.
func ParseAVI(buf []byte) (*AVI, error) {
	if len(buf) < 4+aviLength {
		return nil, fmt.Errorf("infoframe: AVI packet too short (%d bytes)", len(buf))
	}
	buf = buf[:4+aviLength]
	if Type(buf[0]) != TypeAVI {
		return nil, fmt.Errorf("infoframe: not an AVI packet (type %#02x)", buf[0])
	}
	if buf[1] != 2 || buf[2] != aviLength {
		return nil, fmt.Errorf("infoframe: bad AVI version/length %d/%d", buf[1], buf[2])
	}
	if !Checksum(buf) {
		return nil, fmt.Errorf("infoframe: AVI checksum mismatch")
	}

	p := buf[4:]
	f := &AVI{
		Colorspace:     p[0] >> 5 & 0x3,
		Scan:           p[0] & 0x3,
		Colorimetry:    p[1] >> 6 & 0x3,
		PictureAspect:  p[1] >> 4 & 0x3,
		ActiveAspect:   p[1] & 0xf,
		ITC:            p[2]&(1<<7) != 0,
		ExtColorimetry: p[2] >> 4 & 0x7,
		Quant:          p[2] >> 2 & 0x3,
		NUPS:           p[2] & 0x3,
		VIC:            p[3],
		YCCQuant:       p[4] >> 6 & 0x3,
		ContentType:    p[4] >> 4 & 0x3,
		PixelRepeat:    p[4] & 0xf,
		TopBar:         uint16(p[5]) | uint16(p[6])<<8,
		BottomBar:      uint16(p[7]) | uint16(p[8])<<8,
		LeftBar:        uint16(p[9]) | uint16(p[10])<<8,
		RightBar:       uint16(p[11]) | uint16(p[12])<<8,
	}
	return f, nil
}
