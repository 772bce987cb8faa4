package infoframe

import "fmt"

// ouiHDMI is the HDMI licensing LLC IEEE OUI, transmitted LSB first.
const ouiHDMI = 0x000c03

// Vendor is the HDMI vendor-specific frame, version 1. It carries the HDMI
// VIC for the 4k modes CEA-861 has no code for.
type Vendor struct {
	HDMIVIC byte
}

func (f *Vendor) Type() Type { return TypeVendor }

func (f *Vendor) Pack() ([]byte, error) {
	if f.HDMIVIC == 0 {
		return nil, fmt.Errorf("infoframe: vendor frame without HDMI VIC")
	}

	// OUI, video format field, HDMI VIC.
	buf := make([]byte, 4+5)
	p := buf[4:]
	p[0] = byte(ouiHDMI & 0xff)
	p[1] = byte(ouiHDMI >> 8)
	p[2] = byte(ouiHDMI >> 16)
	p[3] = 0x1 << 5 // HDMI_Video_Format = HDMI VIC present
	p[4] = f.HDMIVIC

	header(buf, TypeVendor, 1)
	return buf, nil
}
