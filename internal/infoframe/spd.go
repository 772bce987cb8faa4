package infoframe

import "fmt"

// SDI is the SPD source device information code.
type SDI byte

const (
	SDIUnknown SDI = iota
	SDIDigitalSTB
	SDIDVD
	SDIHDDVD
	SDISTB
	SDIDVCR
	SDIDSC
	SDIVideoCD
	SDIGame
	SDIPC
	SDIBluRay
	SDISACD
)

// SPD source product description frame, version 1, 25-byte payload.
type SPD struct {
	Vendor  string // up to 8 bytes
	Product string // up to 16 bytes
	SDI     SDI
}

const spdLength = 25

// NewSPD builds an SPD frame, rejecting oversize strings.
func NewSPD(vendor, product string, sdi SDI) (*SPD, error) {
	if len(vendor) > 8 {
		return nil, fmt.Errorf("infoframe: SPD vendor %q longer than 8 bytes", vendor)
	}
	if len(product) > 16 {
		return nil, fmt.Errorf("infoframe: SPD product %q longer than 16 bytes", product)
	}
	return &SPD{Vendor: vendor, Product: product, SDI: sdi}, nil
}

func (f *SPD) Type() Type { return TypeSPD }

func (f *SPD) Pack() ([]byte, error) {
	if len(f.Vendor) > 8 || len(f.Product) > 16 {
		return nil, fmt.Errorf("infoframe: SPD strings too long")
	}
	buf := make([]byte, 4+spdLength)
	p := buf[4:]
	copy(p[0:8], f.Vendor)
	copy(p[8:24], f.Product)
	p[24] = byte(f.SDI)
	header(buf, TypeSPD, 1)
	return buf, nil
}
