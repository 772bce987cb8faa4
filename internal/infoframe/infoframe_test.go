package infoframe_test

import (
	"bytes"
	"testing"

	"github.com/pimedia/hdmilink/internal/infoframe"
)

func TestAVIPack(t *testing.T) {
	f := &infoframe.AVI{
		Colorspace:    0, // RGB
		ActiveAspect:  0x8,
		PictureAspect: 2, // 16:9
		Quant:         1, // limited
		VIC:           16,
	}
	buf, err := f.Pack()
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 4+13 {
		t.Fatalf("packed length = %d, want 17", len(buf))
	}
	if buf[0] != 0x82 || buf[1] != 2 || buf[2] != 13 {
		t.Errorf("header = % x, want 82 02 0d", buf[:3])
	}
	if !infoframe.Checksum(buf) {
		t.Error("byte sum not zero mod 256")
	}
	if buf[4] != 0x10 { // active aspect valid, no bars
		t.Errorf("data byte 1 = %#02x, want 0x10", buf[4])
	}
	if buf[5] != 0x28 { // 16:9, active aspect same-as-picture
		t.Errorf("data byte 2 = %#02x, want 0x28", buf[5])
	}
	if buf[6] != 0x04 { // limited range
		t.Errorf("data byte 3 = %#02x, want 0x04", buf[6])
	}
	if buf[7] != 16 {
		t.Errorf("VIC byte = %d, want 16", buf[7])
	}
}

func TestAVIRoundTrip(t *testing.T) {
	f := &infoframe.AVI{
		Colorspace:    0,
		Scan:          2,
		Colorimetry:   1,
		PictureAspect: 1,
		ActiveAspect:  0x8,
		Quant:         2,
		ITC:           true,
		VIC:           4,
		PixelRepeat:   1,
		TopBar:        12,
		BottomBar:     708,
		LeftBar:       3,
		RightBar:      1917,
	}
	buf, err := f.Pack()
	if err != nil {
		t.Fatal(err)
	}
	got, err := infoframe.ParseAVI(buf)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *f {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, f)
	}
}

func TestParseAVIRejectsCorrupt(t *testing.T) {
	f := &infoframe.AVI{VIC: 16}
	buf, _ := f.Pack()
	buf[7] ^= 0xff
	if _, err := infoframe.ParseAVI(buf); err == nil {
		t.Error("corrupted packet should fail checksum")
	}
	if _, err := infoframe.ParseAVI(buf[:10]); err == nil {
		t.Error("short packet should be rejected")
	}
}

func TestSPDPack(t *testing.T) {
	f, err := infoframe.NewSPD("Broadcom", "Videocore", infoframe.SDIPC)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := f.Pack()
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 4+25 {
		t.Fatalf("packed length = %d, want 29", len(buf))
	}
	if buf[0] != 0x83 || buf[1] != 1 || buf[2] != 25 {
		t.Errorf("header = % x, want 83 01 19", buf[:3])
	}
	if !infoframe.Checksum(buf) {
		t.Error("byte sum not zero mod 256")
	}
	if !bytes.Equal(buf[4:12], []byte("Broadcom")) {
		t.Errorf("vendor field = %q", buf[4:12])
	}
	if !bytes.Equal(buf[12:21], []byte("Videocore")) {
		t.Errorf("product field = %q", buf[12:21])
	}
	if buf[28] != byte(infoframe.SDIPC) {
		t.Errorf("SDI byte = %d, want %d", buf[28], infoframe.SDIPC)
	}
}

func TestSPDRejectsLongStrings(t *testing.T) {
	if _, err := infoframe.NewSPD("toolongvendor", "p", infoframe.SDIPC); err == nil {
		t.Error("oversize vendor should be rejected")
	}
	if _, err := infoframe.NewSPD("v", "this product name is too long", infoframe.SDIPC); err == nil {
		t.Error("oversize product should be rejected")
	}
}

func TestAudioPack(t *testing.T) {
	f := &infoframe.Audio{Channels: 8, CA: 0x13}
	buf, err := f.Pack()
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 4+10 {
		t.Fatalf("packed length = %d, want 14", len(buf))
	}
	if buf[0] != 0x84 || buf[1] != 1 || buf[2] != 10 {
		t.Errorf("header = % x, want 84 01 0a", buf[:3])
	}
	if !infoframe.Checksum(buf) {
		t.Error("byte sum not zero mod 256")
	}
	if buf[4] != 7 { // channel count minus one, stream coding type
		t.Errorf("data byte 1 = %#02x, want 0x07", buf[4])
	}
	if buf[7] != 0x13 {
		t.Errorf("CA byte = %#02x, want 0x13", buf[7])
	}
}

func TestAudioUnknownAllocation(t *testing.T) {
	f := &infoframe.Audio{Channels: 2, CA: infoframe.CAUnknown}
	buf, err := f.Pack()
	if err != nil {
		t.Fatal(err)
	}
	// The unknown marker goes out unchanged.
	if buf[7] != 0xff {
		t.Errorf("CA byte = %#02x, want 0xff", buf[7])
	}
}

func TestVendorPack(t *testing.T) {
	f := &infoframe.Vendor{HDMIVIC: 1} // 4k@30
	buf, err := f.Pack()
	if err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x81 || buf[1] != 1 || buf[2] != 5 {
		t.Errorf("header = % x, want 81 01 05", buf[:3])
	}
	if !infoframe.Checksum(buf) {
		t.Error("byte sum not zero mod 256")
	}
	if buf[4] != 0x03 || buf[5] != 0x0c || buf[6] != 0x00 {
		t.Errorf("OUI = % x, want 03 0c 00", buf[4:7])
	}

	if _, err := (&infoframe.Vendor{}).Pack(); err == nil {
		t.Error("vendor frame without VIC should be rejected")
	}
}

func TestSlotIDs(t *testing.T) {
	tests := []struct {
		typ  infoframe.Type
		slot int
	}{
		{infoframe.TypeVendor, 1},
		{infoframe.TypeAVI, 2},
		{infoframe.TypeSPD, 3},
		{infoframe.TypeAudio, 4},
	}
	for _, tt := range tests {
		if got := tt.typ.SlotID(); got != tt.slot {
			t.Errorf("%s slot = %d, want %d", tt.typ, got, tt.slot)
		}
	}
}

// All frames must fit a packet RAM slot.
func TestMaxSize(t *testing.T) {
	frames := []infoframe.Frame{
		&infoframe.AVI{VIC: 16},
		&infoframe.SPD{Vendor: "12345678", Product: "1234567890123456"},
		&infoframe.Audio{Channels: 8, CA: 0x1f},
		&infoframe.Vendor{HDMIVIC: 4},
	}
	for _, f := range frames {
		buf, err := f.Pack()
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) > infoframe.MaxSize {
			t.Errorf("%s frame is %d bytes, exceeds %d", f.Type(), len(buf), infoframe.MaxSize)
		}
	}
}
