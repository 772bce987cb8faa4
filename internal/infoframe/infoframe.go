// Package infoframe serializes CEA-861/HDMI infoframes into the binary
// packets the encoder's packet RAM expects: a 4-byte header (type, version,
// length, checksum) followed by the payload, with the checksum making the
// byte sum of the whole packet zero modulo 256.
package infoframe

import "fmt"

// Type is the infoframe type code. The packet RAM slot for a frame is
// Type - 0x80.
type Type byte

const (
	TypeVendor Type = 0x81
	TypeAVI    Type = 0x82
	TypeSPD    Type = 0x83
	TypeAudio  Type = 0x84
)

var typeNames = map[Type]string{
	TypeVendor: "vendor", TypeAVI: "AVI", TypeSPD: "SPD", TypeAudio: "audio",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%#02x)", byte(t))
}

// SlotID is the packet RAM slot index for this frame type.
func (t Type) SlotID() int {
	return int(t) - 0x80
}

// MaxSize bounds a packed infoframe: header plus the largest defined
// payload (SPD, 25 bytes).
const MaxSize = 4 + 27

// Frame is any packable infoframe.
type Frame interface {
	Type() Type
	Pack() ([]byte, error)
}

// header fills in the 4-byte header and the checksum over buf, which must
// already hold the payload at buf[4:].
func header(buf []byte, t Type, version byte) {
	buf[0] = byte(t)
	buf[1] = version
	buf[2] = byte(len(buf) - 4)
	buf[3] = 0
	var sum byte
	for _, b := range buf {
		sum += b
	}
	buf[3] = -sum
}

// Checksum reports whether the packet's byte sum is zero modulo 256.
func Checksum(buf []byte) bool {
	var sum byte
	for _, b := range buf {
		sum += b
	}
	return sum == 0
}
