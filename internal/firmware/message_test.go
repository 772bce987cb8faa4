package firmware

import (
	"reflect"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage(tagSetClockRate, []uint32{9, 148500000, 1}, 2)

	want := []uint32{
		9 * 4,           // total size in bytes
		0,               // request
		tagSetClockRate, // tag
		12,              // value buffer size
		0,               // request code
		9, 148500000, 1, // args
		0, // end tag
	}
	if !reflect.DeepEqual(msg, want) {
		t.Errorf("message = %v, want %v", msg, want)
	}
}

func TestBuildMessagePadsForResponse(t *testing.T) {
	// A get call sends one word but needs room for two back.
	msg := buildMessage(tagGetClockRate, []uint32{9}, 2)
	if msg[3] != 8 {
		t.Errorf("value buffer size = %d, want 8", msg[3])
	}
	if len(msg) != 2+3+2+1 {
		t.Errorf("message length = %d words", len(msg))
	}
}

func TestParseResponse(t *testing.T) {
	msg := buildMessage(tagGetClockRate, []uint32{9}, 2)
	// Firmware overwrites in place.
	msg[1] = responseSuccess
	msg[4] = responseLengthBit | 8
	msg[5] = 9
	msg[6] = 148500000

	vals, err := parseResponse(msg, tagGetClockRate, 2)
	if err != nil {
		t.Fatal(err)
	}
	if vals[0] != 9 || vals[1] != 148500000 {
		t.Errorf("values = %v", vals)
	}
}

func TestParseResponseErrors(t *testing.T) {
	base := func() []uint32 {
		msg := buildMessage(tagGetClockRate, []uint32{9}, 2)
		msg[1] = responseSuccess
		msg[4] = responseLengthBit | 8
		return msg
	}

	tests := []struct {
		name   string
		mutate func([]uint32)
	}{
		{"request failed", func(m []uint32) { m[1] = 0x80000001 }},
		{"wrong tag", func(m []uint32) { m[2] = tagSetClockRate }},
		{"tag not processed", func(m []uint32) { m[4] = 8 }},
		{"short value", func(m []uint32) { m[4] = responseLengthBit | 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := base()
			tt.mutate(msg)
			if _, err := parseResponse(msg, tagGetClockRate, 2); err == nil {
				t.Error("no error")
			}
		})
	}
}
