// Package firmware talks to the VideoCore firmware over the mailbox
// property channel (/dev/vcio). The firmware owns the PLLs and power
// domains; the daemon asks it to run the pixel clock and the HDMI domain
// rather than touching the clock manager itself.
package firmware

import "fmt"

// Property channel tags.
const (
	tagGetClockState  = 0x00030001
	tagSetClockState  = 0x00038001
	tagGetClockRate   = 0x00030002
	tagSetClockRate   = 0x00038002
	tagSetDomainState = 0x00038030
)

const (
	requestCode       = 0
	responseSuccess   = 0x80000000
	responseLengthBit = 0x80000000
	endTag            = 0
)

// buildMessage assembles a single-tag property request. The value buffer is
// sized for the larger of request and response.
func buildMessage(tag uint32, args []uint32, respWords int) []uint32 {
	valueWords := len(args)
	if respWords > valueWords {
		valueWords = respWords
	}

	// header (2) + tag header (3) + value buffer + end tag
	msg := make([]uint32, 0, 2+3+valueWords+1)
	msg = append(msg, 0, requestCode)
	msg = append(msg, tag, uint32(valueWords*4), requestCode)
	msg = append(msg, args...)
	for i := len(args); i < valueWords; i++ {
		msg = append(msg, 0)
	}
	msg = append(msg, endTag)
	msg[0] = uint32(len(msg) * 4)
	return msg
}

// parseResponse validates a firmware reply in place and returns the tag's
// value words.
func parseResponse(msg []uint32, tag uint32, respWords int) ([]uint32, error) {
	if len(msg) < 6 {
		return nil, fmt.Errorf("firmware: short response (%d words)", len(msg))
	}
	if msg[1] != responseSuccess {
		return nil, fmt.Errorf("firmware: request failed (code %#x)", msg[1])
	}
	if msg[2] != tag {
		return nil, fmt.Errorf("firmware: response for tag %#x, asked %#x", msg[2], tag)
	}
	if msg[4]&responseLengthBit == 0 {
		return nil, fmt.Errorf("firmware: tag %#x not processed", tag)
	}
	got := int(msg[4]&^uint32(responseLengthBit)) / 4
	if got < respWords {
		return nil, fmt.Errorf("firmware: tag %#x returned %d words, want %d", tag, got, respWords)
	}
	return msg[5 : 5+respWords], nil
}
