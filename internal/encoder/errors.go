package encoder

import "errors"

var (
	// ErrTimeout means a register poll did not see the expected state in
	// time. Wrapped errors say which wait failed.
	ErrTimeout = errors.New("encoder: timeout waiting for hardware")

	// ErrUnsupportedMode means the mode's pixel rate exceeds what the
	// hardware variant can drive.
	ErrUnsupportedMode = errors.New("encoder: mode exceeds pixel clock limit")

	// ErrStreamBusy means audio start was requested while a stream is
	// already running.
	ErrStreamBusy = errors.New("encoder: audio stream already running")

	// ErrPacketRAMOff means an infoframe write was attempted with the
	// packet RAM disabled (DVI mode or output off).
	ErrPacketRAMOff = errors.New("encoder: packet RAM is not enabled")

	// ErrPacketTooLarge means a serialized infoframe does not fit its
	// packet RAM slot.
	ErrPacketTooLarge = errors.New("encoder: packet exceeds RAM slot")

	// ErrNotEnabled means the operation needs an active output.
	ErrNotEnabled = errors.New("encoder: output is not enabled")

	// ErrAudioUnavailable means this variant has no MAI audio path.
	ErrAudioUnavailable = errors.New("encoder: audio not available on this output")
)
