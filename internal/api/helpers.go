// Package api implements the HTTP REST API for the HDMI output daemon.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pimedia/hdmilink/internal/controller"
	"github.com/pimedia/hdmilink/internal/encoder"
	"github.com/pimedia/hdmilink/internal/events"
	"github.com/pimedia/hdmilink/internal/infoframe"
	"github.com/pimedia/hdmilink/internal/mode"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl   Controller
	events EventBus
}

// Controller is the interface the handlers use to drive the output.
type Controller interface {
	Status() controller.Status
	Modes() []controller.ModeInfo
	Enable(modeName string) error
	Disable()
	PrepareAudio(p encoder.AudioParams) error
	StartAudio() error
	StopAudio()
	ResetAudio()
	ReadPacket(t infoframe.Type) []byte
}

// EventBus is the interface for subscribing to output change events.
type EventBus interface {
	Subscribe(id string) <-chan events.Event
	Unsubscribe(id string)
}

// apiError is the JSON error body.
type apiError struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mode.ErrUnknownMode):
		status = http.StatusNotFound
	case errors.Is(err, encoder.ErrUnsupportedMode):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, encoder.ErrNotEnabled),
		errors.Is(err, encoder.ErrStreamBusy),
		errors.Is(err, encoder.ErrPacketRAMOff):
		status = http.StatusConflict
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, apiError{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")
