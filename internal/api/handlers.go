package api

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pimedia/hdmilink/internal/encoder"
	"github.com/pimedia/hdmilink/internal/infoframe"
)

func (h *Handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

func (h *Handlers) getModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Modes())
}

// enableRequest is the POST /api/enable body. An empty body or empty mode
// selects the configured preferred mode.
type enableRequest struct {
	Mode string `json:"mode"`
}

func (h *Handlers) enable(w http.ResponseWriter, r *http.Request) {
	var req enableRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.ctrl.Enable(req.Mode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

func (h *Handlers) disable(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Disable()
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

// audioRequest is the POST /api/audio/prepare body.
type audioRequest struct {
	Rate     int  `json:"rate"`
	Channels int  `json:"channels"`
	NonAudio bool `json:"non_audio"`
}

func (h *Handlers) prepareAudio(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err))
		return
	}
	err := h.ctrl.PrepareAudio(encoder.AudioParams{
		Rate:     req.Rate,
		Channels: req.Channels,
		NonAudio: req.NonAudio,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

func (h *Handlers) startAudio(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.StartAudio(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

func (h *Handlers) stopAudio(w http.ResponseWriter, r *http.Request) {
	h.ctrl.StopAudio()
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

func (h *Handlers) resetAudio(w http.ResponseWriter, r *http.Request) {
	h.ctrl.ResetAudio()
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

var packetTypes = map[string]infoframe.Type{
	"vendor": infoframe.TypeVendor,
	"avi":    infoframe.TypeAVI,
	"spd":    infoframe.TypeSPD,
	"audio":  infoframe.TypeAudio,
}

// packetResponse is the packet RAM readback for one slot.
type packetResponse struct {
	Type  string `json:"type"`
	Data  string `json:"data"` // hex
	Valid bool   `json:"valid"`
}

func (h *Handlers) getPacket(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "type")
	t, ok := packetTypes[name]
	if !ok {
		writeError(w, fmt.Errorf("%w: unknown packet type %q", errBadRequest, name))
		return
	}
	buf := h.ctrl.ReadPacket(t)
	writeJSON(w, http.StatusOK, packetResponse{
		Type:  t.String(),
		Data:  hex.EncodeToString(buf),
		Valid: infoframe.Checksum(buf),
	})
}

// decodeOptional decodes a JSON body into v, treating an empty body as the
// zero value.
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || err == io.EOF {
		return nil
	}
	return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
}
