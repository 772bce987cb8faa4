package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pimedia/hdmilink/internal/metrics"
)

// NewRouter creates and returns the main HTTP router.
func NewRouter(ctrl Controller, bus EventBus) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, events: bus}

	// Output state
	r.Get("/api", h.getStatus)
	r.Get("/api/", h.getStatus)
	r.Get("/api/modes", h.getModes)
	r.Post("/api/enable", h.enable)
	r.Post("/api/disable", h.disable)

	// Audio path
	r.Post("/api/audio/prepare", h.prepareAudio)
	r.Post("/api/audio/start", h.startAudio)
	r.Post("/api/audio/stop", h.stopAudio)
	r.Post("/api/audio/reset", h.resetAudio)

	// Debug readback of the packet RAM
	r.Get("/api/packet/{type}", h.getPacket)

	// SSE
	r.Get("/api/subscribe", h.sseEvents)

	// Prometheus
	r.Handle("/metrics", metrics.Handler())

	return r
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
