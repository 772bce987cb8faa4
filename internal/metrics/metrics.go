// Package metrics exposes the daemon's Prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EnablesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hdmilink",
		Name:      "enables_total",
		Help:      "Output enable attempts by result.",
	}, []string{"result"})

	PollTimeoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hdmilink",
		Name:      "poll_timeouts_total",
		Help:      "Register polls that hit their deadline.",
	})

	HotplugEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hdmilink",
		Name:      "hotplug_events_total",
		Help:      "Debounced hotplug events by direction.",
	}, []string{"direction"})

	EncoderState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hdmilink",
		Name:      "encoder_state",
		Help:      "Encoder state machine position (0 disabled, 2 DVI, 3 HDMI).",
	})

	AudioStreaming = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hdmilink",
		Name:      "audio_streaming",
		Help:      "Whether an audio stream is running (0 or 1).",
	})

	PixelClockHz = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hdmilink",
		Name:      "pixel_clock_hz",
		Help:      "Pixel clock of the active mode in Hz, 0 when disabled.",
	})
)

// Handler serves the default registry, mounted on the API router.
func Handler() http.Handler {
	return promhttp.Handler()
}
