package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "loom",
		Name:      "frames_rendered_total",
		Help:      "Number of frames flushed to the backend.",
	})
	metricFrameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "loom",
		Name:      "frame_duration_seconds",
		Help:      "Time spent rendering one frame.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	metricInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loom",
		Name:      "invalidations_total",
		Help:      "Invalidation requests by outcome.",
	}, []string{"result"})
	metricMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loom",
		Name:      "messages_total",
		Help:      "Messages dispatched through the window by kind.",
	}, []string{"kind"})
	metricLayers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "loom",
		Name:      "layers_active",
		Help:      "Number of layers on the window stack.",
	})
)

func messageKind(msg Message) string {
	switch msg.(type) {
	case KeyMsg:
		return "key"
	case MouseMsg:
		return "mouse"
	case ResizeMsg:
		return "resize"
	case PasteMsg:
		return "paste"
	case ThemeMsg:
		return "theme"
	case TickMsg:
		return "tick"
	case PointerEnterMsg:
		return "pointer_enter"
	case PointerLeaveMsg:
		return "pointer_leave"
	default:
		return "other"
	}
}
