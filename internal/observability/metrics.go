package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/sliderctl/internal/remote"
)

var (
	registerOnce sync.Once

	sliderCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sliderctl",
			Subsystem: "slider",
			Name:      "commands_total",
			Help:      "Total Slider CLI invocations.",
		},
		[]string{"verb", "outcome"},
	)
	sliderCommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sliderctl",
			Subsystem: "slider",
			Name:      "command_duration_seconds",
			Help:      "Slider CLI invocation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"verb", "outcome"},
	)
	packageUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sliderctl",
			Subsystem: "package",
			Name:      "uploads_total",
			Help:      "Package artifact upload outcomes, including checksum skips.",
		},
		[]string{"outcome"},
	)
	statusRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sliderctl",
			Subsystem: "status",
			Name:      "retries_total",
			Help:      "Status attempts retried for transient node unreachability.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(sliderCommands, sliderCommandDuration, packageUploads, statusRetries)
	})
}

// RecordSliderCommand labels the invocation with its exit code ("ok" on
// success, "error" for transport failures without one).
func RecordSliderCommand(verb string, err error, duration time.Duration) {
	RegisterMetrics()
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if code, ok := remote.ExitCode(err); ok {
			outcome = "exit_" + strconv.Itoa(code)
		}
	}
	sliderCommands.WithLabelValues(verb, outcome).Inc()
	sliderCommandDuration.WithLabelValues(verb, outcome).Observe(duration.Seconds())
}

func RecordPackageUpload(outcome string) {
	RegisterMetrics()
	packageUploads.WithLabelValues(outcome).Inc()
}

func RecordStatusRetry() {
	RegisterMetrics()
	statusRetries.Inc()
}
