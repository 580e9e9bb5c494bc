package observability

import (
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the capture metrics with reg (the default registerer
// when nil) and logs diagnostics with severity prefixes on stderr.
func NewPromObs(reg prometheus.Registerer) *PromObs {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	captures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "owf_captures_total",
		Help: "Captures completed and written to the output file.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "owf_capture_failures_total",
		Help: "Captures aborted by validation, acquisition, or write errors.",
	})
	samples := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "owf_samples_captured_total",
		Help: "Raw samples acquired from the device across all captures.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "owf_capture_duration_seconds",
		Help:    "Wall time from sniff start to output file close.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	lastSamples := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "owf_last_capture_samples",
		Help: "Sample count of the most recent successful capture.",
	})

	reg.MustRegister(captures, failures, samples, duration, lastSamples)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"owf_captures_total":         captures,
			"owf_capture_failures_total": failures,
			"owf_samples_captured_total": samples,
		},
		gauges: map[string]prometheus.Gauge{
			"owf_last_capture_samples": lastSamples,
		},
		histos: map[string]prometheus.Observer{
			"owf_capture_duration_seconds": duration,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	log.Printf("INFO: %s%s", msg, formatFields(fields))
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v%s", msg, err, formatFields(fields))
		return
	}
	log.Printf("ERROR: %s%s", msg, formatFields(fields))
}

func (p *PromObs) LogSuccess(msg string, fields ...ports.Field) {
	log.Printf("SUCCESS: %s%s", msg, formatFields(fields))
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func formatFields(fields []ports.Field) string {
	if len(fields) == 0 {
		return ""
	}
	out := ""
	for _, f := range fields {
		out += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
