// Package metrics records per-run Prometheus metrics. A batch run has no
// scrape endpoint, so the registry is written in text exposition format for
// the node exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/OpenTraceLab/pinremap/pkg/cdf"
)

// Recorder holds the metrics of one run on a private registry
type Recorder struct {
	registry *prometheus.Registry

	PinsExtracted  *prometheus.GaugeVec
	References     *prometheus.CounterVec
	Substitutions  *prometheus.CounterVec
	UnmatchedNames *prometheus.GaugeVec
	Errors         *prometheus.CounterVec
}

// NewRecorder creates a recorder with all metrics registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		PinsExtracted: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pinremap_pins_extracted",
				Help: "Number of pin definitions found in the document",
			},
			[]string{"file"},
		),

		References: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinremap_references_total",
				Help: "Pin name references recognized, by section",
			},
			[]string{"file", "section"},
		),

		Substitutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinremap_substitutions_total",
				Help: "Pin name references rewritten, by section",
			},
			[]string{"file", "section"},
		),

		UnmatchedNames: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pinremap_unmatched_names",
				Help: "Distinct referenced pin names without a renaming entry",
			},
			[]string{"file"},
		),

		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinremap_errors_total",
				Help: "Errors by kind",
			},
			[]string{"file", "type"},
		),
	}

	r.registry.MustRegister(r.PinsExtracted, r.References, r.Substitutions, r.UnmatchedNames, r.Errors)
	return r
}

// ObserveExtract records the result of an extraction
func (r *Recorder) ObserveExtract(file string, records []cdf.PinRecord) {
	r.PinsExtracted.WithLabelValues(file).Set(float64(len(records)))
}

// ObserveRemap records the result of a remap run
func (r *Recorder) ObserveRemap(file string, report *cdf.Report) {
	for _, section := range cdf.Sections {
		stats := report.Section(section)
		r.References.WithLabelValues(file, section.String()).Add(float64(stats.References))
		r.Substitutions.WithLabelValues(file, section.String()).Add(float64(stats.Substitutions))
	}
	r.UnmatchedNames.WithLabelValues(file).Set(float64(len(report.Unmatched)))
}

// ObserveError counts an error of the given kind
func (r *Recorder) ObserveError(file, kind string) {
	r.Errors.WithLabelValues(file, kind).Inc()
}

// Gatherer exposes the registry
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
