// Package metrics records the run's result as Prometheus gauges and writes
// them to a node_exporter textfile. A run-to-completion process has no
// scrape endpoint, so the textfile collector is the export path.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry so repeated runs never double-register.
type Recorder struct {
	registry *prometheus.Registry

	runTimestamp  prometheus.Gauge
	exitCode      prometheus.Gauge
	outcome       *prometheus.GaugeVec
	eligibleCerts prometheus.Gauge
	certExpiry    prometheus.Gauge
}

// outcomes is the full label set; every run exports all of them so the
// previous run's outcome gauge drops back to zero.
var outcomes = []string{
	"already_optimal",
	"upgraded",
	"created",
	"no_replacement_certificate",
	"no_eligible_certificate",
	"certificate_expired",
	"provisioning_failed",
}

// NewRecorder creates a Recorder with all gauges registered.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.runTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "winrm_certbind",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last reconciliation run",
	})

	r.exitCode = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "winrm_certbind",
		Name:      "last_run_exit_code",
		Help:      "Exit code of the last reconciliation run",
	})

	r.outcome = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "winrm_certbind",
		Name:      "last_run_outcome",
		Help:      "Outcome of the last run (1 for the outcome that occurred, 0 otherwise)",
	}, []string{"outcome"})

	r.eligibleCerts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "winrm_certbind",
		Name:      "eligible_certificates",
		Help:      "Number of store certificates passing the eligibility filters",
	})

	r.certExpiry = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "winrm_certbind",
		Name:      "bound_certificate_expiry_seconds",
		Help:      "Unix timestamp of the bound certificate's expiry (0 when none bound)",
	})

	r.registry.MustRegister(
		r.runTimestamp,
		r.exitCode,
		r.outcome,
		r.eligibleCerts,
		r.certExpiry,
	)

	return r
}

// Record fills the gauges for one finished run.
func (r *Recorder) Record(outcomeName string, exitCode, eligibleCount int, boundExpiry time.Time, ranAt time.Time) {
	r.runTimestamp.Set(float64(ranAt.Unix()))
	r.exitCode.Set(float64(exitCode))
	r.eligibleCerts.Set(float64(eligibleCount))

	if boundExpiry.IsZero() {
		r.certExpiry.Set(0)
	} else {
		r.certExpiry.Set(float64(boundExpiry.Unix()))
	}

	for _, name := range outcomes {
		val := 0.0
		if name == outcomeName {
			val = 1.0
		}
		r.outcome.WithLabelValues(name).Set(val)
	}
}

// WriteTextfile atomically writes the gauges to the given path in the
// Prometheus text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
