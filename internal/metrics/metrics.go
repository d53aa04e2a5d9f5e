// Package metrics exposes the questionnaire's Prometheus collectors.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checklist"

// Recorder owns a private registry so tests and multiple app instances never
// collide on the default one.
type Recorder struct {
	reg *prometheus.Registry

	loads       *prometheus.CounterVec
	loadTime    *prometheus.HistogramVec
	submits     *prometheus.CounterVec
	submitTime  *prometheus.HistogramVec
	renders     *prometheus.CounterVec
	syncRuns    *prometheus.CounterVec
	syncRecords prometheus.Counter
}

func NewRecorder() (*Recorder, error) {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Checklist loads by result (ok, not_found, error).",
		}, []string{"result"}),
		loadTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent fetching a checklist into shared state.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submits_total",
			Help:      "Questionnaire submissions by result (ok, invalid, forbidden, error).",
		}, []string{"result"}),
		submitTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submit_duration_seconds",
			Help:      "Time spent validating and saving a submission.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Questionnaire pages rendered by state and format.",
		}, []string{"state", "format"}),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fleet_sync_runs_total",
			Help:      "Fleet import runs by result.",
		}, []string{"result"}),
		syncRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fleet_sync_records_total",
			Help:      "Checklists imported from the fleet backend.",
		}),
	}

	for _, c := range []prometheus.Collector{
		r.loads, r.loadTime, r.submits, r.submitTime, r.renders, r.syncRuns, r.syncRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := r.reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return r, nil
}

func (r *Recorder) ObserveLoad(result string, elapsed time.Duration) {
	r.loads.WithLabelValues(result).Inc()
	r.loadTime.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveSubmit(result string, elapsed time.Duration) {
	r.submits.WithLabelValues(result).Inc()
	r.submitTime.WithLabelValues(result).Observe(elapsed.Seconds())
}

// ObserveRender counts a rendered page; format is "html", "json" or "terminal".
func (r *Recorder) ObserveRender(state, format string) {
	r.renders.WithLabelValues(state, format).Inc()
}

func (r *Recorder) ObserveSync(imported int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.syncRuns.WithLabelValues(result).Inc()
	r.syncRecords.Add(float64(imported))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}
