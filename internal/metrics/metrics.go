// Package metrics exports scoring and HTTP metrics to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "cirf"

// Scoring modes recorded on the scored counter.
const (
	ModePreview = "preview"
	ModeSubmit  = "submit"
)

// Recorder holds the application collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	scored          *prometheus.CounterVec
	scoringDuration *prometheus.HistogramVec
	overallScore    *prometheus.HistogramVec
	completed       *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New registers the application collectors on reg. Collectors already
// registered by an earlier Recorder are reused.
func New(reg *prometheus.Registry) (*Recorder, error) {
	if reg == nil {
		reg = NewRegistry()
	}

	r := &Recorder{gatherer: reg}
	var err error

	if r.scored, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "assessments_scored_total",
		Help:      "Answer sets scored by the engine.",
	}, []string{"type", "mode"})); err != nil {
		return nil, err
	}
	if r.scoringDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "scoring_duration_seconds",
		Help:      "Time spent scoring one answer set.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
	}, []string{"type"})); err != nil {
		return nil, err
	}
	if r.overallScore, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "assessment_overall_score",
		Help:      "Distribution of submitted overall scores.",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	}, []string{"type"})); err != nil {
		return nil, err
	}
	if r.completed, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "assessments_completed_total",
		Help:      "Completed assessments by interpretation level.",
	}, []string{"type", "level"})); err != nil {
		return nil, err
	}
	if r.rejected, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "submissions_rejected_total",
		Help:      "Submissions refused before scoring.",
	}, []string{"type", "reason"})); err != nil {
		return nil, err
	}
	if r.rateLimited, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-client rate limiter.",
	}, []string{"route"})); err != nil {
		return nil, err
	}
	if r.httpRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}
	if r.httpDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})); err != nil {
		return nil, err
	}

	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// ObserveScoring records one engine run.
func (r *Recorder) ObserveScoring(assessmentType, mode string, duration time.Duration) {
	if r == nil {
		return
	}
	r.scored.WithLabelValues(assessmentType, mode).Inc()
	r.scoringDuration.WithLabelValues(assessmentType).Observe(duration.Seconds())
}

// RecordCompletion records a stored submission and its overall score.
func (r *Recorder) RecordCompletion(assessmentType, level string, overallScore int) {
	if r == nil {
		return
	}
	r.completed.WithLabelValues(assessmentType, level).Inc()
	r.overallScore.WithLabelValues(assessmentType).Observe(float64(overallScore))
}

// RecordRejection records a submission refused before scoring.
func (r *Recorder) RecordRejection(assessmentType, reason string) {
	if r == nil {
		return
	}
	r.rejected.WithLabelValues(assessmentType, reason).Inc()
}

// RecordRateLimited records a request turned away by the rate limiter.
func (r *Recorder) RecordRateLimited(route string) {
	if r == nil {
		return
	}
	r.rateLimited.WithLabelValues(route).Inc()
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
