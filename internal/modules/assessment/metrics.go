package assessment

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aristath/bulwark/internal/domain"
)

// Metrics holds the Prometheus instruments for the assessment pipeline.
// A nil *Metrics is valid and records nothing, so the service can run
// without a registry in tests and one-shot CLI invocations.
type Metrics struct {
	StageDuration *prometheus.HistogramVec
	RunsTotal     *prometheus.CounterVec

	// Headline figures of the most recent successful run.
	LastRunTotalRWA  prometheus.Gauge
	LastRunCET1Ratio prometheus.Gauge
	LastRunSynthetic prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics creates the pipeline metrics and registers them with reg.
// A nil registerer creates unregistered instruments.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bulwark",
				Name:      "assessment_stage_duration_seconds",
				Help:      "Duration of each assessment pipeline stage in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"stage", "result"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bulwark",
				Name:      "assessment_runs_total",
				Help:      "Total number of assessment runs by outcome",
			},
			[]string{"result"},
		),
		LastRunTotalRWA: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bulwark",
			Name:      "assessment_last_run_total_rwa",
			Help:      "Total risk-weighted assets of the most recent successful run",
		}),
		LastRunCET1Ratio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bulwark",
			Name:      "assessment_last_run_cet1_ratio_pct",
			Help:      "CET1 capital ratio of the most recent successful run in percent",
		}),
		LastRunSynthetic: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bulwark",
			Name:      "assessment_last_run_synthetic",
			Help:      "Whether the most recent run used synthetic own funds (1) or reported own funds (0)",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bulwark",
			Name:      "assessment_last_run_timestamp_seconds",
			Help:      "Unix timestamp of the most recent successful run",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.StageDuration,
			m.RunsTotal,
			m.LastRunTotalRWA,
			m.LastRunCET1Ratio,
			m.LastRunSynthetic,
			m.LastRunTimestamp,
		)
	}

	return m
}

// StageTimer tracks execution time for one pipeline stage.
type StageTimer struct {
	metrics *Metrics
	stage   string
	start   time.Time
}

// StartStageTimer begins timing a pipeline stage. Safe on a nil receiver.
func (m *Metrics) StartStageTimer(stage string) *StageTimer {
	return &StageTimer{
		metrics: m,
		stage:   stage,
		start:   time.Now(),
	}
}

// Stop completes the stage timing and records the observation.
func (st *StageTimer) Stop(result string) {
	if st == nil || st.metrics == nil {
		return
	}
	st.metrics.StageDuration.WithLabelValues(st.stage, result).Observe(time.Since(st.start).Seconds())
}

// RecordRun counts a completed run by outcome. Safe on a nil receiver.
func (m *Metrics) RecordRun(result string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(result).Inc()
}

// RecordLastRun publishes the headline figures of a successful run.
// Safe on a nil receiver.
func (m *Metrics) RecordLastRun(a *domain.Assessment) {
	if m == nil {
		return
	}
	m.LastRunTotalRWA.Set(a.Capital.TotalRWA)
	m.LastRunCET1Ratio.Set(a.Capital.CET1Ratio)
	if a.Capital.Synthetic {
		m.LastRunSynthetic.Set(1)
	} else {
		m.LastRunSynthetic.Set(0)
	}
	m.LastRunTimestamp.Set(float64(a.CreatedAt.Unix()))
}
