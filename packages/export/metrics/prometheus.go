package metrics

import (
	"fmt"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "suitekit"

// Collector records run results into a dedicated Prometheus registry.
type Collector struct {
	registry      *prometheus.Registry
	cases         *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	setupFailures *prometheus.CounterVec
	success       prometheus.Gauge
	lastRun       prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cases_total",
			Help:      "Number of executed test cases by suite and outcome.",
		}, []string{"suite", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "case_duration_seconds",
			Help:      "Duration of test case bodies.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"suite"}),
		setupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "setup_failures_total",
			Help:      "Number of suites whose setup failed.",
		}, []string{"suite"}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 if the last run passed completely, 0 otherwise.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run started.",
		}),
	}
	c.registry.MustRegister(c.cases, c.durations, c.setupFailures, c.success, c.lastRun)
	return c
}

// Record adds a run to the collector.
func (c *Collector) Record(result *runner.RunResult) {
	for _, r := range result.Results {
		c.cases.WithLabelValues(r.Suite, outcomeLabel(r.Outcome.Kind)).Inc()
		if !r.Synthetic {
			c.durations.WithLabelValues(r.Suite).Observe(r.Duration.Seconds())
		}
	}
	for _, f := range result.FailedSetups {
		c.setupFailures.WithLabelValues(f.Suite).Inc()
	}
	if result.Success() {
		c.success.Set(1)
	} else {
		c.success.Set(0)
	}
	if !result.StartedAt.IsZero() {
		c.lastRun.Set(float64(result.StartedAt.Unix()))
	}
}

// Gatherer exposes the underlying registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the collected metrics in the node_exporter textfile
// format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}

// WriteTextfile records a single run and writes it to path.
func WriteTextfile(path string, result *runner.RunResult) error {
	c := NewCollector()
	c.Record(result)
	return c.WriteTextfile(path)
}

func outcomeLabel(k suite.Kind) string {
	switch k {
	case suite.KindPass:
		return "pass"
	case suite.KindFail:
		return "fail"
	default:
		return "error"
	}
}
