// Package metrics derives duration statistics from a run and exports run
// metrics in the Prometheus text format.
package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
)

const (
	// histogram range in microseconds: 1µs to 1h
	minTrackable = 1
	maxTrackable = int64(time.Hour / time.Microsecond)
	sigFigs      = 3
)

// DurationSummary holds case duration statistics for a run
type DurationSummary struct {
	Count int64         `json:"count"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
}

// Summarize computes duration percentiles over the non-synthetic case
// results of a run. Durations above one hour are clamped.
func Summarize(result *runner.RunResult) DurationSummary {
	h := hdrhistogram.New(minTrackable, maxTrackable, sigFigs)
	for _, r := range result.Results {
		if r.Synthetic {
			continue
		}
		us := r.Duration.Microseconds()
		if us < minTrackable {
			us = minTrackable
		}
		if us > maxTrackable {
			us = maxTrackable
		}
		_ = h.RecordValue(us)
	}

	if h.TotalCount() == 0 {
		return DurationSummary{}
	}

	return DurationSummary{
		Count: h.TotalCount(),
		Min:   micros(h.Min()),
		Max:   micros(h.Max()),
		Mean:  micros(int64(h.Mean())),
		P50:   micros(h.ValueAtQuantile(50)),
		P95:   micros(h.ValueAtQuantile(95)),
		P99:   micros(h.ValueAtQuantile(99)),
	}
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
