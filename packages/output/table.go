package output

import (
	"bytes"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SuiteStats aggregates the results of one suite
type SuiteStats struct {
	Name        string
	Cases       int
	Passed      int
	Failed      int
	Errored     int
	Duration    time.Duration
	SetupFailed bool
}

// Status returns the overall status label of the suite
func (s SuiteStats) Status() string {
	switch {
	case s.SetupFailed:
		return "SETUP FAILED"
	case s.Errored > 0:
		return "ERROR"
	case s.Failed > 0:
		return "FAIL"
	default:
		return "PASS"
	}
}

// CollectSuiteStats groups a run's results by suite, in run order
func CollectSuiteStats(result *runner.RunResult) []SuiteStats {
	byName := make(map[string]*SuiteStats)
	var order []string
	get := func(name string) *SuiteStats {
		if s, ok := byName[name]; ok {
			return s
		}
		s := &SuiteStats{Name: name}
		byName[name] = s
		order = append(order, name)
		return s
	}

	for _, r := range result.Results {
		s := get(r.Suite)
		s.Cases++
		s.Duration += r.Duration
		switch r.Outcome.Kind {
		case suite.KindPass:
			s.Passed++
		case suite.KindFail:
			s.Failed++
		default:
			s.Errored++
		}
	}
	for _, f := range result.FailedSetups {
		get(f.Suite).SetupFailed = true
	}

	stats := make([]SuiteStats, 0, len(order))
	for _, name := range order {
		stats = append(stats, *byName[name])
	}
	return stats
}

// RenderSuiteTable renders a per-suite summary table
func RenderSuiteTable(result *runner.RunResult) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Suite", "Cases", "Passed", "Failed", "Errors", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Cases", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Errors", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	for _, s := range CollectSuiteStats(result) {
		t.AppendRow(table.Row{s.Name, s.Cases, s.Passed, s.Failed, s.Errored, formatDuration(s.Duration), s.Status()})
	}

	overall := "PASS"
	if !result.Success() {
		overall = "FAIL"
	}
	t.AppendFooter(table.Row{"TOTAL", result.Total(), result.Passed(), result.Failed(), result.Errored(), formatDuration(result.Duration), overall})
	t.SetStyle(table.StyleLight)

	t.Render()
	return buf.String()
}
