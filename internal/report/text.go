// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report renders trend analyses as a text report, an HTML chart page,
// a status badge and a machine-readable summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/openconfig/flaptrend/internal/trend"
)

const (
	// TextName is the file name of the text report in the results directory.
	TextName = "trend_analysis.txt"
	// ChartName is the file name of the chart page in the results directory.
	ChartName = "trend_chart.html"

	reportWidth = 80
	timeLayout  = "2006-01-02 15:04:05"
)

var (
	doubleRule = strings.Repeat("=", reportWidth)
	singleRule = strings.Repeat("-", reportWidth)
)

// Text returns the plain text trend report.  The report lines are joined
// without a trailing newline.
func Text(a *trend.Analysis) string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add(doubleRule)
	add("OSPF FLAP TEST - TREND ANALYSIS REPORT")
	add(doubleRule)
	add("Generated: %s", a.Generated.Format(timeLayout))
	add("")

	s := a.Stability
	add("OVERALL STABILITY")
	add(singleRule)
	add("Total Test Runs:    %d", s.TotalTests)
	add("Passed:             %d (%.1f%%)", s.Passed, s.Percent(s.Passed))
	add("Partial:            %d (%.1f%%)", s.Partial, s.Percent(s.Partial))
	add("Failed:             %d (%.1f%%)", s.Failed, s.Percent(s.Failed))
	add("DR/BDR Changes:     %d", s.DRBDRChanges)
	add("Avg Convergence:    %.2f seconds", s.AvgConvergence)
	add("")

	add("CONVERGENCE TRENDS BY INTERFACE")
	add(singleRule)
	for _, k := range a.Keys() {
		e := a.Trends[k]
		add("\n%s", k)
		add("  Measurements:     %d", e.Measurements())
		add("  Average:          %.2f seconds", e.Average)
		add("  Min:              %.2f seconds", e.Min)
		add("  Max:              %.2f seconds", e.Max)
		add("  Trend:            %s", e.Trend)

		label := ""
		switch e.Trend {
		case trend.Improving:
			label = "Improvement:"
		case trend.Degrading:
			label = "Degradation:"
		}
		if label != "" {
			if pct, ok := e.Change(); ok {
				add("  %-18s%.1f%%", label, pct)
			} else {
				add("  %-18sn/a", label)
			}
		}
	}
	add("")

	add("TREND-BASED RECOMMENDATIONS")
	add(singleRule)
	for _, r := range a.Recommendations {
		if !r.Warning() {
			add("\n✅ %s", r.Message)
			continue
		}
		add("\n⚠️  WARNING: %s", r.Message)
		for _, k := range r.Keys {
			add("   - %s", k)
		}
		if r.Action != "" {
			add("   Action: %s", r.Action)
		}
	}
	add("")
	add(doubleRule)

	return strings.Join(lines, "\n")
}

// WriteText writes the text report to w.
func WriteText(w io.Writer, a *trend.Analysis) error {
	_, err := io.WriteString(w, Text(a))
	return err
}
