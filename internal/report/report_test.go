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

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"
	"github.com/openconfig/flaptrend/internal/flapresult"
	"github.com/openconfig/flaptrend/internal/trend"
	"gopkg.in/yaml.v3"
)

var generated = time.Date(2025, 10, 2, 9, 30, 0, 0, time.UTC)

func ptr(f float64) *float64 { return &f }

// analysis runs the trend analysis over one run per element of times.  Each
// run holds one record per key with the time at that position; negative
// times produce failed records without a convergence time.
func analysis(t *testing.T, times map[string][]float64) *trend.Analysis {
	t.Helper()
	n := 0
	for _, ts := range times {
		n = max(n, len(ts))
	}
	runs := make([]flapresult.Run, n)
	for i := range runs {
		runs[i].Timestamp = "2025100" + string(rune('1'+i)) + "_100000"
	}
	for k, ts := range times {
		device, intf, _ := strings.Cut(k, "-")
		for i, tm := range ts {
			r := flapresult.Record{Device: device, Interface: intf, Status: flapresult.StatusPassed}
			if tm < 0 {
				r.Status = flapresult.StatusFailed
			} else {
				r.ConvergenceTime = ptr(tm)
			}
			runs[i].Records = append(runs[i].Records, r)
		}
	}
	a := trend.Analyze(runs, trend.DefaultThresholds())
	a.ID = "test-analysis"
	a.Generated = generated
	return a
}

func TestTextSingleRecord(t *testing.T) {
	a := analysis(t, map[string][]float64{"R1-Gi0/1": {5}})

	rule := strings.Repeat("=", 80)
	dash := strings.Repeat("-", 80)
	want := strings.Join([]string{
		rule,
		"OSPF FLAP TEST - TREND ANALYSIS REPORT",
		rule,
		"Generated: 2025-10-02 09:30:00",
		"",
		"OVERALL STABILITY",
		dash,
		"Total Test Runs:    1",
		"Passed:             1 (100.0%)",
		"Partial:            0 (0.0%)",
		"Failed:             0 (0.0%)",
		"DR/BDR Changes:     0",
		"Avg Convergence:    5.00 seconds",
		"",
		"CONVERGENCE TRENDS BY INTERFACE",
		dash,
		"",
		"TREND-BASED RECOMMENDATIONS",
		dash,
		"",
		"✅ Network performance is stable with no degradation",
		"",
		rule,
	}, "\n")

	if diff := cmp.Diff(want, Text(a)); diff != "" {
		t.Errorf("Text() -want,+got:\n%s", diff)
	}
}

func TestTextTrends(t *testing.T) {
	a := analysis(t, map[string][]float64{
		"R2-Gi0/1": {5, 5, 10, 10},
		"R1-Gi0/1": {10, 10, 5, 5},
		"R1-Gi0/2": {4, 4, 4, -1},
	})
	got := Text(a)

	for _, want := range []string{
		"Total Test Runs:    12",
		"Passed:             11 (91.7%)",
		"Failed:             1 (8.3%)",
		"Avg Convergence:    6.55 seconds",
		strings.Join([]string{
			"\nR1-Gi0/1",
			"  Measurements:     4",
			"  Average:          7.50 seconds",
			"  Min:              5.00 seconds",
			"  Max:              10.00 seconds",
			"  Trend:            IMPROVING",
			"  Improvement:      50.0%",
		}, "\n"),
		strings.Join([]string{
			"\nR1-Gi0/2",
			"  Measurements:     3",
			"  Average:          4.00 seconds",
			"  Min:              4.00 seconds",
			"  Max:              4.00 seconds",
			"  Trend:            STABLE",
			"\nR2-Gi0/1",
		}, "\n"),
		"  Trend:            DEGRADING\n  Degradation:      100.0%",
		strings.Join([]string{
			"\n⚠️  WARNING: Performance degradation detected",
			"   - R2-Gi0/1",
			"   Action: Investigate network changes, traffic patterns, or hardware issues",
		}, "\n"),
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Text() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "✅") {
		t.Errorf("Text() reports stable network despite failures:\n%s", got)
	}
	if i, j := strings.Index(got, "\nR1-Gi0/1\n"), strings.Index(got, "\nR2-Gi0/1\n"); i < 0 || j < i {
		t.Errorf("Text() trend blocks not sorted by key:\n%s", got)
	}
}

func TestTextSlowConvergence(t *testing.T) {
	a := analysis(t, map[string][]float64{"R1-Gi0/1": {12, 12}})
	got := Text(a)
	for _, want := range []string{
		"\n⚠️  WARNING: Convergence time exceeds 10 seconds\n   Action: Tune OSPF timers (hello, dead intervals)",
		"\n✅ Network performance is stable with no degradation",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Text() missing %q in:\n%s", want, got)
		}
	}
}

func TestTextZeroBaseline(t *testing.T) {
	a := analysis(t, map[string][]float64{"R1-Gi0/1": {0, 3}})
	if want, got := "  Degradation:      n/a", Text(a); !strings.Contains(got, want) {
		t.Errorf("Text() missing %q in:\n%s", want, got)
	}
}

func TestDigest(t *testing.T) {
	a := analysis(t, map[string][]float64{
		"R1-Gi0/1": {5, 5, 10, 10},
		"R1-Gi0/2": {3},
	})
	got := Digest(a)
	for _, want := range []string{
		"| Total test runs | 5 |\n",
		"| Passed | 5 (100.0%) |\n",
		"| R1-Gi0/1 | 4 | 7.50 s | 5.00 s | 10.00 s | DEGRADING |\n",
		"- **Warning:** Performance degradation detected (`R1-Gi0/1`). Investigate network changes, traffic patterns, or hardware issues.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Digest() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "R1-Gi0/2") {
		t.Errorf("Digest() lists a key with a single sample:\n%s", got)
	}

	html, err := DigestHTML(a)
	if err != nil {
		t.Fatalf("DigestHTML() got error: %v", err)
	}
	for _, want := range []string{"<table>", "<h2>Recommendations</h2>", "<strong>Warning:</strong>", "<code>R1-Gi0/1</code>"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("DigestHTML() missing %q in:\n%s", want, html)
		}
	}
}

func TestWriteChart(t *testing.T) {
	a := analysis(t, map[string][]float64{
		"R2-Gi0/1": {5, 5, 10, 10},
		"R1-Gi0/1": {10, 10, 5, 5},
	})
	var buf bytes.Buffer
	if err := WriteChart(&buf, a); err != nil {
		t.Fatalf("WriteChart() got error: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		`<canvas id="chart_0"></canvas>`,
		`<canvas id="chart_1"></canvas>`,
		`getElementById('chart_0')`,
		`getElementById('chart_1')`,
		`labels: ["20251001_100000","20251002_100000","20251003_100000","20251004_100000"]`,
		`data: [10,10,5,5]`,
		`data: [5,5,10,10]`,
		`(Improving)`,
		`(Degrading)`,
		`chart.umd.min.js`,
		`<h2>Overall Stability</h2>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("WriteChart() missing %q in:\n%s", want, got)
		}
	}
	if i, j := strings.Index(got, "data: [10,10,5,5]"), strings.Index(got, "data: [5,5,10,10]"); j < i {
		t.Errorf("WriteChart() charts not sorted by key")
	}
}

func TestWriteChartDistinctCanvases(t *testing.T) {
	a := analysis(t, map[string][]float64{
		"R1-Gi0_1": {1, 2},
		"R1_Gi0-1": {2, 1},
	})
	var buf bytes.Buffer
	if err := WriteChart(&buf, a); err != nil {
		t.Fatalf("WriteChart() got error: %v", err)
	}
	got := buf.String()
	for _, id := range []string{"chart_0", "chart_1"} {
		if n := strings.Count(got, `<canvas id="`+id+`">`); n != 1 {
			t.Errorf("WriteChart() has %d canvases with id %s, want 1", n, id)
		}
	}
}

func TestWriteChartEscapesKeys(t *testing.T) {
	a := analysis(t, map[string][]float64{"R1-<script>": {1, 2}})
	var buf bytes.Buffer
	if err := WriteChart(&buf, a); err != nil {
		t.Fatalf("WriteChart() got error: %v", err)
	}
	if strings.Contains(buf.String(), "<script>'") || strings.Contains(buf.String(), "<script></") {
		t.Errorf("WriteChart() did not escape key:\n%s", buf.String())
	}
}

func TestSVGBadge(t *testing.T) {
	cases := []struct {
		message   string
		wantColor string
	}{
		{"success", "#4C1"},
		{"Degraded", "#DFB317"},
		{"failure", "#E05D44"},
		{"pending", "#9F9F9F"},
	}
	for _, c := range cases {
		buf, err := svgBadge(BadgeLabel, c.message)
		if err != nil {
			t.Fatalf("svgBadge(%q) got error: %v", c.message, err)
		}
		got := buf.String()
		if !strings.Contains(got, `fill="`+c.wantColor+`"`) {
			t.Errorf("svgBadge(%q) missing color %s:\n%s", c.message, c.wantColor, got)
		}
		if !strings.Contains(got, strings.ToLower(c.message)) {
			t.Errorf("svgBadge(%q) missing message:\n%s", c.message, got)
		}
	}

	b := newBadge(BadgeLabel, "success")
	if b.LabelWidth != estimateStringWidth(BadgeLabel) || b.MessageWidth != 80 {
		t.Errorf("newBadge() widths got (%d, %d), want (%d, 80)", b.LabelWidth, b.MessageWidth, estimateStringWidth(BadgeLabel))
	}
	if b.Width != b.LabelWidth+b.MessageWidth {
		t.Errorf("newBadge() width got %d, want %d", b.Width, b.LabelWidth+b.MessageWidth)
	}
}

func TestWriteBadge(t *testing.T) {
	a := analysis(t, map[string][]float64{"R1-Gi0/1": {5, -1}})
	var buf bytes.Buffer
	if err := WriteBadge(&buf, a); err != nil {
		t.Fatalf("WriteBadge() got error: %v", err)
	}
	if !strings.Contains(buf.String(), "failure") {
		t.Errorf("WriteBadge() got %s, want a failure badge", buf.String())
	}
}

func TestWriteSummary(t *testing.T) {
	a := analysis(t, map[string][]float64{
		"R1-Gi0/1": {10, 10, 5, 5},
		"R1-Gi0/2": {1},
	})
	skipped := []string{"results/ospf_flap_bad/ospf_flap_results.json"}
	props := map[string]string{"git.commit": "abc123"}
	want := NewSummary(a, skipped, props)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSummary(&buf, want, FormatJSON); err != nil {
			t.Fatalf("WriteSummary() got error: %v", err)
		}
		got := &Summary{}
		if err := json.Unmarshal(buf.Bytes(), got); err != nil {
			t.Fatalf("json.Unmarshal() got error: %v\n%s", err, buf.String())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("summary JSON round trip -want,+got:\n%s", diff)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSummary(&buf, want, FormatYAML); err != nil {
			t.Fatalf("WriteSummary() got error: %v", err)
		}
		got := &Summary{}
		if err := yaml.Unmarshal(buf.Bytes(), got); err != nil {
			t.Fatalf("yaml.Unmarshal() got error: %v\n%s", err, buf.String())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("summary YAML round trip -want,+got:\n%s", diff)
		}
	})

	if want.Verdict != trend.VerdictSuccess {
		t.Errorf("Verdict got %q, want %q", want.Verdict, trend.VerdictSuccess)
	}
	if len(want.Trends) != 1 || want.Trends[0].Key != "R1-Gi0/1" {
		t.Errorf("Trends got %s, want only R1-Gi0/1", pretty.Sprint(want.Trends))
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"summary.json": FormatJSON,
		"summary.YAML": FormatYAML,
		"summary.yml":  FormatYAML,
		"summary":      FormatJSON,
	}
	for name, want := range cases {
		if got := FormatFor(name); got != want {
			t.Errorf("FormatFor(%q) got %q, want %q", name, got, want)
		}
	}
	if got := ContentType("trend_chart.html"); got != "text/html; charset=utf-8" {
		t.Errorf("ContentType() got %q", got)
	}
}
