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

package trend

import (
	"fmt"
	"time"

	"github.com/openconfig/flaptrend/internal/flapresult"
)

// Basis selects what the DR/BDR change count is compared against.
type Basis string

const (
	// BasisSummaryFields scales the ratio by the number of stability
	// counters, giving a fixed limit of 1.8 changes at the default ratio.
	BasisSummaryFields Basis = "summary_fields"
	// BasisTotalTests scales the ratio by the number of tests.
	BasisTotalTests Basis = "total_tests"
)

// ParseBasis validates a basis name.
func ParseBasis(s string) (Basis, error) {
	switch b := Basis(s); b {
	case BasisSummaryFields, BasisTotalTests:
		return b, nil
	}
	return "", fmt.Errorf("unknown DR/BDR threshold basis %q, want %q or %q", s, BasisSummaryFields, BasisTotalTests)
}

// Thresholds drive the recommendations.
type Thresholds struct {
	// SLA is the highest acceptable average convergence time in seconds.
	SLA float64 `json:"sla_seconds" yaml:"sla_seconds"`
	// DRBDRRatio scaled by DRBDRBasis is the DR/BDR change count above
	// which role instability is reported.
	DRBDRRatio float64 `json:"drbdr_ratio" yaml:"drbdr_ratio"`
	DRBDRBasis Basis   `json:"drbdr_basis" yaml:"drbdr_basis"`
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SLA:        10,
		DRBDRRatio: 0.3,
		DRBDRBasis: BasisSummaryFields,
	}
}

// DRBDRLimit returns the DR/BDR change count above which role instability is
// reported for s.
func (t Thresholds) DRBDRLimit(s Stability) float64 {
	if t.DRBDRBasis == BasisTotalTests {
		return float64(s.TotalTests) * t.DRBDRRatio
	}
	return stabilityFields * t.DRBDRRatio
}

// Kind identifies a recommendation.
type Kind string

// Recommendation kinds.
const (
	KindDegradation      Kind = "degradation"
	KindDRBDRInstability Kind = "drbdr_instability"
	KindSlowConvergence  Kind = "slow_convergence"
	KindStable           Kind = "stable"
)

// Recommendation is one finding of the trend analysis.
type Recommendation struct {
	Kind    Kind     `json:"kind" yaml:"kind"`
	Message string   `json:"message" yaml:"message"`
	Action  string   `json:"action,omitempty" yaml:"action,omitempty"`
	Keys    []string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// Warning reports whether the recommendation flags a problem.
func (r Recommendation) Warning() bool {
	return r.Kind != KindStable
}

// Recommend evaluates the heuristics independently.  The stable line is only
// given when no interface degrades and no test failed.
func Recommend(trends map[string]*Entry, s Stability, t Thresholds) []Recommendation {
	var recs []Recommendation

	var degrading []string
	for _, k := range SortedKeys(trends) {
		if trends[k].Trend == Degrading {
			degrading = append(degrading, k)
		}
	}
	if len(degrading) > 0 {
		recs = append(recs, Recommendation{
			Kind:    KindDegradation,
			Message: "Performance degradation detected",
			Action:  "Investigate network changes, traffic patterns, or hardware issues",
			Keys:    degrading,
		})
	}

	if float64(s.DRBDRChanges) > t.DRBDRLimit(s) {
		recs = append(recs, Recommendation{
			Kind:    KindDRBDRInstability,
			Message: "High DR/BDR role instability",
			Action:  "Consider setting OSPF priorities to stabilize roles",
		})
	}

	if s.AvgConvergence > t.SLA {
		recs = append(recs, Recommendation{
			Kind:    KindSlowConvergence,
			Message: fmt.Sprintf("Convergence time exceeds %g seconds", t.SLA),
			Action:  "Tune OSPF timers (hello, dead intervals)",
		})
	}

	if len(degrading) == 0 && s.Failed == 0 {
		recs = append(recs, Recommendation{
			Kind:    KindStable,
			Message: "Network performance is stable with no degradation",
		})
	}
	return recs
}

// Verdict condenses an analysis into a badge status.
type Verdict string

// Verdicts, named after the badge messages they produce.
const (
	VerdictSuccess  Verdict = "success"
	VerdictDegraded Verdict = "degraded"
	VerdictFailure  Verdict = "failure"
)

// Analysis is the outcome of one trend analysis run.
type Analysis struct {
	ID              string            `json:"id" yaml:"id"`
	Generated       time.Time         `json:"generated" yaml:"generated"`
	Thresholds      Thresholds        `json:"thresholds" yaml:"thresholds"`
	Runs            []string          `json:"runs" yaml:"runs"`
	Trends          map[string]*Entry `json:"trends" yaml:"trends"`
	Stability       Stability         `json:"stability" yaml:"stability"`
	Recommendations []Recommendation  `json:"recommendations" yaml:"recommendations"`
}

// Analyze flattens the runs and computes trends, stability and
// recommendations.  The caller fills in ID and Generated.
func Analyze(runs []flapresult.Run, t Thresholds) *Analysis {
	records := Flatten(runs)
	a := &Analysis{
		Thresholds: t,
		Trends:     Trends(records),
		Stability:  ComputeStability(records),
	}
	for _, r := range runs {
		a.Runs = append(a.Runs, r.Timestamp)
	}
	a.Recommendations = Recommend(a.Trends, a.Stability, t)
	return a
}

// Keys returns the trend keys in lexicographic order.
func (a *Analysis) Keys() []string {
	return SortedKeys(a.Trends)
}

// Verdict returns failure when any test failed, degraded when any other
// recommendation is a warning, and success otherwise.
func (a *Analysis) Verdict() Verdict {
	if a.Stability.Failed > 0 {
		return VerdictFailure
	}
	for _, r := range a.Recommendations {
		if r.Warning() {
			return VerdictDegraded
		}
	}
	return VerdictSuccess
}
