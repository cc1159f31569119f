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
	"github.com/openconfig/flaptrend/internal/flapresult"
)

// Stability holds the fleet-wide counters over all records.
type Stability struct {
	TotalTests     int     `json:"total_tests" yaml:"total_tests"`
	Passed         int     `json:"passed" yaml:"passed"`
	Partial        int     `json:"partial" yaml:"partial"`
	Failed         int     `json:"failed" yaml:"failed"`
	DRBDRChanges   int     `json:"dr_bdr_changes" yaml:"dr_bdr_changes"`
	AvgConvergence float64 `json:"avg_convergence" yaml:"avg_convergence"`
}

// stabilityFields is the number of counters in Stability.
const stabilityFields = 6

// Percent returns n as a percentage of the total number of tests.
func (s Stability) Percent(n int) float64 {
	if s.TotalTests == 0 {
		return 0
	}
	return float64(n) / float64(s.TotalTests) * 100
}

// ComputeStability counts outcomes and DR/BDR state changes over all records
// and averages every convergence time regardless of trend key.
func ComputeStability(records []flapresult.Record) Stability {
	s := Stability{TotalTests: len(records)}
	var times []float64
	for _, r := range records {
		switch r.Status {
		case flapresult.StatusPassed:
			s.Passed++
		case flapresult.StatusPartial:
			s.Partial++
		default:
			s.Failed++
		}
		if r.Converged() {
			times = append(times, *r.ConvergenceTime)
		}
		s.DRBDRChanges += r.BaselineNeighbors.StateChanges(r.FinalNeighbors)
	}
	s.AvgConvergence = mean(times)
	return s
}
