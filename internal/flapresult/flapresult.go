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

// Package flapresult decodes the per-interface outcomes written by OSPF
// interface flap test runs.
//
// Each flap run writes one JSON array to
// <results_dir>/ospf_flap_<timestamp>/ospf_flap_results.json, for example:
//
//	[
//	  {
//	    "device": "R1",
//	    "interface": "GigabitEthernet0/1",
//	    "status": "PASSED",
//	    "convergence_time": 12.4,
//	    "baseline_neighbors": {"2.2.2.2": {"state": "FULL/DR", "interface": "Gi0/1"}},
//	    "final_neighbors": {"2.2.2.2": {"state": "FULL/BDR", "interface": "Gi0/1"}},
//	    "start_time": "2025-10-01T10:00:00",
//	    "end_time": "2025-10-01T10:00:31"
//	  }
//	]
package flapresult

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Status is the outcome of a single interface flap.
type Status string

// Statuses written by the flap test.  Anything other than PASSED or PARTIAL
// is treated as a failure.
const (
	StatusPassed  Status = "PASSED"
	StatusPartial Status = "PARTIAL"
	StatusFailed  Status = "FAILED"
	StatusError   Status = "ERROR"
)

// Record is one flap-test outcome for a device interface.
type Record struct {
	Device    string `json:"device"`
	Interface string `json:"interface"`
	Status    Status `json:"status"`

	// ConvergenceTime is the number of seconds it took OSPF to return to
	// the baseline neighbor set in FULL state.  Nil when the run never
	// converged.
	ConvergenceTime *float64 `json:"convergence_time,omitempty"`

	BaselineNeighbors Neighbors `json:"baseline_neighbors"`
	FinalNeighbors    Neighbors `json:"final_neighbors"`

	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Error     string `json:"error,omitempty"`

	// TestRun is the run timestamp taken from the run directory name.
	TestRun string `json:"test_run,omitempty"`
}

// Key identifies the convergence time series the record belongs to.
func (r *Record) Key() string {
	return r.Device + "-" + r.Interface
}

// Converged reports whether the record carries a convergence measurement.
func (r *Record) Converged() bool {
	return r.ConvergenceTime != nil
}

// Run is the set of records produced by one flap test run.
type Run struct {
	// Timestamp is the run identifier, e.g. "20251001_100000".
	Timestamp string
	// Path is where the records were read from.  Empty for records that
	// did not come from a file.
	Path    string
	Records []Record
}

// Decode reads a JSON array of records.  The input must hold exactly one
// array and no element may be null.
func Decode(r io.Reader) ([]Record, error) {
	var elems []*Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&elems); err != nil {
		return nil, fmt.Errorf("decoding flap results: %w", err)
	}
	if elems == nil {
		return nil, errors.New("decoding flap results: want an array of records, got null")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("decoding flap results: unexpected data after the records array (offset %d)", dec.InputOffset())
	}

	records := make([]Record, 0, len(elems))
	for i, e := range elems {
		if e == nil {
			return nil, fmt.Errorf("decoding flap results: record %d is null", i)
		}
		records = append(records, *e)
	}
	return records, nil
}
