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

// Package trend aggregates flap test results into per-interface convergence
// trends and fleet-wide stability counters.
//
// The package works on record sources handed to it by the caller and never
// touches the filesystem; see the resultdir package for loading results from
// a results directory.
package trend

import (
	"maps"
	"slices"

	"github.com/openconfig/flaptrend/internal/flapresult"
)

// Direction classifies how convergence time moved between the first and the
// second half of a series.
type Direction string

// Trend directions.
const (
	Improving Direction = "IMPROVING"
	Degrading Direction = "DEGRADING"
	Stable    Direction = "STABLE"
)

// minSamples is the smallest series a trend is computed for.
const minSamples = 2

// Sample is one convergence measurement of a trend key.
type Sample struct {
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
	Time      float64           `json:"time" yaml:"time"`
	Status    flapresult.Status `json:"status" yaml:"status"`
}

// Entry is the convergence time series of one device interface.
type Entry struct {
	Key           string    `json:"key" yaml:"key"`
	Samples       []Sample  `json:"data" yaml:"data"`
	Average       float64   `json:"average" yaml:"average"`
	Min           float64   `json:"min" yaml:"min"`
	Max           float64   `json:"max" yaml:"max"`
	FirstHalfAvg  float64   `json:"first_half_avg" yaml:"first_half_avg"`
	SecondHalfAvg float64   `json:"second_half_avg" yaml:"second_half_avg"`
	Trend         Direction `json:"trend" yaml:"trend"`
}

// Measurements returns the number of samples in the series.
func (e *Entry) Measurements() int {
	return len(e.Samples)
}

// Times returns the convergence times in series order.
func (e *Entry) Times() []float64 {
	times := make([]float64, len(e.Samples))
	for i, s := range e.Samples {
		times[i] = s.Time
	}
	return times
}

// Timestamps returns the run timestamps in series order.
func (e *Entry) Timestamps() []string {
	ts := make([]string, len(e.Samples))
	for i, s := range e.Samples {
		ts[i] = s.Timestamp
	}
	return ts
}

// Change returns the improvement (for IMPROVING) or degradation (for
// DEGRADING) of the second half relative to the first half, in percent.  It
// returns false for STABLE series and when the first half averages zero.
func (e *Entry) Change() (float64, bool) {
	if e.FirstHalfAvg == 0 {
		return 0, false
	}
	switch e.Trend {
	case Improving:
		return (e.FirstHalfAvg - e.SecondHalfAvg) / e.FirstHalfAvg * 100, true
	case Degrading:
		return (e.SecondHalfAvg - e.FirstHalfAvg) / e.FirstHalfAvg * 100, true
	}
	return 0, false
}

// Flatten tags every record with the timestamp of its run and returns all
// records in run order, then in order within the run.
func Flatten(runs []flapresult.Run) []flapresult.Record {
	var records []flapresult.Record
	for _, run := range runs {
		for _, r := range run.Records {
			r.TestRun = run.Timestamp
			records = append(records, r)
		}
	}
	return records
}

// Trends groups the converged records by trend key and computes the trend of
// every key with at least two measurements.  Records without a convergence
// time are left out, and keys with a single measurement are dropped.
func Trends(records []flapresult.Record) map[string]*Entry {
	byKey := make(map[string][]Sample)
	for _, r := range records {
		if !r.Converged() {
			continue
		}
		k := r.Key()
		byKey[k] = append(byKey[k], Sample{
			Timestamp: r.TestRun,
			Time:      *r.ConvergenceTime,
			Status:    r.Status,
		})
	}

	trends := make(map[string]*Entry)
	for k, samples := range byKey {
		if len(samples) < minSamples {
			continue
		}
		trends[k] = newEntry(k, samples)
	}
	return trends
}

// SortedKeys returns the keys of trends in lexicographic order.
func SortedKeys(trends map[string]*Entry) []string {
	return slices.Sorted(maps.Keys(trends))
}

func newEntry(key string, samples []Sample) *Entry {
	e := &Entry{Key: key, Samples: samples}
	times := e.Times()

	e.Average = mean(times)
	e.Min = slices.Min(times)
	e.Max = slices.Max(times)

	mid := len(times) / 2
	e.FirstHalfAvg = mean(times[:mid])
	e.SecondHalfAvg = mean(times[mid:])

	switch {
	case e.SecondHalfAvg < e.FirstHalfAvg:
		e.Trend = Improving
	case e.SecondHalfAvg > e.FirstHalfAvg:
		e.Trend = Degrading
	default:
		e.Trend = Stable
	}
	return e
}

// mean returns the arithmetic mean of xs, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
