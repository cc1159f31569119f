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
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/openconfig/flaptrend/internal/trend"
	"gopkg.in/yaml.v3"
)

// Summary is the machine-readable form of an analysis.
//
// Example (JSON):
//
//	{
//	  "id": "4f0c7d2e-8c1b-4c39-9d0e-2b8f4f1d8c1a",
//	  "generated": "2025-10-02T09:30:00Z",
//	  "verdict": "degraded",
//	  "stability": {"total_tests": 8, "passed": 8, ...},
//	  "trends": [{"key": "R1-GigabitEthernet0/1", "trend": "DEGRADING", ...}],
//	  ...
//	}
type Summary struct {
	ID              string                 `json:"id" yaml:"id"`
	Generated       time.Time              `json:"generated" yaml:"generated"`
	Verdict         trend.Verdict          `json:"verdict" yaml:"verdict"`
	Thresholds      trend.Thresholds       `json:"thresholds" yaml:"thresholds"`
	Runs            []string               `json:"runs" yaml:"runs"`
	Skipped         []string               `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Stability       trend.Stability        `json:"stability" yaml:"stability"`
	Trends          []*trend.Entry         `json:"trends" yaml:"trends"`
	Recommendations []trend.Recommendation `json:"recommendations" yaml:"recommendations"`
	Properties      map[string]string      `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// NewSummary builds the summary of a, with trends in key order.  skipped
// lists the result files that could not be loaded and props the provenance
// of the run.
func NewSummary(a *trend.Analysis, skipped []string, props map[string]string) *Summary {
	s := &Summary{
		ID:              a.ID,
		Generated:       a.Generated,
		Verdict:         a.Verdict(),
		Thresholds:      a.Thresholds,
		Runs:            a.Runs,
		Skipped:         skipped,
		Stability:       a.Stability,
		Trends:          []*trend.Entry{},
		Recommendations: a.Recommendations,
		Properties:      props,
	}
	for _, k := range a.Keys() {
		s.Trends = append(s.Trends, a.Trends[k])
	}
	return s
}

// Format is an encoding of the summary.
type Format string

// Summary encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the summary encoding from a file name: YAML for .yaml and
// .yml, JSON otherwise.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// WriteSummary encodes s to w.
func WriteSummary(w io.Writer, s *Summary, f Format) error {
	if f == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ContentType returns the MIME type of an output file name.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	}
	return "text/plain; charset=utf-8"
}
