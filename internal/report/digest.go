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
	"fmt"
	"html/template"
	"strings"

	"github.com/openconfig/flaptrend/internal/trend"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// escapeCell keeps interface names from breaking a Markdown table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Digest returns a Markdown summary of the analysis: the stability counters,
// one row per trend key and the recommendations.
func Digest(a *trend.Analysis) string {
	var b strings.Builder
	s := a.Stability

	b.WriteString("## Overall Stability\n\n")
	b.WriteString("| Metric | Value |\n| --- | --- |\n")
	fmt.Fprintf(&b, "| Total test runs | %d |\n", s.TotalTests)
	fmt.Fprintf(&b, "| Passed | %d (%.1f%%) |\n", s.Passed, s.Percent(s.Passed))
	fmt.Fprintf(&b, "| Partial | %d (%.1f%%) |\n", s.Partial, s.Percent(s.Partial))
	fmt.Fprintf(&b, "| Failed | %d (%.1f%%) |\n", s.Failed, s.Percent(s.Failed))
	fmt.Fprintf(&b, "| DR/BDR changes | %d |\n", s.DRBDRChanges)
	fmt.Fprintf(&b, "| Avg convergence | %.2f s |\n", s.AvgConvergence)

	if keys := a.Keys(); len(keys) > 0 {
		b.WriteString("\n## Convergence Trends\n\n")
		b.WriteString("| Interface | Samples | Average | Min | Max | Trend |\n| --- | ---: | ---: | ---: | ---: | --- |\n")
		for _, k := range keys {
			e := a.Trends[k]
			fmt.Fprintf(&b, "| %s | %d | %.2f s | %.2f s | %.2f s | %s |\n",
				escapeCell(k), e.Measurements(), e.Average, e.Min, e.Max, e.Trend)
		}
	}

	b.WriteString("\n## Recommendations\n\n")
	for _, r := range a.Recommendations {
		if !r.Warning() {
			fmt.Fprintf(&b, "- %s\n", r.Message)
			continue
		}
		fmt.Fprintf(&b, "- **Warning:** %s", r.Message)
		if len(r.Keys) > 0 {
			fmt.Fprintf(&b, " (`%s`)", strings.Join(r.Keys, "`, `"))
		}
		if r.Action != "" {
			fmt.Fprintf(&b, ". %s.", r.Action)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DigestHTML renders Digest as HTML.  Raw HTML in the input data is not
// passed through.
func DigestHTML(a *trend.Analysis) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Digest(a)), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
