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
	"io"
	"strings"
	"text/template"

	"github.com/openconfig/flaptrend/internal/trend"
)

// BadgeLabel is the label of the status badge.
const BadgeLabel = "ospf convergence"

var badgeTpl = template.Must(template.New("badgeTpl").Parse(`<svg xmlns='http://www.w3.org/2000/svg' width='{{.Width}}' height='20' role="img">
<linearGradient id='a' x2='0' y2='100%'>
  <stop offset='0' stop-color='#bbb' stop-opacity='.1'/>
  <stop offset='1' stop-opacity='.1'/>
</linearGradient>
<clipPath id="r">
  <rect width="{{.Width}}" height="20" rx="3" fill="#fff"></rect>
</clipPath>
<g clip-path="url(#r)">
  <rect width="{{.LabelWidth}}" height="20" fill="#555"></rect>
  <rect x="{{.LabelWidth}}" width="{{.MessageWidth}}" height="20" fill="{{.Color}}"></rect>
  <rect width="{{.Width}}" height="20" fill="url(#a)"></rect>
</g>
<g fill='#fff' text-anchor='middle' font-family='DejaVu Sans,Verdana,Geneva,sans-serif' font-size='11'>
  <text x='{{.LabelAnchor}}' y='15' fill='#010101' fill-opacity='.3'>
	{{.Label}}
  </text>
  <text x='{{.LabelAnchor}}' y='14'>
	{{.Label}}
  </text>
  <text x='{{.MessageAnchor}}' y='15' fill='#010101' fill-opacity='.3'>
	{{.Message}}
  </text>
  <text x='{{.MessageAnchor}}' y='14'>
	{{.Message}}
  </text>
</g>
</svg>`))

// badge holds the geometry of an SVG badge.
type badge struct {
	Color         string
	Label         string
	LabelAnchor   int
	LabelWidth    int
	Message       string
	MessageAnchor int
	MessageWidth  int
	Width         int
}

func newBadge(label, message string) badge {
	b := badge{
		Label:   strings.ToLower(label),
		Message: strings.ToLower(message),
	}

	switch trend.Verdict(b.Message) {
	case trend.VerdictSuccess:
		b.Color = "#4C1"
	case trend.VerdictDegraded:
		b.Color = "#DFB317"
	case trend.VerdictFailure:
		b.Color = "#E05D44"
	default:
		b.Color = "#9F9F9F"
	}

	b.LabelWidth = max(estimateStringWidth(b.Label), 80)
	b.LabelAnchor = b.LabelWidth / 2
	b.MessageWidth = max(estimateStringWidth(b.Message), 80)
	b.MessageAnchor = b.LabelWidth + (b.MessageWidth / 2)
	b.Width = b.LabelWidth + b.MessageWidth
	return b
}

// svgBadge returns an SVG image with the label identifying the purpose of the
// badge and the message giving its status.  The verdict messages get their
// own colors; other messages are shown in a neutral color.
func svgBadge(label, message string) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	err := badgeTpl.Execute(&buf, newBadge(label, message))
	return &buf, err
}

// estimateStringWidth determines the length of s. The character size is always
// 7px; this is not accurate for variable width fonts.
func estimateStringWidth(s string) int {
	const (
		padding     = 10
		avgCharSize = 7
	)
	return padding + (avgCharSize * len(s))
}

// WriteBadge writes the status badge of the analysis to w.
func WriteBadge(w io.Writer, a *trend.Analysis) error {
	buf, err := svgBadge(BadgeLabel, string(a.Verdict()))
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}
