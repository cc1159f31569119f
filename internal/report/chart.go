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
	"html/template"
	"io"
	"strings"

	"github.com/openconfig/flaptrend/internal/trend"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func titleCase(input string) string {
	return cases.Title(language.English).String(strings.ToLower(input))
}

var chartTpl = template.Must(template.New("chartTpl").Funcs(template.FuncMap{"titleCase": titleCase}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>OSPF Convergence Trends</title>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/Chart.js/4.4.0/chart.umd.min.js"></script>
    <style>
        body {
            font-family: Arial, sans-serif;
            max-width: 1200px;
            margin: 50px auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .chart-container, .digest {
            background: white;
            padding: 30px;
            border-radius: 10px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            margin-bottom: 30px;
        }
        h1 {
            color: #2c3e50;
            text-align: center;
        }
        table {
            border-collapse: collapse;
        }
        th, td {
            padding: 4px 12px;
            border-bottom: 1px solid #ddd;
        }
    </style>
</head>
<body>
    <h1>📈 OSPF Convergence Trends Over Time</h1>
    <div class="digest">
{{.Digest}}
    </div>
{{range .Charts}}
    <div class="chart-container">
        <canvas id="chart_{{.ID}}"></canvas>
    </div>
    <script>
        new Chart(document.getElementById('chart_{{.ID}}'), {
            type: 'line',
            data: {
                labels: {{.Labels}},
                datasets: [{
                    label: '{{.Key}}',
                    data: {{.Times}},
                    borderColor: 'rgb(75, 192, 192)',
                    tension: 0.1,
                    fill: false
                }]
            },
            options: {
                responsive: true,
                plugins: {
                    title: {
                        display: true,
                        text: 'Convergence Time: {{.Key}} ({{titleCase .Trend}})'
                    }
                },
                scales: {
                    y: {
                        beginAtZero: true,
                        title: {
                            display: true,
                            text: 'Convergence Time (seconds)'
                        }
                    }
                }
            }
        });
    </script>
{{end}}
</body>
</html>
`))

// chart is one canvas of the page.  ID is the position of the key in sorted
// order.
type chart struct {
	ID     int
	Key    string
	Trend  string
	Labels []string
	Times  []float64
}

// WriteChart writes an HTML page with one line chart of convergence time per
// run for every trend key, preceded by the digest of the analysis.
func WriteChart(w io.Writer, a *trend.Analysis) error {
	digest, err := DigestHTML(a)
	if err != nil {
		return err
	}

	var page struct {
		Digest template.HTML
		Charts []chart
	}
	page.Digest = digest
	for i, k := range a.Keys() {
		e := a.Trends[k]
		page.Charts = append(page.Charts, chart{
			ID:     i,
			Key:    k,
			Trend:  string(e.Trend),
			Labels: e.Timestamps(),
			Times:  e.Times(),
		})
	}
	return chartTpl.Execute(w, page)
}
