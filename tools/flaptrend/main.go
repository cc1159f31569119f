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

// Command flaptrend tracks OSPF convergence performance over time across
// multiple interface flap test runs.  It reads every
// ospf_flap_<timestamp>/ospf_flap_results.json under a results directory and
// writes trend_analysis.txt and trend_chart.html next to them.
//
// Usage:
//
//	flaptrend <results_directory>
//
// Example:
//
//	flaptrend results/
package main

import (
	"github.com/openconfig/flaptrend/tools/flaptrend/cmd"
)

func main() {
	cmd.Execute()
}
