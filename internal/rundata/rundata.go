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

// Package rundata collects the provenance of a trend analysis.
//
// The values collected are:
//
//   - build.go_version - from runtime/debug.BuildInfo.GoVersion
//   - build.path - from runtime/debug.BuildInfo.Path
//   - build.main.path - from runtime/debug.BuildInfo.Main.Path
//   - build.main.version - from runtime/debug.BuildInfo.Main.Version
//   - build.main.sum - from runtime/debug.BuildInfo.Main.Sum
//   - For each build setting obtained from runtime/debug.BuildInfo.Settings:
//     build.settings.key - the key and the value from runtime/debug.BuildSetting.
//   - git.branch - the branch checked out in the work tree holding the
//     results directory, if any.
//   - git.commit - commit hash at HEAD of the git work tree holding the
//     results directory, if any.
//   - git.commit_timestamp - commit timestamp at HEAD in Unix epoch seconds.
//   - git.origin - the fetch URL of the "origin" remote.
//   - git.clean - true if the work tree is clean, or false otherwise.
//   - results.dir - the results directory, relative to the work tree root
//     when it lives in one.
//   - time.begin - when the analysis started, in Unix epoch seconds.
//   - time.end - when the properties were collected, in Unix epoch seconds.
package rundata

import (
	"time"
)

var (
	timeBegin = time.Now()
	now       = time.Now
)

// Properties builds the provenance map of an analysis of resultsDir.
func Properties(resultsDir string) map[string]string {
	m := map[string]string{"results.dir": resultsDir}
	buildInfo(m)
	if rr := openResultsRepo(resultsDir); rr != nil {
		rr.record(m, resultsDir)
	}
	timing(m)
	return m
}
