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

package rundata

import (
	"fmt"
	"runtime/debug"

	"github.com/golang/glog"
)

// buildInfo records how the flaptrend binary was built.
func buildInfo(m map[string]string) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		glog.Warning("Binary carries no build info")
		return
	}
	props := map[string]string{
		"build.go_version":   bi.GoVersion,
		"build.path":         bi.Path,
		"build.main.path":    bi.Main.Path,
		"build.main.version": bi.Main.Version,
		"build.main.sum":     bi.Main.Sum,
	}
	for _, s := range bi.Settings {
		props["build.settings."+s.Key] = s.Value
	}
	for k, v := range props {
		m[k] = v
	}
}

// timing records when the analysis started and when the properties were
// collected.
func timing(m map[string]string) {
	m["time.begin"] = fmt.Sprint(timeBegin.Unix())
	m["time.end"] = fmt.Sprint(now().Unix())
}
