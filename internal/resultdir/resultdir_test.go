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

package resultdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeFiles creates the named files under root with the given contents.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"ospf_flap_20251002_090000/ospf_flap_results.json": "[]",
		"ospf_flap_20251001_100000/ospf_flap_results.json": "[]",
		"ospf_flap_20251001_100000/flap.log":               "",
		"other_20251001/ospf_flap_results.json":            "[]",
		"ospf_flap_results.json":                           "[]",
		"trend_analysis.txt":                               "",
	})
	if err := os.MkdirAll(filepath.Join(root, "ospf_flap_20251003_000000", "ospf_flap_results.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Discover(root, "")
	if err != nil {
		t.Fatalf("Discover() got error: %v", err)
	}
	want := []string{
		filepath.Join(root, "ospf_flap_20251001_100000", "ospf_flap_results.json"),
		filepath.Join(root, "ospf_flap_20251002_090000", "ospf_flap_results.json"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover() -want,+got:\n%s", diff)
	}
}

func TestDiscoverPattern(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"lab1/ospf_flap_20251001_100000/ospf_flap_results.json": "[]",
		"lab2/ospf_flap_20251001_090000/ospf_flap_results.json": "[]",
	})

	got, err := Discover(root, "**/ospf_flap_*/ospf_flap_results.json")
	if err != nil {
		t.Fatalf("Discover() got error: %v", err)
	}
	want := []string{
		filepath.Join(root, "lab1", "ospf_flap_20251001_100000", "ospf_flap_results.json"),
		filepath.Join(root, "lab2", "ospf_flap_20251001_090000", "ospf_flap_results.json"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover() -want,+got:\n%s", diff)
	}
}

func TestDiscoverErrors(t *testing.T) {
	empty := t.TempDir()
	file := filepath.Join(t.TempDir(), "results.json")
	writeFiles(t, filepath.Dir(file), map[string]string{"results.json": "[]"})

	cases := []struct {
		desc    string
		root    string
		pattern string
		wantErr error
	}{
		{"missing directory", filepath.Join(empty, "missing"), "", ErrNoDir},
		{"file instead of directory", file, "", ErrNoDir},
		{"empty directory", empty, "", ErrNoResults},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := Discover(c.root, c.pattern)
			if !errors.Is(err, c.wantErr) {
				t.Errorf("Discover(%q) got error %v, want %v", c.root, err, c.wantErr)
			}
		})
	}

	if _, err := Discover(empty, "ospf_flap_[/results.json"); err == nil {
		t.Errorf("Discover() with bad pattern got nil error")
	}
}

func TestRunTimestamp(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"results/ospf_flap_20251001_100000/ospf_flap_results.json", "20251001_100000"},
		{"ospf_flap_x/ospf_flap_results.json", "x"},
		{"lab/run1/ospf_flap_results.json", "run1"},
	}
	for _, c := range cases {
		if got := RunTimestamp(filepath.FromSlash(c.path)); got != c.want {
			t.Errorf("RunTimestamp(%q) got %q, want %q", c.path, got, c.want)
		}
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"ospf_flap_1/ospf_flap_results.json": `[
			{"device": "R1", "interface": "Gi0/1", "status": "PASSED", "convergence_time": 10, "test_run": "ignored"},
			{"device": "R1", "interface": "Gi0/2", "status": "FAILED"}
		]`,
		"ospf_flap_2/ospf_flap_results.json": `not json`,
		"ospf_flap_3/ospf_flap_results.json": `[{"device": "R1", "interface": "Gi0/1", "status": "PARTIAL", "convergence_time": 12}]`,
		"ospf_flap_5/ospf_flap_results.json": `null`,
		"ospf_flap_6/ospf_flap_results.json": `[null]`,
		"ospf_flap_7/ospf_flap_results.json": `[{"device": "R1", "interface": "Gi0/1", "status": "PASSED"}][{"device": "R2"}]`,
	})
	paths := []string{
		filepath.Join(root, "ospf_flap_1", "ospf_flap_results.json"),
		filepath.Join(root, "ospf_flap_2", "ospf_flap_results.json"),
		filepath.Join(root, "ospf_flap_3", "ospf_flap_results.json"),
		filepath.Join(root, "ospf_flap_4", "ospf_flap_results.json"),
		filepath.Join(root, "ospf_flap_5", "ospf_flap_results.json"),
		filepath.Join(root, "ospf_flap_6", "ospf_flap_results.json"),
		filepath.Join(root, "ospf_flap_7", "ospf_flap_results.json"),
	}

	runs, skipped := Load(paths)

	type runSummary struct {
		Timestamp string
		Path      string
		Keys      []string
		TestRuns  []string
	}
	var got []runSummary
	for _, r := range runs {
		s := runSummary{Timestamp: r.Timestamp, Path: r.Path}
		for _, rec := range r.Records {
			s.Keys = append(s.Keys, rec.Key())
			s.TestRuns = append(s.TestRuns, rec.TestRun)
		}
		got = append(got, s)
	}
	want := []runSummary{{
		Timestamp: "1",
		Path:      paths[0],
		Keys:      []string{"R1-Gi0/1", "R1-Gi0/2"},
		TestRuns:  []string{"1", "1"},
	}, {
		Timestamp: "3",
		Path:      paths[2],
		Keys:      []string{"R1-Gi0/1"},
		TestRuns:  []string{"3"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() runs -want,+got:\n%s", diff)
	}

	var gotSkipped []string
	for _, s := range skipped {
		gotSkipped = append(gotSkipped, s.Path)
	}
	if diff := cmp.Diff([]string{paths[1], paths[3], paths[4], paths[5], paths[6]}, gotSkipped); diff != "" {
		t.Errorf("Load() skipped -want,+got:\n%s", diff)
	}
	if !errors.Is(skipped[1], os.ErrNotExist) {
		t.Errorf("Load() skipped missing file with error %v, want %v", skipped[1], os.ErrNotExist)
	}
}
