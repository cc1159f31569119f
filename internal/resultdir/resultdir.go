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

// Package resultdir finds and loads flap test results stored under a results
// directory.
package resultdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/golang/glog"
	"github.com/openconfig/flaptrend/internal/flapresult"
)

const (
	// DefaultPattern matches the result file of every flap run directory.
	DefaultPattern = "ospf_flap_*/ospf_flap_results.json"

	// runDirPrefix is stripped from the run directory name to obtain the
	// run timestamp.
	runDirPrefix = "ospf_flap_"
)

var (
	// ErrNoDir is returned when the results directory cannot be used.
	ErrNoDir = errors.New("results directory not found")
	// ErrNoResults is returned when no result file matches the pattern.
	ErrNoResults = errors.New("no test result files found")
)

// LoadError describes a result file that was skipped.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Discover returns the result files under root matching pattern, sorted
// lexicographically.  Run directories are named after their timestamps, so
// the order is also chronological.
func Discover(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid result pattern %q", pattern)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoDir, root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %q under %s: %w", pattern, root, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoResults, root)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	return paths, nil
}

// RunTimestamp extracts the run timestamp from the directory holding a
// result file, e.g. ".../ospf_flap_20251001_100000/ospf_flap_results.json"
// yields "20251001_100000".
func RunTimestamp(path string) string {
	return strings.ReplaceAll(filepath.Base(filepath.Dir(path)), runDirPrefix, "")
}

// Load reads every file in paths in order.  Files that are missing or do not
// hold a JSON array of records are skipped and reported in the returned
// errors.
func Load(paths []string) ([]flapresult.Run, []*LoadError) {
	var (
		runs    []flapresult.Run
		skipped []*LoadError
	)
	for _, p := range paths {
		run, err := readFile(p)
		if err != nil {
			log.Warningf("Skipping result file %s: %v", p, err)
			skipped = append(skipped, &LoadError{Path: p, Err: err})
			continue
		}
		runs = append(runs, run)
	}
	return runs, skipped
}

func readFile(path string) (flapresult.Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return flapresult.Run{}, err
	}
	defer f.Close()

	records, err := flapresult.Decode(f)
	if err != nil {
		return flapresult.Run{}, err
	}
	ts := RunTimestamp(path)
	for i := range records {
		records[i].TestRun = ts
	}
	return flapresult.Run{Timestamp: ts, Path: path, Records: records}, nil
}
