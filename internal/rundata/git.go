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
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gitv5 "github.com/go-git/go-git/v5"
	"github.com/golang/glog"
)

// resultsRepo is the git work tree a results directory was found in.
type resultsRepo struct {
	root   string
	origin string
	branch string
	commit string
	when   time.Time
	// clean is nil when the work tree status could not be read.
	clean *bool
}

// openResultsRepo finds the work tree holding dir.  It returns nil when dir
// is not under git.
func openResultsRepo(dir string) *resultsRepo {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	repo, err := gitv5.PlainOpenWithOptions(abs, &gitv5.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		glog.V(1).Infof("Results directory %s is not in a git work tree: %v", dir, err)
		return nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil
	}

	rr := &resultsRepo{root: wt.Filesystem.Root()}
	if remote, err := repo.Remote("origin"); err == nil {
		// The first URL is the one fetched from.
		if urls := remote.Config().URLs; len(urls) > 0 {
			rr.origin = urls[0]
		}
	}
	if head, err := repo.Head(); err != nil {
		glog.V(1).Infof("Could not resolve HEAD of %s: %v", rr.root, err)
	} else {
		if head.Name().IsBranch() {
			rr.branch = head.Name().Short()
		}
		if c, err := repo.CommitObject(head.Hash()); err == nil {
			rr.commit = c.Hash.String()
			rr.when = c.Committer.When
		}
	}
	if st, err := wt.Status(); err != nil {
		glog.Warningf("Could not read git status of %s: %v", rr.root, err)
	} else {
		clean := st.IsClean()
		rr.clean = &clean
	}
	return rr
}

// record adds the git properties and the results directory relative to the
// work tree root.
func (rr *resultsRepo) record(m map[string]string, dir string) {
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("git.origin", rr.origin)
	set("git.branch", rr.branch)
	set("git.commit", rr.commit)
	if rr.commit != "" {
		m["git.commit_timestamp"] = fmt.Sprint(rr.when.Unix())
	}
	if rr.clean != nil {
		m["git.clean"] = strconv.FormatBool(*rr.clean)
	}
	if rel, ok := relDir(rr.root, dir); ok {
		m["results.dir"] = rel
	}
}

// relDir returns dir relative to the work tree root wd.
func relDir(wd, dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(filepath.Clean(wd), abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
