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

package flapresult

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Neighbor is one OSPF neighbor as seen in "show ip ospf neighbor".
type Neighbor struct {
	State     string `json:"state"`
	Interface string `json:"interface,omitempty"`
}

// Neighbors holds the neighbor snapshot of a record.  Some producers write a
// neighbor table keyed by neighbor router ID while others only write the
// number of neighbors; IsCount tells the two apart.
type Neighbors struct {
	Table   map[string]Neighbor
	Count   int
	IsCount bool
}

// Len returns the number of neighbors in the snapshot.
func (n Neighbors) Len() int {
	if n.IsCount {
		return n.Count
	}
	return len(n.Table)
}

// StateChanges counts the neighbors present in both n and final whose state
// differs.  Count-only snapshots never report changes.
func (n Neighbors) StateChanges(final Neighbors) int {
	if n.IsCount || final.IsCount {
		return 0
	}
	changes := 0
	for id, base := range n.Table {
		if got, ok := final.Table[id]; ok && got.State != base.State {
			changes++
		}
	}
	return changes
}

// UnmarshalJSON accepts a neighbor table, an integer count or null.
func (n *Neighbors) UnmarshalJSON(b []byte) error {
	*n = Neighbors{}
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return nil
	case b[0] == '{':
		return json.Unmarshal(b, &n.Table)
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("neighbors must be an object or a count, got %s", b)
	}
	if f < 0 || f != math.Trunc(f) {
		return fmt.Errorf("invalid neighbor count %s", b)
	}
	n.Count = int(f)
	n.IsCount = true
	return nil
}

// MarshalJSON writes the snapshot back in the shape it was read in.
func (n Neighbors) MarshalJSON() ([]byte, error) {
	if n.IsCount {
		return json.Marshal(n.Count)
	}
	if n.Table == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(n.Table)
}
