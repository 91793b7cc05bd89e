// Package tracker records which corpus files have already been pushed
// to the remote store, making ingestion idempotent across runs.
package tracker

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/starford/girogi/internal/storage"
)

// FileName is the persisted tracker file, relative to the state directory.
const FileName = ".uploaded_files.json"

// Tracker persists the set of uploaded filenames as a JSON list.
// The set grows monotonically; the sync path never prunes it.
type Tracker struct {
	state storage.Provider
}

// New creates a Tracker persisting into the given state directory.
func New(state storage.Provider) *Tracker {
	return &Tracker{state: state}
}

// Load returns the set of filenames already uploaded. A missing or
// unreadable file yields an empty set.
func (t *Tracker) Load() map[string]struct{} {
	set := make(map[string]struct{})
	data, err := t.state.Read(FileName)
	if err != nil {
		return set
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return set
	}
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Save persists the set wholesale as a sorted list, so repeat saves of
// the same set are byte-stable.
func (t *Tracker) Save(set map[string]struct{}) error {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return fmt.Errorf("tracker: encode: %w", err)
	}
	data = append(data, '\n')
	if err := t.state.Write(FileName, data); err != nil {
		return fmt.Errorf("tracker: save: %w", err)
	}
	return nil
}
