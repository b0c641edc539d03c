package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// AllList is the reserved list that shows every task regardless of tag
const AllList = "ALL"

// IsReservedList reports whether a list name cannot be created or deleted
func IsReservedList(name string) bool {
	return name == AllList
}

// State records the list selection that persists across invocations. It is
// loaded once per run and threaded into operations as a value.
type State struct {
	CurrentList     string   `yaml:"current_list"`
	AdditionalLists []string `yaml:"additional_lists,omitempty"`
}

// LoadState reads the state file. A missing or unreadable file yields the
// default selection (ALL, no extra lists) rather than an error.
func LoadState(path string) *State {
	state := &State{CurrentList: AllList}

	data, err := os.ReadFile(path)
	if err != nil {
		return state
	}
	if err := yaml.Unmarshal(data, state); err != nil {
		return &State{CurrentList: AllList}
	}
	if state.CurrentList == "" {
		state.CurrentList = AllList
	}
	return state
}

// Save writes the state file
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename state: %w", err)
	}

	return nil
}

// HasList reports whether name is selectable: the reserved ALL list or one
// previously created.
func (s *State) HasList(name string) bool {
	if name == AllList {
		return true
	}
	for _, l := range s.AdditionalLists {
		if l == name {
			return true
		}
	}
	return false
}

// AddList registers a new list, keeping the registry sorted
func (s *State) AddList(name string) {
	s.AdditionalLists = append(s.AdditionalLists, name)
	sort.Strings(s.AdditionalLists)
}

// RemoveList drops a list from the registry. Removing the current list
// resets the selection to ALL.
func (s *State) RemoveList(name string) {
	kept := s.AdditionalLists[:0]
	for _, l := range s.AdditionalLists {
		if l != name {
			kept = append(kept, l)
		}
	}
	s.AdditionalLists = kept
	if s.CurrentList == name {
		s.CurrentList = AllList
	}
}
