// Package state persists the crop history of the edited image.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/frudas24/cropslice/internal/geom"
	"gopkg.in/yaml.v3"
)

// Commit is one committed crop.
type Commit struct {
	Rect        geom.Rect `json:"rect" yaml:"rect"`
	Width       int       `json:"width" yaml:"width"`
	Height      int       `json:"height" yaml:"height"`
	CommittedAt time.Time `json:"committedAt" yaml:"committedAt"`
}

// State is the persisted editor state for one source image.
type State struct {
	Image   string   `yaml:"image"`
	Output  string   `yaml:"output,omitempty"`
	Commits []Commit `yaml:"commits,omitempty"`
}

// Last returns the most recent commit.
func (s State) Last() (Commit, bool) {
	if len(s.Commits) == 0 {
		return Commit{}, false
	}
	return s.Commits[len(s.Commits)-1], true
}

// Load reads state from disk. Missing files return empty state.
func Load(path string) (State, error) {
	var s State
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Save writes state to disk, creating parent directories as needed.
func Save(path string, s State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
