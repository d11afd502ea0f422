package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Rollout controls whether temporal markers are attached to prompts, and for
// what fraction of videos. It is passed explicitly to callers; there is no
// process-global rollout state.
type Rollout struct {
	Enabled    bool    `json:"enable_temporal_markers"`
	Percentage float64 `json:"rollout_percentage"`
}

// DefaultRollout returns the configuration used when no config file exists:
// markers enabled for every video.
func DefaultRollout() Rollout {
	return Rollout{Enabled: true, Percentage: 100.0}
}

// LoadRollout reads a rollout config file. A missing file is not an error and
// yields the default configuration.
func LoadRollout(path string) (Rollout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultRollout(), nil
		}
		return DefaultRollout(), fmt.Errorf("read rollout config: %w", err)
	}

	r := DefaultRollout()
	if err := json.Unmarshal(data, &r); err != nil {
		return DefaultRollout(), fmt.Errorf("parse rollout config: %w", err)
	}
	if r.Percentage < 0 {
		r.Percentage = 0
	}
	if r.Percentage > 100 {
		r.Percentage = 100
	}
	return r, nil
}

// Save writes the rollout configuration, creating parent directories as needed.
func (r Rollout) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rollout config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rollout config: %w", err)
	}
	return nil
}
