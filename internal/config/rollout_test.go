package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRollout_MissingFile(t *testing.T) {
	r, err := LoadRollout(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if !r.Enabled || r.Percentage != 100 {
		t.Errorf("got %+v, want enabled at 100%%", r)
	}
}

func TestLoadRollout_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "temporal_markers.json")

	want := Rollout{Enabled: true, Percentage: 25}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadRollout(path)
	if err != nil {
		t.Fatalf("LoadRollout: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadRollout_ClampsPercentage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"over 100", `{"enable_temporal_markers": true, "rollout_percentage": 250}`, 100},
		{"negative", `{"enable_temporal_markers": true, "rollout_percentage": -5}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rollout.json")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			r, err := LoadRollout(path)
			if err != nil {
				t.Fatalf("LoadRollout: %v", err)
			}
			if r.Percentage != tt.want {
				t.Errorf("percentage = %f, want %f", r.Percentage, tt.want)
			}
		})
	}
}

func TestLoadRollout_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollout.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRollout(path); err == nil {
		t.Error("malformed config should error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxTextEvents != 10 || cfg.MaxGestureEvents != 8 || cfg.MaxObjectAppearances != 5 {
		t.Errorf("hook caps = %d/%d/%d", cfg.MaxTextEvents, cfg.MaxGestureEvents, cfg.MaxObjectAppearances)
	}
	if cfg.SoftLimitBytes != 50*1024 || cfg.HardLimitBytes != 180*1024 {
		t.Errorf("size limits = %d/%d", cfg.SoftLimitBytes, cfg.HardLimitBytes)
	}
	if cfg.ExtractionFPS != 2.0 {
		t.Errorf("extraction fps = %f", cfg.ExtractionFPS)
	}
}
