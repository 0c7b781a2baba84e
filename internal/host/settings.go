// Package host implements the host side of the panel: persisted panel
// settings and a DuckDB-backed data provider that turns crash CSV and
// Parquet files into role-tagged datasets.
package host

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-crash/internal/panel"
)

// Settings is the host-persisted panel configuration.
type Settings struct {
	SelectedMetric string `yaml:"selectedMetric" json:"selectedMetric"`
}

// SettingsStore persists panel settings under the data dir.
type SettingsStore struct {
	dataDir string
	mu      sync.RWMutex
	current Settings
}

// NewSettingsStore creates a store and loads any persisted settings.
func NewSettingsStore(dataDir string) *SettingsStore {
	s := &SettingsStore{
		dataDir: dataDir,
		current: Settings{SelectedMetric: string(panel.MetricCrashes)},
	}
	s.loadFromDisk()
	return s
}

// Get returns the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Put validates, applies and persists new settings.
func (s *SettingsStore) Put(settings Settings) error {
	switch panel.Metric(settings.SelectedMetric) {
	case panel.MetricCrashes, panel.MetricPersons:
	default:
		return fmt.Errorf("unknown metric %q", settings.SelectedMetric)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
	return s.saveToDisk()
}

func (s *SettingsStore) settingsFile() string {
	return filepath.Join(s.dataDir, "settings.yaml")
}

func (s *SettingsStore) loadFromDisk() {
	data, err := os.ReadFile(s.settingsFile())
	if err != nil {
		return // File doesn't exist yet, keep defaults
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return // Invalid YAML, keep defaults
	}
	if settings.SelectedMetric != "" {
		s.current = settings
	}
}

func (s *SettingsStore) saveToDisk() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s.current)
	if err != nil {
		return err
	}
	return os.WriteFile(s.settingsFile(), data, 0644)
}
