package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	configFileName = "hdmilink.toml"
	debounceDelay  = 500 * time.Millisecond
)

// Store is an atomic TOML file store with debounced writes.
type Store struct {
	mu      sync.Mutex
	path    string
	timer   *time.Timer
	pending *Config
}

// NewStore creates a store in the given config directory.
func NewStore(configDir string) *Store {
	return &Store{
		path: filepath.Join(configDir, configFileName),
	}
}

// Path returns the file path used by this store.
func (s *Store) Path() string { return s.path }

// Load reads the configuration from disk. A missing file yields the
// defaults, which are written back so the generated device ID sticks.
func (s *Store) Load() (Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			if err := s.writeAtomic(&cfg); err != nil {
				return cfg, fmt.Errorf("config: write defaults: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", s.path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", s.path, err)
	}
	if cfg.DeviceID == "" {
		cfg.DeviceID = Default().DeviceID
		if err := s.writeAtomic(&cfg); err != nil {
			slog.Warn("config: failed to persist device id", "err", err)
		}
	}
	return cfg, nil
}

// Save schedules a debounced write of the configuration to disk.
// The actual write happens after 500ms of no further Save calls.
func (s *Store) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := cfg
	s.pending = &c

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceDelay, func() {
		s.mu.Lock()
		p := s.pending
		s.mu.Unlock()
		if p != nil {
			if err := s.writeAtomic(p); err != nil {
				slog.Error("config: failed to write", "path", s.path, "err", err)
			}
		}
	})
	return nil
}

// Flush forces an immediate write of any pending configuration.
func (s *Store) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	p := s.pending
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	return s.writeAtomic(p)
}

func (s *Store) writeAtomic(cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	// Write to temp file, then rename (atomic on Linux)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}
