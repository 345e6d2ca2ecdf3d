package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrConfigCorrupt marks an unreadable or invalid configuration document.
// The store falls back to its last-known-good snapshot when it sees one;
// the scheduler never crashes on a bad operator write.
var ErrConfigCorrupt = errors.New("config: corrupt document")

// Store guards the shared StrategyConfig between the scheduler (reader)
// and the operator surface (writer). Reads are copy-out snapshots, writes
// are copy-on-write with last-writer-wins semantics.
type Store struct {
	mu   sync.RWMutex
	cur  StrategyConfig
	path string // optional YAML persistence; empty = in-memory only
}

// NewStore returns a store seeded with the given config.
func NewStore(cfg StrategyConfig) *Store {
	return &Store{cur: cfg}
}

// LoadStore reads a YAML document from path, layered over Default().
// A missing file is not an error: the defaults are written back so the
// operator has a file to edit. A corrupt or invalid file yields
// ErrConfigCorrupt and a store seeded with the defaults.
func LoadStore(path string) (*Store, error) {
	s := &Store{cur: Default(), path: path}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, s.persist(s.cur)
	}
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return s, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}
	if err := cfg.Validate(); err != nil {
		return s, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}
	s.cur = cfg
	return s, nil
}

// Snapshot returns a consistent copy of the current config. Slices are
// cloned so a later operator write cannot tear a pass mid-read.
func (s *Store) Snapshot() StrategyConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cur
	cfg.Symbols = append([]string(nil), s.cur.Symbols...)
	cfg.CustomSymbols = append([]string(nil), s.cur.CustomSymbols...)
	return cfg
}

// Update applies mutate to a copy of the current config, validates it and
// swaps it in. An invalid result is rejected and the previous config stays
// active (last-known-good).
func (s *Store) Update(mutate func(*StrategyConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur
	next.Symbols = append([]string(nil), s.cur.Symbols...)
	next.CustomSymbols = append([]string(nil), s.cur.CustomSymbols...)
	mutate(&next)
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}
	s.cur = next
	return s.persist(next)
}

// Replace swaps in a whole document, same validation rules as Update.
func (s *Store) Replace(cfg StrategyConfig) error {
	return s.Update(func(c *StrategyConfig) { *c = cfg })
}

func (s *Store) persist(cfg StrategyConfig) error {
	if s.path == "" {
		return nil
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
