// Package snapshotfile stores match snapshots as one YAML document per match.
package snapshotfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

const ext = ".yaml"

// document is the on-disk form of a match.Snapshot.
type document struct {
	Rounds         int          `yaml:"rounds"`
	ThrowsPerRound int          `yaml:"throws_per_round"`
	Round          int          `yaml:"round"`
	ThrowsLeft     int          `yaml:"throws_left"`
	Complete       bool         `yaml:"complete"`
	Dice           []dice.State `yaml:"dice"`
	Scores         []scoreEntry `yaml:"scores"`
	Available      []string     `yaml:"available"`
}

type scoreEntry struct {
	Category string `yaml:"category"`
	Points   int    `yaml:"points"`
}

func toDocument(snap match.Snapshot) document {
	doc := document{
		Rounds:         snap.Rules.Rounds,
		ThrowsPerRound: snap.Rules.ThrowsPerRound,
		Round:          snap.Round,
		ThrowsLeft:     snap.ThrowsLeft,
		Complete:       snap.Complete,
		Dice:           snap.Dice,
		Scores:         make([]scoreEntry, len(snap.Board.Scores)),
		Available:      make([]string, len(snap.Board.Available)),
	}
	for i, s := range snap.Board.Scores {
		doc.Scores[i] = scoreEntry{Category: s.Category.String(), Points: s.Points}
	}
	for i, c := range snap.Board.Available {
		doc.Available[i] = c.String()
	}
	return doc
}

func (d document) snapshot() (match.Snapshot, error) {
	snap := match.Snapshot{
		Rules:      match.Rules{Rounds: d.Rounds, ThrowsPerRound: d.ThrowsPerRound},
		Round:      d.Round,
		ThrowsLeft: d.ThrowsLeft,
		Complete:   d.Complete,
		Dice:       d.Dice,
		Board: scoring.Snapshot{
			Scores:    make([]scoring.Score, len(d.Scores)),
			Available: make([]scoring.Category, len(d.Available)),
		},
	}
	for i, s := range d.Scores {
		c, err := scoring.ParseCategory(s.Category)
		if err != nil {
			return match.Snapshot{}, err
		}
		snap.Board.Scores[i] = scoring.Score{Category: c, Points: s.Points}
	}
	for i, name := range d.Available {
		c, err := scoring.ParseCategory(name)
		if err != nil {
			return match.Snapshot{}, err
		}
		snap.Board.Available[i] = c
	}
	return snap, nil
}

// Store implements match.Store on a directory of YAML files named <id>.yaml.
// Writes go through a temporary file and a rename, so a reader never sees a
// partial document.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New returns a Store rooted at dir, creating the directory if needed.
//
// Postcondition: Returns a Store or a non-nil error if dir cannot be created.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %q", match.ErrSnapshotNotFound, id)
	}
	return filepath.Join(s.dir, strings.ToLower(id)+ext), nil
}

// Save writes snap under id, replacing any previous snapshot.
//
// Precondition: id must be a UUID.
func (s *Store) Save(ctx context.Context, id string, snap match.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(toDocument(snap))
	if err != nil {
		return fmt.Errorf("encoding match %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*")
	if err != nil {
		return fmt.Errorf("saving match %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving match %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving match %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving match %s: %w", id, err)
	}
	return nil
}

// Load reads the snapshot stored under id.
//
// Postcondition: Returns the snapshot, or an error wrapping match.ErrSnapshotNotFound.
func (s *Store) Load(ctx context.Context, id string) (match.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return match.Snapshot{}, err
	}
	path, err := s.path(id)
	if err != nil {
		return match.Snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return match.Snapshot{}, fmt.Errorf("%w: %s", match.ErrSnapshotNotFound, id)
		}
		return match.Snapshot{}, fmt.Errorf("reading match %s: %w", id, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return match.Snapshot{}, fmt.Errorf("parsing match file %s: %w", path, err)
	}
	snap, err := doc.snapshot()
	if err != nil {
		return match.Snapshot{}, fmt.Errorf("parsing match file %s: %w", path, err)
	}
	return snap, nil
}

// Delete removes the snapshot stored under id.
//
// Postcondition: Returns nil, or an error wrapping match.ErrSnapshotNotFound if nothing was stored.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", match.ErrSnapshotNotFound, id)
		}
		return fmt.Errorf("deleting match %s: %w", id, err)
	}
	return nil
}

// IDs lists the stored match ids, sorted.
func (s *Store) IDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if _, err := uuid.Parse(id); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

var _ match.Store = (*Store)(nil)
