package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/fsutil"
)

// DefaultRetention is how long a challenge stays in history.
const DefaultRetention = 90 * 24 * time.Hour

// ErrPersist is returned when the history file cannot be written.
var ErrPersist = errors.New("could not persist challenge")

// Store is a file-backed log of generated challenges, one JSON array per
// challenge type, newest first. Writes to the same type are serialized and
// replace the file atomically.
type Store struct {
	dir       string
	retention time.Duration
	now       func() time.Time

	mu    sync.Mutex
	locks map[challenge.Type]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for retention.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRetention overrides the retention window.
func WithRetention(d time.Duration) Option {
	return func(s *Store) { s.retention = d }
}

// New creates a Store rooted at dir. The directory is created lazily.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:       dir,
		retention: DefaultRetention,
		now:       time.Now,
		locks:     make(map[challenge.Type]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file for a challenge type.
func (s *Store) Path(t challenge.Type) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-challenges.json", t))
}

// Load returns the history for t, newest first. A missing or corrupt file
// is replaced by an empty one; I/O failures yield an empty history.
func (s *Store) Load(ctx context.Context, t challenge.Type) ([]challenge.Challenge, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("load history: invalid challenge type %q", t)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.lockFor(t)
	lock.Lock()
	defer lock.Unlock()

	challenges, err := s.read(t)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading %s history: %v\n", t, err)
		return []challenge.Challenge{}, nil
	}
	return challenges, nil
}

// Save prepends c to the history for t, drops entries outside the retention
// window and writes the result back.
func (s *Store) Save(ctx context.Context, c challenge.Challenge, t challenge.Type) error {
	if !t.Valid() {
		return fmt.Errorf("save history: invalid challenge type %q", t)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.lockFor(t)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.read(t)
	if err != nil {
		existing = nil
	}

	all := make([]challenge.Challenge, 0, len(existing)+1)
	all = append(all, c)
	all = append(all, existing...)

	if err := s.write(t, s.retain(all)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Prune applies the retention window to the history for t without adding
// anything. It returns the number of entries removed.
func (s *Store) Prune(ctx context.Context, t challenge.Type) (int, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("prune history: invalid challenge type %q", t)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	lock := s.lockFor(t)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.read(t)
	if err != nil {
		return 0, fmt.Errorf("read %s history: %w", t, err)
	}
	kept := s.retain(existing)
	if len(kept) == len(existing) {
		return 0, nil
	}
	if err := s.write(t, kept); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return len(existing) - len(kept), nil
}

// retain keeps challenges created strictly after the retention cutoff.
func (s *Store) retain(in []challenge.Challenge) []challenge.Challenge {
	cutoff := s.now().Add(-s.retention)
	out := make([]challenge.Challenge, 0, len(in))
	for _, c := range in {
		if c.CreatedAt.After(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

// read loads the file for t, creating it empty if it does not exist. A
// file that is not a JSON array is moved aside and replaced by an empty
// one. Entries that fail to decode are skipped.
func (s *Store) read(t challenge.Type) ([]challenge.Challenge, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := s.Path(t)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.write(t, nil); err != nil {
			return nil, err
		}
		return []challenge.Challenge{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", path, s.now().Unix())
		if rerr := os.Rename(path, aside); rerr != nil {
			return nil, fmt.Errorf("move corrupt %s aside: %w", path, rerr)
		}
		fmt.Fprintf(os.Stderr, "warning: %s was corrupt (%v), moved to %s\n", path, err, aside)
		if err := s.write(t, nil); err != nil {
			return nil, err
		}
		return []challenge.Challenge{}, nil
	}

	challenges := make([]challenge.Challenge, 0, len(records))
	for i, raw := range records {
		var c challenge.Challenge
		if err := json.Unmarshal(raw, &c); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: skipping entry %d: %v\n", path, i, err)
			continue
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}

// write replaces the file for t via a temp file and rename.
func (s *Store) write(t challenge.Type, challenges []challenge.Challenge) error {
	if challenges == nil {
		challenges = []challenge.Challenge{}
	}
	data, err := json.MarshalIndent(challenges, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return fsutil.WriteFileAtomic(s.Path(t), data)
}

func (s *Store) lockFor(t challenge.Type) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[t]
	if !ok {
		l = &sync.Mutex{}
		s.locks[t] = l
	}
	return l
}
