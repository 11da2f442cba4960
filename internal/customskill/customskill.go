// Package customskill stores user-defined skills in a single JSON file keyed
// by skill name.
package customskill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/EthanGF7/SkillsTracker/internal/fsutil"
)

// FileName is the name of the backing file inside the data directory.
const FileName = "custom-skills.json"

// ErrNotFound is returned by Get when no skill has the requested name.
var ErrNotFound = errors.New("custom skill not found")

// ErrInvalid is returned by Put when required fields are missing.
var ErrInvalid = errors.New("invalid custom skill")

// Skill is a user-defined competency.
type Skill struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	KeyPoints   []string  `json:"keyPoints"`
	Examples    []string  `json:"examples"`
	CreatedAt   time.Time `json:"createdAt"`
}

// entry is the on-disk value; the name is the map key.
type entry struct {
	Description string    `json:"description"`
	KeyPoints   []string  `json:"keyPoints"`
	Examples    []string  `json:"examples"`
	CreatedAt   time.Time `json:"createdAt"`
}

type document struct {
	Skills map[string]entry `json:"custom-skills"`
}

// Store is the file-backed custom skill registry.
type Store struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// New creates a Store whose file lives in dir.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName), now: time.Now}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Get returns the skill called name.
func (s *Store) Get(ctx context.Context, name string) (Skill, error) {
	if err := ctx.Err(); err != nil {
		return Skill{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.read()
	e, ok := doc.Skills[name]
	if !ok {
		return Skill{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return toSkill(name, e), nil
}

// Put inserts or replaces a skill by name. CreatedAt is set to now when zero.
func (s *Store) Put(ctx context.Context, sk Skill) (Skill, error) {
	if err := ctx.Err(); err != nil {
		return Skill{}, err
	}
	sk.Name = strings.TrimSpace(sk.Name)
	if sk.Name == "" {
		return Skill{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if strings.TrimSpace(sk.Description) == "" {
		return Skill{}, fmt.Errorf("%w: description is required", ErrInvalid)
	}
	if sk.CreatedAt.IsZero() {
		sk.CreatedAt = s.now().UTC()
	}
	if sk.KeyPoints == nil {
		sk.KeyPoints = []string{}
	}
	if sk.Examples == nil {
		sk.Examples = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.read()
	doc.Skills[sk.Name] = entry{
		Description: sk.Description,
		KeyPoints:   sk.KeyPoints,
		Examples:    sk.Examples,
		CreatedAt:   sk.CreatedAt,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Skill{}, fmt.Errorf("marshal custom skills: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data); err != nil {
		return Skill{}, fmt.Errorf("save custom skill: %w", err)
	}
	return sk, nil
}

// List returns every stored skill sorted by name.
func (s *Store) List(ctx context.Context) ([]Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.read()
	out := make([]Skill, 0, len(doc.Skills))
	for name, e := range doc.Skills {
		out = append(out, toSkill(name, e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// read loads the document. A missing or unreadable file is treated as empty.
func (s *Store) read() document {
	doc := document{Skills: map[string]entry{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: reading %s: %v\n", s.path, err)
		}
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s is corrupt, treating as empty: %v\n", s.path, err)
		return document{Skills: map[string]entry{}}
	}
	if doc.Skills == nil {
		doc.Skills = map[string]entry{}
	}
	return doc
}

func toSkill(name string, e entry) Skill {
	return Skill{
		Name:        name,
		Description: e.Description,
		KeyPoints:   e.KeyPoints,
		Examples:    e.Examples,
		CreatedAt:   e.CreatedAt,
	}
}
