package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bhi5hmaraj/anchorage/internal/model"
	"github.com/google/uuid"
)

// Store persists annotations as a JSON file keyed by annotation ID.
// The anchoring core never reads or writes storage; this is the
// persistence collaborator the CLI wires around it.
type Store struct {
	path string
}

// New creates a store backed by the given file path
func New(path string) *Store {
	return &Store{path: path}
}

// NewAnnotation creates an annotation with a fresh ID
func NewAnnotation(source, note string, sel model.Selector) model.Annotation {
	return model.Annotation{
		ID:        uuid.NewString(),
		Source:    source,
		Note:      note,
		Selector:  sel,
		CreatedAt: time.Now().UTC(),
	}
}

// Load reads all annotations. A missing file is an empty store, not an
// error.
func (s *Store) Load() ([]model.Annotation, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Annotation{}, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	var annotations []model.Annotation
	if err := json.Unmarshal(raw, &annotations); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", s.path, err)
	}
	return annotations, nil
}

// Save writes the full annotation set, replacing the file atomically.
func (s *Store) Save(annotations []model.Annotation) error {
	raw, err := json.MarshalIndent(annotations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal annotations: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// Add appends one annotation and persists the set
func (s *Store) Add(ann model.Annotation) error {
	annotations, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append(annotations, ann))
}

// Delete removes the annotation with the given ID. Unknown IDs are a
// no-op.
func (s *Store) Delete(id string) error {
	annotations, err := s.Load()
	if err != nil {
		return err
	}
	kept := annotations[:0]
	for _, ann := range annotations {
		if ann.ID != id {
			kept = append(kept, ann)
		}
	}
	return s.Save(kept)
}

// BySource groups annotations by their source, with sources returned
// in sorted order for deterministic batch runs.
func BySource(annotations []model.Annotation) ([]string, map[string][]model.Annotation) {
	groups := make(map[string][]model.Annotation)
	for _, ann := range annotations {
		groups[ann.Source] = append(groups[ann.Source], ann)
	}

	sources := make([]string, 0, len(groups))
	for src := range groups {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return sources, groups
}
