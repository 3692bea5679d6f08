// Package document persists the configuration that owns every editor's
// controlled value. Editors report changes through the Set methods and read
// their initial values back through Field.
package document

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Field is one editable media slot in the document.
type Field struct {
	AssetPath     string  `json:"assetPath,omitempty"`
	AssetDuration float64 `json:"assetDuration,omitempty"`
	SourceWidth   int     `json:"sourceWidth,omitempty"`
	SourceHeight  int     `json:"sourceHeight,omitempty"`
	Platform      string  `json:"platform,omitempty"`

	// PlaybackDuration is how long the field plays in the final composition.
	PlaybackDuration float64 `json:"playbackDuration,omitempty"`
	AudioExtension   bool    `json:"audioExtension,omitempty"`

	Crop       *types.NormalizedRegion `json:"crop,omitempty"`
	FocalPoint *types.NormalizedPoint  `json:"focalPoint,omitempty"`
	Trim       *types.TrimInterval     `json:"trim,omitempty"`
}

func (f Field) clone() Field {
	if f.Crop != nil {
		c := *f.Crop
		f.Crop = &c
	}
	if f.FocalPoint != nil {
		p := *f.FocalPoint
		f.FocalPoint = &p
	}
	if f.Trim != nil {
		t := *f.Trim
		f.Trim = &t
	}
	return f
}

type file struct {
	Fields map[string]Field `json:"fields"`
}

// Store is a document bound to a path on disk.
type Store struct {
	path    string
	verbose bool

	mu     sync.Mutex
	fields map[string]Field
	dirty  bool
}

// New returns an empty store that saves to path.
func New(path string, verbose bool) *Store {
	return &Store{path: path, verbose: verbose, fields: make(map[string]Field)}
}

// Load reads the document at path. A missing file yields an empty document.
func Load(path string, verbose bool) (*Store, error) {
	s := New(path, verbose)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if verbose {
			log.Printf("document %s does not exist yet, starting empty", path)
		}
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read document %s", path)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to parse document %s", path)
	}
	for name, field := range f.Fields {
		s.fields[name] = field
	}
	return s, nil
}

// Path returns where the document is saved.
func (s *Store) Path() string { return s.path }

// Dirty reports whether the store has unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Names returns the field names in sorted order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Field returns a copy of the named field.
func (s *Store) Field(name string) (Field, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[name]
	return f.clone(), ok
}

// MustField returns the named field or an error naming the known fields.
func (s *Store) MustField(name string) (Field, error) {
	f, ok := s.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("unknown field %q (known: %v)", name, s.Names())
	}
	return f, nil
}

// Put replaces the named field.
func (s *Store) Put(name string, f Field) {
	s.update(name, func(cur *Field) { *cur = f.clone() })
}

func (s *Store) update(name string, fn func(*Field)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fields[name]
	fn(&f)
	s.fields[name] = f
	s.dirty = true
}

// SetCrop records a crop for the named field. Suitable as a cropper OnChange.
func (s *Store) SetCrop(name string, r types.NormalizedRegion) {
	s.update(name, func(f *Field) { f.Crop = &r })
	if s.verbose {
		log.Printf("document: %s crop = %+v", name, r)
	}
}

// SetFocalPoint records a focal point for the named field.
func (s *Store) SetFocalPoint(name string, p types.NormalizedPoint) {
	s.update(name, func(f *Field) { f.FocalPoint = &p })
	if s.verbose {
		log.Printf("document: %s focal point = %+v", name, p)
	}
}

// SetTrim records a trim interval for the named field.
func (s *Store) SetTrim(name string, t types.TrimInterval) {
	s.update(name, func(f *Field) { f.Trim = &t })
	if s.verbose {
		log.Printf("document: %s trim = %+v", name, t)
	}
}

// Clear removes the stored value of one editor kind ("crop", "focal" or "trim")
// so the editor falls back to its default.
func (s *Store) Clear(name, kind string) error {
	var err error
	s.update(name, func(f *Field) {
		switch kind {
		case "crop":
			f.Crop = nil
		case "focal":
			f.FocalPoint = nil
		case "trim":
			f.Trim = nil
		default:
			err = fmt.Errorf("unknown editor kind: %s", kind)
		}
	})
	return err
}

// Save writes the document atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	out := file{Fields: make(map[string]Field, len(s.fields))}
	for name, f := range s.fields {
		out.Fields[name] = f.clone()
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode document")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".document_*.json")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write document")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close document")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", s.path)
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()

	if s.verbose {
		log.Printf("document saved to %s", s.path)
	}
	return nil
}
