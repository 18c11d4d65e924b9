package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Grid is a raw tabular export: rows of untyped cell text, in file order.
// No row carries any meaning at this level.
type Grid [][]string

// Reader loads one tabular export into a Grid.
type Reader interface {
	Read(location string) (Grid, error)
	Extensions() []string
}

// ErrUnreadable matches every UnreadableError via errors.Is.
var ErrUnreadable = errors.New("source unreadable")

// UnreadableError reports a source location that could not be opened or
// parsed as tabular data.
type UnreadableError struct {
	Location string
	Err      error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("source %s unreadable: %v", e.Location, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnreadable.
func (e *UnreadableError) Is(target error) bool { return target == ErrUnreadable }

func unreadable(location string, err error) error {
	return &UnreadableError{Location: location, Err: err}
}

// Registry holds readers keyed by file extension.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader for each of its extensions. Panics on duplicates.
func (r *Registry) Register(rd Reader) {
	for _, ext := range rd.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.readers[key]; ok {
			panic("duplicate reader extension: " + key)
		}
		r.readers[key] = rd
	}
}

// Get returns the reader for an extension (with leading dot), or nil.
func (r *Registry) Get(ext string) Reader {
	return r.readers[strings.ToLower(ext)]
}

// Read loads location with the reader registered for its extension.
func (r *Registry) Read(location string) (Grid, error) {
	ext := filepath.Ext(location)
	rd := r.Get(ext)
	if rd == nil {
		return nil, unreadable(location, fmt.Errorf("no reader for extension %q", ext))
	}
	return rd.Read(location)
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	r.Register(&XLSReader{})
	r.Register(&CSVReader{})
	return r
}
