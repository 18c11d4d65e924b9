// Package output writes run artifacts so that a failed run leaves no partial
// files behind.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Artifact is one output file and the function that renders its contents.
type Artifact struct {
	Path   string
	Render func(w io.Writer) error
}

// WriteError reports an artifact that could not be rendered or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

type staged struct {
	path   string
	tmp    string
	backup string // previous destination contents, "" when there was none
}

// WriteAll renders every artifact to memory, stages each next to its
// destination and then renames them into place. An existing destination is
// moved aside first. On failure the staged files and any artifacts already
// renamed by this call are removed and the previous files are restored.
func WriteAll(log zerolog.Logger, artifacts ...Artifact) error {
	bufs := make([]*bytes.Buffer, len(artifacts))
	for i, a := range artifacts {
		var buf bytes.Buffer
		if err := a.Render(&buf); err != nil {
			return &WriteError{Path: a.Path, Err: err}
		}
		bufs[i] = &buf
	}

	var done []*staged
	remove := func(path string) {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("cleanup failed")
		}
	}
	// rollback undoes the first committed renames and drops every staged file.
	rollback := func(committed int) {
		for i, s := range done {
			if i < committed {
				remove(s.path)
			}
			if s.backup != "" {
				if err := os.Rename(s.backup, s.path); err != nil {
					log.Error().Err(err).Str("path", s.path).Str("backup", s.backup).Msg("restoring previous file failed")
				}
			}
			remove(s.tmp)
		}
	}

	for i, a := range artifacts {
		tmp, err := stage(a.Path, bufs[i])
		if err != nil {
			rollback(0)
			return &WriteError{Path: a.Path, Err: err}
		}
		done = append(done, &staged{path: a.Path, tmp: tmp})
	}

	for i, s := range done {
		backup, err := moveAside(s.path)
		if err != nil {
			rollback(i)
			return &WriteError{Path: s.path, Err: err}
		}
		s.backup = backup

		if err := os.Rename(s.tmp, s.path); err != nil {
			rollback(i)
			return &WriteError{Path: s.path, Err: err}
		}
		log.Debug().Str("path", s.path).Int("bytes", bufs[i].Len()).Msg("wrote artifact")
	}

	for _, s := range done {
		if s.backup != "" {
			remove(s.backup)
		}
	}
	return nil
}

// moveAside renames an existing regular file at path to a backup next to it
// and returns the backup path. It returns "" when path does not exist.
// Anything other than a regular file is left alone for the rename to reject.
func moveAside(path string) (string, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.bak")
	if err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}
	backup := f.Name()
	f.Close()

	if err := os.Rename(path, backup); err != nil {
		os.Remove(backup)
		return "", fmt.Errorf("backing up previous file: %w", err)
	}
	return backup, nil
}

// stage writes buf to a temp file in the destination directory.
func stage(path string, buf *bytes.Buffer) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
