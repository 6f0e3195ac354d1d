// Package batch writes the include and exclude batch files the target
// system imports.
//
// Each kind has a fixed column order. An empty batch writes nothing, so a
// zero-row file is never mistaken for a valid batch. A non-empty batch
// replaces the destination atomically.
package batch

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
)

// WriteResult describes one batch write.
type WriteResult struct {
	Kind    changeset.Kind `json:"kind" yaml:"kind"`
	Path    string         `json:"path" yaml:"path"`
	Rows    int            `json:"rows" yaml:"rows"`
	Written bool           `json:"written" yaml:"written"`
}

// Write encodes the kind batch of c and replaces path with it.
func Write(c *changeset.Changeset, kind changeset.Kind, path string) (WriteResult, error) {
	staged, err := Stage(c, kind, path)
	if err != nil {
		return WriteResult{Kind: kind, Path: path}, err
	}
	return staged.Commit()
}

// Encode returns the CSV encoding of the kind batch of c, header included.
func Encode(c *changeset.Changeset, kind changeset.Kind) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch kind {
	case changeset.KindInclude:
		err = gocsv.Marshal(c.Include, &buf)
	case changeset.KindExclude:
		err = gocsv.Marshal(c.Exclude, &buf)
	default:
		return nil, errors.NewValidationError("kind", kind, "must be include or exclude")
	}
	if err != nil {
		return nil, errors.WrapParse("csv", "", err)
	}
	return buf.Bytes(), nil
}

// Staged is a batch encoded to a temporary file next to its destination,
// waiting to be committed or discarded.
type Staged struct {
	result   WriteResult
	tempPath string
	done     bool
}

// Stage encodes the kind batch of c into a temporary file beside path. An
// empty batch stages nothing and commits as a no-op.
func Stage(c *changeset.Changeset, kind changeset.Kind, path string) (*Staged, error) {
	s := &Staged{result: WriteResult{Kind: kind, Path: path, Rows: c.Len(kind)}}
	if s.result.Rows == 0 {
		return s, nil
	}

	data, err := Encode(c, kind)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.WrapIO("create", "temp file", err)
	}
	s.tempPath = tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(s.tempPath)
		return nil, errors.WrapIO("write", s.tempPath, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(s.tempPath)
		return nil, errors.WrapIO("close", s.tempPath, err)
	}
	if err := os.Chmod(s.tempPath, constants.FilePermissions); err != nil {
		_ = os.Remove(s.tempPath)
		return nil, errors.WrapIO("chmod", s.tempPath, err)
	}
	return s, nil
}

// Rows returns the number of directives staged.
func (s *Staged) Rows() int {
	return s.result.Rows
}

// Commit moves the staged file into place.
func (s *Staged) Commit() (WriteResult, error) {
	if s.done || s.tempPath == "" {
		s.done = true
		return s.result, nil
	}
	s.done = true
	if err := os.Rename(s.tempPath, s.result.Path); err != nil {
		_ = os.Remove(s.tempPath)
		return s.result, errors.WrapIO("rename", s.result.Path, err)
	}
	s.result.Written = true
	return s.result, nil
}

// Discard removes the staged file. The destination is left untouched.
func (s *Staged) Discard() {
	if s.done {
		return
	}
	s.done = true
	if s.tempPath != "" {
		_ = os.Remove(s.tempPath)
	}
}
