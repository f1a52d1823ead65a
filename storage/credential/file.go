// Package credstore holds the credential store implementations behind
// session.Store: a file under the user's config dir for the CLI, and an
// in-memory store for tests.
package credstore

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/session"
)

type File struct {
	path string
}

var _ session.Store = (*File)(nil)

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get() (string, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", false
	}
	raw := core.CleanString(string(data))
	return raw, raw != ""
}

func (f *File) Set(raw string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "creating credential dir")
	}
	return errors.Wrap(os.WriteFile(f.path, []byte(raw), 0o600), "writing credential")
}

func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "clearing credential")
	}
	return nil
}
