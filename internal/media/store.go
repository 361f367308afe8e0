package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalURLPrefix is where the static route serves locally stored pictures.
const LocalURLPrefix = "/static/uploads/profile_pictures/"

// Store keeps normalized pictures and hands out the references saved on contacts.
type Store interface {
	// Put stores body under name and returns its reference.
	Put(ctx context.Context, name string, body []byte) (string, error)
	// Delete removes the object behind reference. References the store did not
	// issue are ignored.
	Delete(ctx context.Context, reference string) error
}

// LocalStore keeps pictures in a directory on disk.
type LocalStore struct {
	Dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStore{Dir: dir}, nil
}

func (s *LocalStore) Put(_ context.Context, name string, body []byte) (string, error) {
	if !safeName(name) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	path := filepath.Join(s.Dir, name)
	tmp := path + ".part"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return LocalURLPrefix + name, nil
}

func (s *LocalStore) Delete(_ context.Context, reference string) error {
	name, ok := strings.CutPrefix(reference, LocalURLPrefix)
	if !ok || !safeName(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Path returns where a reference lives on disk, or "" for foreign references.
func (s *LocalStore) Path(reference string) string {
	name, ok := strings.CutPrefix(reference, LocalURLPrefix)
	if !ok || !safeName(name) {
		return ""
	}
	return filepath.Join(s.Dir, name)
}

func safeName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
