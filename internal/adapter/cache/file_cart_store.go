package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/usecase"
)

var safeSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// FileCartStore keeps one JSON snapshot per session under dir/lf_cart_v1.
// Writes go to a temp file first and are renamed into place.
type FileCartStore struct {
	dir string
}

func NewFileCartStore(dir string) (*FileCartStore, error) {
	root := filepath.Join(dir, CartKeyPrefix)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("cart dir: %w", err)
	}
	return &FileCartStore{dir: root}, nil
}

func (s *FileCartStore) path(sessionID string) (string, error) {
	if !safeSessionID.MatchString(sessionID) {
		return "", fmt.Errorf("session id %q not usable as a file name", sessionID)
	}
	return filepath.Join(s.dir, sessionID+".json"), nil
}

func (s *FileCartStore) Load(_ context.Context, sessionID string) (domain.Snapshot, bool, error) {
	p, err := s.path(sessionID)
	if err != nil {
		return nil, false, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	var snap domain.Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, false, nil
	}
	return snap, true, nil
}

func (s *FileCartStore) Save(_ context.Context, sessionID string, snap domain.Snapshot) error {
	p, err := s.path(sessionID)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}

func (s *FileCartStore) Delete(_ context.Context, sessionID string) error {
	p, err := s.path(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var _ usecase.CartStore = (*FileCartStore)(nil)
