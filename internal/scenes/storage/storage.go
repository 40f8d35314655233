package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage keeps one scene_<id>.3dscene file per scene under root.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) Root() string {
	return s.root
}

func (s *FileStorage) FileName(id string) string {
	return fmt.Sprintf("scene_%s.3dscene", id)
}

func (s *FileStorage) Path(id string) string {
	return filepath.Join(s.root, s.FileName(id))
}

func (s *FileStorage) EnsureDir() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("mkdir storage dir: %w", err)
	}
	return nil
}

func (s *FileStorage) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Save writes the file through a temp file so readers never see a partial
// scene.
func (s *FileStorage) Save(id string, data []byte) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, s.FileName(id)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write scene file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close scene file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(id)); err != nil {
		return fmt.Errorf("rename scene file: %w", err)
	}
	return nil
}

// Read returns fs.ErrNotExist (wrapped) when the scene has no file.
func (s *FileStorage) Read(id string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	return data, nil
}

// Remove deletes the scene file. A missing file is not an error.
func (s *FileStorage) Remove(id string) error {
	if err := os.Remove(s.Path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove scene file: %w", err)
	}
	return nil
}
