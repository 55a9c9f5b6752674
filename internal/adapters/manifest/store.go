// Package manifest implements the stage completion manifest as a
// file-per-stage JSON store under the cache root.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/depstrap/depstrap/internal/core/domain"
)

// Store implements ports.ManifestStore using a file-per-stage strategy.
type Store struct{}

// NewStore creates a new manifest Store.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Get retrieves the record for a stage.
func (s *Store) Get(cacheRoot, stage string) (*domain.StageInfo, error) {
	filename := s.getFilename(cacheRoot, stage)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	var info domain.StageInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestUnmarshalFailed.Error())
	}

	return &info, nil
}

// Put stores the record for a completed stage.
func (s *Store) Put(cacheRoot string, info domain.StageInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrManifestMarshalFailed.Error())
	}

	filename := s.getFilename(cacheRoot, info.Stage)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrManifestCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}

	return nil
}

// Delete removes every stage record under the cache root.
func (s *Store) Delete(cacheRoot string) error {
	return os.RemoveAll(domain.ManifestPath(cacheRoot))
}

func (s *Store) getFilename(cacheRoot, stage string) string {
	hash := sha256.Sum256([]byte(stage))
	hexHash := hex.EncodeToString(hash[:])
	return filepath.Join(domain.ManifestPath(cacheRoot), hexHash+".json")
}
