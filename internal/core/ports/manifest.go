package ports

import "github.com/depstrap/depstrap/internal/core/domain"

// ManifestStore defines the interface for recording completed stages.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestStore interface {
	// Get retrieves the record for a stage.
	// Returns nil, nil if the stage has never completed.
	Get(cacheRoot, stage string) (*domain.StageInfo, error)

	// Put stores the record for a completed stage.
	Put(cacheRoot string, info domain.StageInfo) error

	// Delete removes every stage record under the cache root.
	Delete(cacheRoot string) error
}
