package storage

import (
	"context"

	"github.com/poiesic/servmatch/features"
)

// ArtifactRepository persists the feature matrix and encoder set.
type ArtifactRepository interface {
	// SaveArtifacts stores the matrix and encoders, replacing any previous
	// pair. Both slots are written in one transaction.
	SaveArtifacts(ctx context.Context, matrix *features.Matrix, encoders *features.EncoderSet) error

	// LoadArtifacts returns the stored matrix and encoders. When either slot
	// is missing or cannot be deserialized it returns (nil, nil). It never
	// fails, has no side effects and performs no schema validation.
	LoadArtifacts(ctx context.Context) (*features.Matrix, *features.EncoderSet)

	// Close releases resources held by the repository.
	Close() error
}
