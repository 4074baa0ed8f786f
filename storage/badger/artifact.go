// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/servmatch/features"
	"github.com/poiesic/servmatch/storage"
)

// ArtifactRepository implements storage.ArtifactRepository for BadgerDB.
type ArtifactRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.ArtifactRepository = (*ArtifactRepository)(nil)

// NewArtifactRepository creates a new ArtifactRepository over backend.
func NewArtifactRepository(backend *Backend) (storage.ArtifactRepository, error) {
	return newArtifactRepository(backend), nil
}

func newArtifactRepository(backend *Backend) *ArtifactRepository {
	return &ArtifactRepository{
		backend: backend,
		logger:  backend.logger.With("component", "artifact-repository"),
	}
}

// Close releases resources. ArtifactRepository has no resources to release;
// the backend is closed by its owner.
func (r *ArtifactRepository) Close() error {
	return nil
}

// SaveArtifacts writes both slots in a single transaction.
func (r *ArtifactRepository) SaveArtifacts(ctx context.Context, matrix *features.Matrix, encoders *features.EncoderSet) error {
	if matrix == nil || encoders == nil {
		return storage.ErrNilArtifact
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	matrixValue := storage.MarshalMatrix(matrix)
	encodersValue := storage.MarshalEncoderSet(encoders)

	err := r.backend.WithTransaction(ctx, func(tx *badger.Txn) error {
		if err := tx.Set(makeSlotKey(matrixSlot), matrixValue); err != nil {
			return err
		}
		return tx.Set(makeSlotKey(encodersSlot), encodersValue)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
	}

	r.logger.Debug("artifacts saved",
		"rows", matrix.Rows(),
		"columns", matrix.Width(),
		"matrix_bytes", len(matrixValue),
		"encoder_bytes", len(encodersValue))
	return nil
}

// LoadArtifacts reads both slots. Any missing or unreadable slot yields
// (nil, nil).
func (r *ArtifactRepository) LoadArtifacts(ctx context.Context) (*features.Matrix, *features.EncoderSet) {
	if ctx.Err() != nil || r.backend.IsClosed() {
		return nil, nil
	}

	var matrixValue, encodersValue []byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		if matrixValue, err = get(tx, makeSlotKey(matrixSlot)); err != nil {
			return err
		}
		encodersValue, err = get(tx, makeSlotKey(encodersSlot))
		return err
	}, false)
	if err != nil {
		r.logger.Warn("failed to read artifacts", "err", err)
		return nil, nil
	}
	if matrixValue == nil || encodersValue == nil {
		r.logger.Debug("artifacts absent",
			"matrix", matrixValue != nil,
			"encoders", encodersValue != nil)
		return nil, nil
	}

	matrix, err := storage.UnmarshalMatrix(matrixValue)
	if err != nil {
		r.logger.Warn("discarding unreadable matrix artifact", "err", err)
		return nil, nil
	}
	encoders, err := storage.UnmarshalEncoderSet(encodersValue)
	if err != nil {
		r.logger.Warn("discarding unreadable encoder artifact", "err", err)
		return nil, nil
	}
	return matrix, encoders
}

