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


// Package storage provides the Schema Artifact Store abstraction for servmatch.
//
// The artifact store persists the two products of catalog encoding, the
// feature matrix and the fitted encoder set, so that a restart does not have
// to re-encode the catalog. Storage backends implement ArtifactRepository;
// the BadgerDB implementation lives in the badger subpackage.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage interface:
//
//	repo, err := badger.NewArtifactRepository(backend) // returns storage.ArtifactRepository
//
// Internal helpers may return concrete types.
//
// # Slots
//
// Artifacts live under two fixed slots, one for the matrix and one for the
// encoders. Both are written in a single transaction. Loading treats a
// missing or unreadable slot as absence rather than an error: the caller
// re-encodes from the raw catalog and saves again.
//
// # Serialization
//
// Artifacts are encoded with mus-go serializers: varint lengths and
// integers, length-prefixed strings and raw IEEE 754 floats. Each payload
// starts with a format byte so incompatible layouts are rejected instead of
// misread.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. The matrix and encoder
// set returned by LoadArtifacts are read-only.
package storage
