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


package servmatch

import (
	"errors"

	"github.com/poiesic/servmatch/catalog"
)

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrDatasetNotFound is returned by Open when a rebuild is needed and the
	// catalog file does not exist.
	ErrDatasetNotFound = catalog.ErrDatasetNotFound

	// ErrRecommendationFailed is returned when ranking fails unexpectedly.
	ErrRecommendationFailed = errors.New("recommendation failed")

	// ErrProviderNotFound is returned when no provider has the requested ID.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrLoaderClosed is returned by a Loader closed before first use.
	ErrLoaderClosed = errors.New("loader closed")
)
