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


package core

import (
	"fmt"
	"math"
)

const (
	// MinRating is the lowest rating a provider may carry.
	MinRating = 0.0
	// MaxRating is the highest rating a provider may carry.
	MaxRating = 5.0
)

// ValidateProvider validates a Provider according to domain rules.
//
// Validation rules:
//   - ID must not be negative
//   - Rating must be a finite number within [MinRating, MaxRating]
//
// NOT validated (normalized to empty strings during ingestion):
//   - Name, ServiceType, Location, Skills, Days, Contact
func ValidateProvider(p *Provider) error {
	if p == nil {
		return fmt.Errorf("%w: provider is nil", ErrInvalidProvider)
	}

	if p.ID < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProvider, ErrNegativeID)
	}

	if !IsValidRating(p.Rating) {
		return fmt.Errorf("%w: %w: got %v", ErrInvalidProvider, ErrRatingOutOfRange, p.Rating)
	}

	return nil
}

// IsValidRating checks that a rating is finite and within range.
func IsValidRating(rating float64) bool {
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return false
	}
	return rating >= MinRating && rating <= MaxRating
}

// ValidateTopN checks that a result limit is usable.
func ValidateTopN(topN int) error {
	if topN <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}
	return nil
}
