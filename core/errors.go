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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProvider indicates a Provider failed validation.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrNegativeID indicates a provider ID below zero.
	ErrNegativeID = errors.New("provider id cannot be negative")

	// ErrRatingOutOfRange indicates a rating outside [0,5] or not a finite number.
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 5")

	// ErrInvalidTopN indicates a non-positive result limit.
	ErrInvalidTopN = errors.New("top_n must be positive")
)
