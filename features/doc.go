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


// Package features turns provider attributes and user queries into vectors
// over one shared feature schema.
//
// The schema has four blocks, always in this order:
//
//   - ServiceType: TF-IDF weights of the service type label (English stop words removed)
//   - Skill: indicators over the skill vocabulary seen in the catalog
//   - Day: indicators over the weekday tokens seen in the catalog
//   - Location: one-hot over the location labels seen in the catalog
//
// # Fitting and encoding
//
// FitEncoders learns every vocabulary from a catalog and returns an EncoderSet
// that carries the resulting Schema. EncodeCatalog fits and encodes in one call
// and returns the feature Matrix alongside the encoders:
//
//	matrix, encoders := features.EncodeCatalog(providers)
//
// EncodeQuery maps a single query into the same columns. It only ever
// transforms: unknown terms, skills, days and locations encode as zeros and an
// empty query encodes as the zero vector.
//
//	vec := features.EncodeQuery(&query, encoders, matrix.Columns())
//
// # Day grammar
//
// ParseDays understands ranges ("Mon–Fri", wrapping "Fri–Mon") and lists
// ("Mon, Wed Fri"). The same grammar is used when fitting, when encoding
// queries and by the day-overlap filter in package search.
//
// # Thread Safety
//
// EncoderSet, Schema and Matrix are never mutated after construction and may be
// shared by any number of goroutines without locking.
package features
