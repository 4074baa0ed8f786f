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


// Package search implements similarity ranking of providers against a query.
//
// A Ranker holds a feature matrix and the encoder set that produced it.
// Ranking a request runs four steps:
//
//  1. Similarity: the query is encoded into the matrix's feature space and
//     compared with every row by cosine similarity. A zero vector on either
//     side scores 0.
//  2. Filters, applied in order and each narrowing the previous result:
//     minimum rating, service type, location and day availability. Text
//     filters compare case-insensitively. The day filter only applies when
//     the requested days parse to at least one day.
//  3. Sort: similarity always descends; rating and name follow the
//     requested order. The sort is stable.
//  4. Truncate to the requested number of results.
//
// A Ranker is immutable and safe for concurrent use. RankBatch ranks many
// independent requests on a worker pool.
//
// RankMonitor exposes the intermediate stages for diagnostics; pass nil to
// RankWithMonitor to skip monitoring.
package search
