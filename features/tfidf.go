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


package features

import (
	"fmt"
	"math"
	"slices"
)

// TFIDFVectorizer weights the terms of short text labels by
// term frequency times smoothed inverse document frequency.
type TFIDFVectorizer struct {
	vocabulary []string
	idf        []float64
	index      map[string]int
}

// FitTFIDF learns the vocabulary and IDF weights from a set of documents.
// The vocabulary is sorted lexicographically. IDF uses the smoothed form
// ln((1+n)/(1+df)) + 1.
func FitTFIDF(docs []string) *TFIDFVectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range tokenize(doc) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	vocabulary := make([]string, 0, len(df))
	for term := range df {
		vocabulary = append(vocabulary, term)
	}
	slices.Sort(vocabulary)

	n := float64(len(docs))
	idf := make([]float64, len(vocabulary))
	for i, term := range vocabulary {
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v, _ := NewTFIDFVectorizer(vocabulary, idf)
	return v
}

// NewTFIDFVectorizer restores a fitted vectorizer from its vocabulary and
// IDF weights, which must have the same length.
func NewTFIDFVectorizer(vocabulary []string, idf []float64) (*TFIDFVectorizer, error) {
	if len(vocabulary) != len(idf) {
		return nil, fmt.Errorf("%w: %d terms, %d weights", ErrVocabularyMismatch, len(vocabulary), len(idf))
	}
	index := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		if _, dup := index[term]; dup {
			return nil, fmt.Errorf("%w: term %q", ErrDuplicateColumn, term)
		}
		index[term] = i
	}
	return &TFIDFVectorizer{
		vocabulary: slices.Clone(vocabulary),
		idf:        slices.Clone(idf),
		index:      index,
	}, nil
}

// Vocabulary returns a copy of the fitted terms in column order.
func (v *TFIDFVectorizer) Vocabulary() []string {
	return slices.Clone(v.vocabulary)
}

// IDF returns a copy of the fitted IDF weights in column order.
func (v *TFIDFVectorizer) IDF() []float64 {
	return slices.Clone(v.idf)
}

// Len returns the vocabulary size.
func (v *TFIDFVectorizer) Len() int {
	return len(v.vocabulary)
}

// Weights returns the L2-normalized TF-IDF weight of every in-vocabulary
// term of doc. Unknown terms are ignored; a doc without known terms yields
// an empty map.
func (v *TFIDFVectorizer) Weights(doc string) map[string]float64 {
	counts := make(map[string]int)
	for _, term := range tokenize(doc) {
		if _, ok := v.index[term]; ok {
			counts[term]++
		}
	}

	weights := make(map[string]float64, len(counts))
	var norm float64
	for term, count := range counts {
		w := float64(count) * v.idf[v.index[term]]
		weights[term] = w
		norm += w * w
	}
	if norm == 0 {
		return weights
	}
	norm = math.Sqrt(norm)
	for term := range weights {
		weights[term] /= norm
	}
	return weights
}
