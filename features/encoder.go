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
	"slices"
	"time"

	"github.com/poiesic/servmatch/core"
)

// EncoderSet is the fitted state needed to encode providers and queries
// into the shared feature space. It is read-only once built and safe for
// concurrent use.
type EncoderSet struct {
	ServiceType *TFIDFVectorizer
	Skills      *MultiLabelBinarizer
	Days        *MultiLabelBinarizer
	Locations   *OneHotEncoder
	Schema      *Schema

	// Fingerprint of the raw catalog the encoders were fitted on.
	Fingerprint core.Fingerprint
	FittedAt    time.Time
}

// NewEncoderSet assembles an encoder set from fitted encoders and derives
// its schema in block order: service type, skill, day, location.
func NewEncoderSet(serviceType *TFIDFVectorizer, skills, days *MultiLabelBinarizer, locations *OneHotEncoder) (*EncoderSet, error) {
	columns := make([]Column, 0, serviceType.Len()+skills.Len()+days.Len()+locations.Len())
	for _, term := range serviceType.vocabulary {
		columns = append(columns, Column{Block: BlockServiceType, Token: term})
	}
	for _, skill := range skills.classes {
		columns = append(columns, Column{Block: BlockSkill, Token: skill})
	}
	for _, day := range days.classes {
		columns = append(columns, Column{Block: BlockDay, Token: day})
	}
	for _, loc := range locations.categories {
		columns = append(columns, Column{Block: BlockLocation, Token: loc})
	}
	schema, err := NewSchema(columns)
	if err != nil {
		return nil, err
	}
	return &EncoderSet{
		ServiceType: serviceType,
		Skills:      skills,
		Days:        days,
		Locations:   locations,
		Schema:      schema,
	}, nil
}

// FitEncoders fits every encoder over the catalog. The providers are not
// modified.
func FitEncoders(providers []core.Provider) (*EncoderSet, error) {
	serviceTypes := make([]string, len(providers))
	skills := make([][]string, len(providers))
	days := make([][]string, len(providers))
	locations := make([]string, len(providers))
	for i := range providers {
		p := &providers[i]
		serviceTypes[i] = p.ServiceType
		skills[i] = ParseSkills(p.Skills)
		days[i] = ParseDays(p.Days)
		locations[i] = p.Location
	}

	enc, err := NewEncoderSet(
		FitTFIDF(serviceTypes),
		FitMultiLabel(skills),
		FitMultiLabel(days),
		FitOneHot(locations),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature schema: %w", err)
	}
	enc.FittedAt = time.Now().UTC()
	return enc, nil
}

// encode produces the sparse features of one record. Unknown terms, skills,
// days and locations contribute nothing.
func (e *EncoderSet) encode(serviceType, skills, days, location string) map[Column]float64 {
	sparse := make(map[Column]float64)
	for term, w := range e.ServiceType.Weights(serviceType) {
		sparse[Column{Block: BlockServiceType, Token: term}] = w
	}
	for _, skill := range e.Skills.Known(ParseSkills(skills)) {
		sparse[Column{Block: BlockSkill, Token: skill}] = 1
	}
	for _, day := range e.Days.Known(ParseDays(days)) {
		sparse[Column{Block: BlockDay, Token: day}] = 1
	}
	if loc, ok := e.Locations.Lookup(location); ok {
		sparse[Column{Block: BlockLocation, Token: loc}] = 1
	}
	return sparse
}

// EncodeProvider writes the feature row of p into dst, which must be
// exactly Schema.Len() long.
func (e *EncoderSet) EncodeProvider(p *core.Provider, dst []float64) error {
	if len(dst) != e.Schema.Len() {
		return fmt.Errorf("%w: row has %d values, schema has %d columns", ErrMatrixShape, len(dst), e.Schema.Len())
	}
	e.Schema.Reindex(e.encode(p.ServiceType, p.Skills, p.Days, p.Location), dst)
	return nil
}

// Matrix holds one dense feature row per provider alongside the provider
// display attributes. Row i belongs to Provider(i).
type Matrix struct {
	columns   []Column
	providers []core.Provider
	values    []float64
	byID      map[int64]int
}

// NewMatrix builds a matrix from row-major values. len(values) must equal
// len(providers) * len(columns).
func NewMatrix(columns []Column, providers []core.Provider, values []float64) (*Matrix, error) {
	if len(values) != len(providers)*len(columns) {
		return nil, fmt.Errorf("%w: %d values for %d rows x %d columns",
			ErrMatrixShape, len(values), len(providers), len(columns))
	}
	byID := make(map[int64]int, len(providers))
	for i := range providers {
		if _, dup := byID[providers[i].ID]; !dup {
			byID[providers[i].ID] = i
		}
	}
	return &Matrix{
		columns:   slices.Clone(columns),
		providers: slices.Clone(providers),
		values:    values,
		byID:      byID,
	}, nil
}

// Rows returns the number of providers.
func (m *Matrix) Rows() int {
	return len(m.providers)
}

// Width returns the number of feature columns.
func (m *Matrix) Width() int {
	return len(m.columns)
}

// Columns returns a copy of the column list.
func (m *Matrix) Columns() []Column {
	return slices.Clone(m.columns)
}

// Row returns the features of row i. The slice aliases the matrix and must
// not be modified.
func (m *Matrix) Row(i int) []float64 {
	w := len(m.columns)
	return m.values[i*w : (i+1)*w : (i+1)*w]
}

// Provider returns the display attributes of row i.
func (m *Matrix) Provider(i int) *core.Provider {
	return &m.providers[i]
}

// ProviderByID looks a provider up by catalog ID.
func (m *Matrix) ProviderByID(id int64) (*core.Provider, bool) {
	i, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	return &m.providers[i], true
}

// Providers returns a copy of all providers in row order.
func (m *Matrix) Providers() []core.Provider {
	return slices.Clone(m.providers)
}

// Values returns the row-major feature values. The slice aliases the
// matrix and must not be modified.
func (m *Matrix) Values() []float64 {
	return m.values
}

// Aligned checks that the matrix columns are exactly the encoder schema.
func (m *Matrix) Aligned(enc *EncoderSet) error {
	if enc == nil || enc.Schema == nil {
		return ErrSchemaMismatch
	}
	if !enc.Schema.Equal(m.columns) {
		return fmt.Errorf("%w: matrix has %d columns, schema has %d", ErrSchemaMismatch, len(m.columns), enc.Schema.Len())
	}
	return nil
}

// EncodeCatalog fits the encoders over providers and encodes every row.
func EncodeCatalog(providers []core.Provider) (*Matrix, *EncoderSet, error) {
	enc, err := FitEncoders(providers)
	if err != nil {
		return nil, nil, err
	}
	width := enc.Schema.Len()
	values := make([]float64, len(providers)*width)
	for i := range providers {
		if err := enc.EncodeProvider(&providers[i], values[i*width:(i+1)*width]); err != nil {
			return nil, nil, err
		}
	}
	m, err := NewMatrix(enc.Schema.columns, providers, values)
	if err != nil {
		return nil, nil, err
	}
	return m, enc, nil
}
