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


package storage

import (
	"errors"
	"fmt"
	"time"

	com "github.com/mus-format/common-go"
	"github.com/mus-format/mus-go"
	slops "github.com/mus-format/mus-go/options/slice"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/servmatch/core"
	"github.com/poiesic/servmatch/features"
)

// Format bytes leading each payload.
const (
	matrixFormatV1   byte = 1
	encodersFormatV1 byte = 1
)

// matrixRecord is the stored form of a features.Matrix.
type matrixRecord struct {
	Format    byte
	Columns   []features.Column
	Providers []core.Provider
	Values    []float64
}

// encodersRecord is the stored form of a features.EncoderSet. The schema is
// not stored; it is derived again from the encoders on load.
type encodersRecord struct {
	Format      byte
	Vocabulary  []string
	IDF         []float64
	Skills      []string
	Days        []string
	Locations   []string
	Fingerprint uint64
	FittedAt    time.Time
}

var (
	columnMUS   = columnSer{}
	providerMUS = providerSer{}
	matrixMUS   = matrixSer{}
	encodersMUS = encodersSer{}

	columnsMUS   = newBoundedSliceSer[features.Column](columnMUS, 2)
	providersMUS = newBoundedSliceSer[core.Provider](providerMUS, 15)
	float64sMUS  = newBoundedSliceSer[float64](raw.Float64, 8)
	stringsMUS   = newBoundedSliceSer[string](ord.String, 1)
)

// boundedSliceSer is a length prefixed slice serializer that rejects a
// length the remaining input cannot hold before allocating. minSize is the
// smallest encoded size of one element.
type boundedSliceSer[T any] struct {
	elem    mus.Serializer[T]
	minSize int
}

func newBoundedSliceSer[T any](elem mus.Serializer[T], minSize int) boundedSliceSer[T] {
	return boundedSliceSer[T]{elem: elem, minSize: minSize}
}

func (s boundedSliceSer[T]) Marshal(v []T, bs []byte) int {
	return ord.NewSliceSer(s.elem).Marshal(v, bs)
}

func (s boundedSliceSer[T]) Unmarshal(bs []byte) ([]T, int, error) {
	maxLen := len(bs) / s.minSize
	lenVl := com.ValidatorFn[int](func(n int) error {
		if n > maxLen {
			return fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrTruncatedData, n, len(bs))
		}
		return nil
	})
	return ord.NewValidSliceSer(s.elem, slops.WithLenValidator[T](lenVl)).Unmarshal(bs)
}

func (s boundedSliceSer[T]) Size(v []T) int {
	return ord.NewSliceSer(s.elem).Size(v)
}

func (s boundedSliceSer[T]) Skip(bs []byte) (int, error) {
	return ord.NewSliceSer(s.elem).Skip(bs)
}

type columnSer struct{}

func (columnSer) Marshal(c features.Column, bs []byte) (n int) {
	n = raw.Byte.Marshal(byte(c.Block), bs)
	n += ord.String.Marshal(c.Token, bs[n:])
	return
}

func (columnSer) Unmarshal(bs []byte) (c features.Column, n int, err error) {
	block, n, err := raw.Byte.Unmarshal(bs)
	if err != nil {
		return
	}
	c.Block = features.Block(block)
	var n1 int
	c.Token, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (columnSer) Size(c features.Column) int {
	return raw.Byte.Size(byte(c.Block)) + ord.String.Size(c.Token)
}

func (columnSer) Skip(bs []byte) (n int, err error) {
	n, err = raw.Byte.Skip(bs)
	if err != nil {
		return
	}
	n1, err := ord.String.Skip(bs[n:])
	n += n1
	return
}

type providerSer struct{}

func (providerSer) Marshal(p core.Provider, bs []byte) (n int) {
	n = varint.Int64.Marshal(p.ID, bs)
	n += ord.String.Marshal(p.Name, bs[n:])
	n += ord.String.Marshal(p.ServiceType, bs[n:])
	n += ord.String.Marshal(p.Location, bs[n:])
	n += raw.Float64.Marshal(p.Rating, bs[n:])
	n += ord.String.Marshal(p.Skills, bs[n:])
	n += ord.String.Marshal(p.Days, bs[n:])
	n += ord.String.Marshal(p.Contact, bs[n:])
	return
}

func (providerSer) Unmarshal(bs []byte) (p core.Provider, n int, err error) {
	p.ID, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for _, field := range []*string{&p.Name, &p.ServiceType, &p.Location} {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	p.Rating, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for _, field := range []*string{&p.Skills, &p.Days, &p.Contact} {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (providerSer) Size(p core.Provider) int {
	return varint.Int64.Size(p.ID) +
		ord.String.Size(p.Name) +
		ord.String.Size(p.ServiceType) +
		ord.String.Size(p.Location) +
		raw.Float64.Size(p.Rating) +
		ord.String.Size(p.Skills) +
		ord.String.Size(p.Days) +
		ord.String.Size(p.Contact)
}

func (providerSer) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int64.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := range 7 {
		if i == 3 {
			n1, err = raw.Float64.Skip(bs[n:])
		} else {
			n1, err = ord.String.Skip(bs[n:])
		}
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type matrixSer struct{}

func (matrixSer) Marshal(m matrixRecord, bs []byte) (n int) {
	n = raw.Byte.Marshal(m.Format, bs)
	n += columnsMUS.Marshal(m.Columns, bs[n:])
	n += providersMUS.Marshal(m.Providers, bs[n:])
	n += float64sMUS.Marshal(m.Values, bs[n:])
	return
}

func (matrixSer) Unmarshal(bs []byte) (m matrixRecord, n int, err error) {
	m.Format, n, err = raw.Byte.Unmarshal(bs)
	if err != nil {
		return
	}
	if m.Format != matrixFormatV1 {
		err = fmt.Errorf("%w: matrix format %d", ErrUnsupportedFormat, m.Format)
		return
	}
	var n1 int
	m.Columns, n1, err = columnsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Providers, n1, err = providersMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Values, n1, err = float64sMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (matrixSer) Size(m matrixRecord) int {
	return raw.Byte.Size(m.Format) +
		columnsMUS.Size(m.Columns) +
		providersMUS.Size(m.Providers) +
		float64sMUS.Size(m.Values)
}

func (matrixSer) Skip(bs []byte) (n int, err error) {
	n, err = raw.Byte.Skip(bs)
	if err != nil {
		return
	}
	skips := []func([]byte) (int, error){columnsMUS.Skip, providersMUS.Skip, float64sMUS.Skip}
	for _, skip := range skips {
		n1, err := skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	return
}

type encodersSer struct{}

func (encodersSer) Marshal(e encodersRecord, bs []byte) (n int) {
	n = raw.Byte.Marshal(e.Format, bs)
	n += stringsMUS.Marshal(e.Vocabulary, bs[n:])
	n += float64sMUS.Marshal(e.IDF, bs[n:])
	n += stringsMUS.Marshal(e.Skills, bs[n:])
	n += stringsMUS.Marshal(e.Days, bs[n:])
	n += stringsMUS.Marshal(e.Locations, bs[n:])
	n += varint.Uint64.Marshal(e.Fingerprint, bs[n:])
	n += raw.TimeUnixNanoUTC.Marshal(e.FittedAt, bs[n:])
	return
}

func (encodersSer) Unmarshal(bs []byte) (e encodersRecord, n int, err error) {
	e.Format, n, err = raw.Byte.Unmarshal(bs)
	if err != nil {
		return
	}
	if e.Format != encodersFormatV1 {
		err = fmt.Errorf("%w: encoder format %d", ErrUnsupportedFormat, e.Format)
		return
	}
	var n1 int
	e.Vocabulary, n1, err = stringsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.IDF, n1, err = float64sMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for _, field := range []*[]string{&e.Skills, &e.Days, &e.Locations} {
		*field, n1, err = stringsMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	e.Fingerprint, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.FittedAt, n1, err = raw.TimeUnixNanoUTC.Unmarshal(bs[n:])
	n += n1
	return
}

func (encodersSer) Size(e encodersRecord) int {
	return raw.Byte.Size(e.Format) +
		stringsMUS.Size(e.Vocabulary) +
		float64sMUS.Size(e.IDF) +
		stringsMUS.Size(e.Skills) +
		stringsMUS.Size(e.Days) +
		stringsMUS.Size(e.Locations) +
		varint.Uint64.Size(e.Fingerprint) +
		raw.TimeUnixNanoUTC.Size(e.FittedAt)
}

func (encodersSer) Skip(bs []byte) (n int, err error) {
	n, err = raw.Byte.Skip(bs)
	if err != nil {
		return
	}
	skips := []func([]byte) (int, error){
		stringsMUS.Skip, float64sMUS.Skip, stringsMUS.Skip, stringsMUS.Skip, stringsMUS.Skip,
		varint.Uint64.Skip, raw.TimeUnixNanoUTC.Skip,
	}
	for _, skip := range skips {
		n1, err := skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	return
}

// decodeError wraps a codec failure, keeping storage sentinels intact.
func decodeError(err error) error {
	if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrTruncatedData) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
}

// MarshalMatrix serializes a feature matrix: columns, provider display
// attributes and row-major values.
func MarshalMatrix(m *features.Matrix) []byte {
	rec := matrixRecord{
		Format:    matrixFormatV1,
		Columns:   m.Columns(),
		Providers: m.Providers(),
		Values:    m.Values(),
	}
	buf := make([]byte, matrixMUS.Size(rec))
	matrixMUS.Marshal(rec, buf)
	return buf
}

// UnmarshalMatrix deserializes a feature matrix.
func UnmarshalMatrix(data []byte) (*features.Matrix, error) {
	rec, n, err := matrixMUS.Unmarshal(data)
	if err != nil {
		return nil, decodeError(err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return features.NewMatrix(rec.Columns, rec.Providers, rec.Values)
}

// MarshalEncoderSet serializes the fitted encoders.
func MarshalEncoderSet(enc *features.EncoderSet) []byte {
	rec := encodersRecord{
		Format:      encodersFormatV1,
		Vocabulary:  enc.ServiceType.Vocabulary(),
		IDF:         enc.ServiceType.IDF(),
		Skills:      enc.Skills.Classes(),
		Days:        enc.Days.Classes(),
		Locations:   enc.Locations.Categories(),
		Fingerprint: uint64(enc.Fingerprint),
		FittedAt:    enc.FittedAt,
	}
	buf := make([]byte, encodersMUS.Size(rec))
	encodersMUS.Marshal(rec, buf)
	return buf
}

// UnmarshalEncoderSet deserializes the fitted encoders and rebuilds their
// schema.
func UnmarshalEncoderSet(data []byte) (*features.EncoderSet, error) {
	rec, n, err := encodersMUS.Unmarshal(data)
	if err != nil {
		return nil, decodeError(err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}

	tfidf, err := features.NewTFIDFVectorizer(rec.Vocabulary, rec.IDF)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	enc, err := features.NewEncoderSet(
		tfidf,
		features.NewMultiLabelBinarizer(rec.Skills),
		features.NewMultiLabelBinarizer(rec.Days),
		features.NewOneHotEncoder(rec.Locations),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	enc.Fingerprint = core.Fingerprint(rec.Fingerprint)
	enc.FittedAt = rec.FittedAt
	return enc, nil
}
