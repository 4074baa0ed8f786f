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


package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/servmatch/core"
)

// Header names of the catalog columns.
const (
	ColumnID          = "ID"
	ColumnName        = "Name"
	ColumnServiceType = "Service Type"
	ColumnSkills      = "Skills"
	ColumnLocation    = "Location"
	ColumnRating      = "Rating"
	ColumnDays        = "Days Available"
	ColumnContact     = "Contact"
)

// Columns lists the required header columns in their conventional order.
var Columns = []string{
	ColumnID, ColumnName, ColumnServiceType, ColumnSkills,
	ColumnLocation, ColumnRating, ColumnDays, ColumnContact,
}

const utf8BOM = "\ufeff"

// Catalog is a parsed provider catalog.
type Catalog struct {
	// Providers in file order.
	Providers []core.Provider
	// Fingerprint of the raw file content.
	Fingerprint core.Fingerprint
	// Dropped counts rows rejected during parsing.
	Dropped int
}

// Option configures catalog reading.
type Option func(*reader)

// WithLogger sets the logger used to report dropped rows.
func WithLogger(logger *slog.Logger) Option {
	return func(r *reader) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

type reader struct {
	logger *slog.Logger
}

func newReader(opts []Option) *reader {
	r := &reader{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open reads and parses the catalog file at path.
func Open(path string, opts ...Option) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	r := newReader(opts)
	providers, dropped, err := r.parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Catalog{
		Providers:   providers,
		Fingerprint: core.FingerprintFromContent(content),
		Dropped:     dropped,
	}, nil
}

// Load reads the catalog file at path and returns its valid providers.
func Load(path string, opts ...Option) ([]core.Provider, error) {
	cat, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	return cat.Providers, nil
}

// Read parses catalog CSV from r and returns its valid providers.
func Read(r io.Reader, opts ...Option) ([]core.Provider, error) {
	providers, _, err := newReader(opts).parse(r)
	return providers, err
}

func (r *reader) parse(in io.Reader) ([]core.Provider, int, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}

	positions, err := columnPositions(header)
	if err != nil {
		return nil, 0, err
	}

	providers := make([]core.Provider, 0)
	seen := make(map[int64]bool)
	dropped := 0
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}

		p, err := parseRecord(record, positions)
		if err != nil {
			r.logger.Debug("dropping catalog row", "line", line, "err", err)
			dropped++
			continue
		}
		if seen[p.ID] {
			r.logger.Warn("dropping duplicate provider id", "line", line, "id", p.ID)
			dropped++
			continue
		}
		seen[p.ID] = true
		providers = append(providers, p)
	}

	if dropped > 0 {
		r.logger.Info("catalog rows dropped", "dropped", dropped, "kept", len(providers))
	}
	return providers, dropped, nil
}

func columnPositions(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}
	for _, required := range Columns {
		if _, ok := positions[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}
	return positions, nil
}

func parseRecord(record []string, positions map[string]int) (core.Provider, error) {
	field := func(name string) string {
		i := positions[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id, err := strconv.ParseInt(field(ColumnID), 10, 64)
	if err != nil {
		return core.Provider{}, fmt.Errorf("bad id: %w", err)
	}
	rating, err := strconv.ParseFloat(field(ColumnRating), 64)
	if err != nil {
		return core.Provider{}, fmt.Errorf("bad rating: %w", err)
	}

	p := core.Provider{
		ID:          id,
		Name:        field(ColumnName),
		ServiceType: field(ColumnServiceType),
		Location:    field(ColumnLocation),
		Rating:      rating,
		Skills:      field(ColumnSkills),
		Days:        field(ColumnDays),
		Contact:     field(ColumnContact),
	}
	if err := core.ValidateProvider(&p); err != nil {
		return core.Provider{}, err
	}
	return p, nil
}

// Write renders providers as catalog CSV with the conventional header.
func Write(w io.Writer, providers []core.Provider) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for i := range providers {
		p := &providers[i]
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.ServiceType,
			p.Skills,
			p.Location,
			strconv.FormatFloat(p.Rating, 'f', -1, 64),
			p.Days,
			p.Contact,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
