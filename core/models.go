package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint identifies the content of a raw provider catalog.
// Two catalogs with identical bytes always share a fingerprint.
type Fingerprint uint64

// FingerprintFromContent hashes catalog content with 64-bit BLAKE2b.
func FingerprintFromContent(content []byte) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(content)
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Provider is a single service provider from the catalog.
// Providers are immutable once ingested.
type Provider struct {
	ID          int64
	Name        string
	ServiceType string  // Free text label, e.g. "Plumber"
	Location    string  // Free text label, e.g. "Kathmandu"
	Rating      float64 // In [0,5]
	Skills      string  // Comma separated, e.g. "Pipe Repair, Leak Fix"
	Days        string  // Day range ("Mon–Fri") or day list ("Mon, Wed")
	Contact     string
}

// Recommendation projects the provider onto its display columns.
func (p *Provider) Recommendation() Recommendation {
	return Recommendation{
		ID:          p.ID,
		Name:        p.Name,
		ServiceType: p.ServiceType,
		Location:    p.Location,
		Rating:      p.Rating,
		Skills:      p.Skills,
		Days:        p.Days,
		Contact:     p.Contact,
	}
}

// Query is a user's service request. Empty string fields are treated as absent.
type Query struct {
	ServiceType string
	Location    string
	Skills      string
	Days        string
	MinRating   *float64 // nil selects DefaultMinRating
}

// IsEmpty reports whether the query carries no encodable field.
func (q *Query) IsEmpty() bool {
	return strings.TrimSpace(q.ServiceType) == "" &&
		strings.TrimSpace(q.Location) == "" &&
		strings.TrimSpace(q.Skills) == "" &&
		strings.TrimSpace(q.Days) == ""
}

// Recommendation is one ranked result. The similarity score is not part of
// the projection.
type Recommendation struct {
	ID          int64   `json:"ID" yaml:"id"`
	Name        string  `json:"Name" yaml:"name"`
	ServiceType string  `json:"Service Type" yaml:"service_type"`
	Location    string  `json:"Location" yaml:"location"`
	Rating      float64 `json:"Rating" yaml:"rating"`
	Skills      string  `json:"Skills" yaml:"skills"`
	Days        string  `json:"Days Available" yaml:"days_available"`
	Contact     string  `json:"Contact" yaml:"contact"`
}

// SortKey selects the column a ranked result list is ordered by.
type SortKey int

const (
	// SortBySimilarity orders by cosine similarity, best first.
	SortBySimilarity SortKey = iota
	// SortByRating orders by provider rating.
	SortByRating
	// SortByName orders by provider name.
	SortByName
)

func (k SortKey) String() string {
	switch k {
	case SortByRating:
		return "rating"
	case SortByName:
		return "name"
	default:
		return "similarity"
	}
}

// SortOrder is the direction used for rating and name sorts.
type SortOrder int

const (
	// Descending is the default order.
	Descending SortOrder = iota
	// Ascending order.
	Ascending
)

func (o SortOrder) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}
