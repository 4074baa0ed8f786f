package search

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/poiesic/servmatch/core"
	"github.com/poiesic/servmatch/features"
)

// Request is one ranking request.
type Request struct {
	Query     core.Query
	TopN      int
	SortBy    core.SortKey
	SortOrder core.SortOrder
}

// Scored pairs a matrix row with its similarity to the query.
type Scored struct {
	Row        int
	Provider   *core.Provider
	Similarity float64
}

// Ranker ranks catalog providers against queries.
type Ranker struct {
	matrix   *features.Matrix
	encoders *features.EncoderSet
	columns  []features.Column
	norms    []float64
	days     [][]string
	poolSize int
	logger   *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of workers RankBatch uses.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Ranker) error {
		r.poolSize = max(size, 1)
		return nil
	}
}

// NewRanker creates a ranker over matrix and encoders. Either may be nil,
// in which case every request yields an empty result.
func NewRanker(matrix *features.Matrix, encoders *features.EncoderSet, opts ...Option) (*Ranker, error) {
	r := &Ranker{
		poolSize: defaultPoolSize(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if matrix == nil || encoders == nil {
		return r, nil
	}

	r.matrix = matrix
	r.encoders = encoders
	r.columns = matrix.Columns()
	r.norms = make([]float64, matrix.Rows())
	r.days = make([][]string, matrix.Rows())
	for i := range matrix.Rows() {
		r.norms[i] = norm(matrix.Row(i))
		r.days[i] = features.ParseDays(matrix.Provider(i).Days)
	}
	return r, nil
}

// Ready reports whether the ranker has artifacts to rank against.
func (r *Ranker) Ready() bool {
	return r.matrix != nil && r.encoders != nil
}

// Rank returns up to req.TopN recommendations for req. It never fails;
// an empty outcome is an empty slice.
func (r *Ranker) Rank(req Request) []core.Recommendation {
	return r.RankWithMonitor(req, nil)
}

// RankWithMonitor ranks like Rank and reports each stage to monitor.
func (r *Ranker) RankWithMonitor(req Request, monitor RankMonitor) []core.Recommendation {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(req)

	if !r.Ready() || r.matrix.Rows() == 0 || req.TopN <= 0 {
		monitor.Finish(nil)
		return []core.Recommendation{}
	}

	vector := features.EncodeQuery(&req.Query, r.encoders, r.columns)
	monitor.AfterQueryEncoding(r.activeColumns(vector))

	candidates := r.similarities(vector)
	monitor.AfterSimilarity(candidates)

	candidates = r.filter(candidates, &req.Query, monitor)

	sortCandidates(candidates, req.SortBy, req.SortOrder)

	if len(candidates) > req.TopN {
		candidates = candidates[:req.TopN]
	}
	monitor.Finish(candidates)

	recs := make([]core.Recommendation, len(candidates))
	for i, c := range candidates {
		recs[i] = c.Provider.Recommendation()
	}
	return recs
}

// similarities scores every row against vector.
func (r *Ranker) similarities(vector []float64) []Scored {
	qn := norm(vector)
	candidates := make([]Scored, r.matrix.Rows())
	for i := range candidates {
		candidates[i] = Scored{
			Row:        i,
			Provider:   r.matrix.Provider(i),
			Similarity: cosine(vector, qn, r.matrix.Row(i), r.norms[i]),
		}
	}
	return candidates
}

// filter applies the hard filters in order, each narrowing the last.
func (r *Ranker) filter(candidates []Scored, q *core.Query, monitor RankMonitor) []Scored {
	floor := q.EffectiveMinRating()
	candidates = slices.DeleteFunc(candidates, func(c Scored) bool {
		return c.Provider.Rating < floor
	})
	monitor.AfterFilter(StageRating, len(candidates))

	if strings.TrimSpace(q.ServiceType) != "" {
		candidates = slices.DeleteFunc(candidates, func(c Scored) bool {
			return !labelsMatch(c.Provider.ServiceType, q.ServiceType)
		})
		monitor.AfterFilter(StageServiceType, len(candidates))
	}

	if strings.TrimSpace(q.Location) != "" {
		candidates = slices.DeleteFunc(candidates, func(c Scored) bool {
			return !labelsMatch(c.Provider.Location, q.Location)
		})
		monitor.AfterFilter(StageLocation, len(candidates))
	}

	if wanted := features.ParseDays(q.Days); len(wanted) > 0 {
		candidates = slices.DeleteFunc(candidates, func(c Scored) bool {
			return !features.DaysOverlap(r.days[c.Row], wanted)
		})
		monitor.AfterFilter(StageDays, len(candidates))
	}

	return candidates
}

// sortCandidates orders candidates in place. Similarity always sorts
// descending; rating and name honor order. Ties keep their prior order.
func sortCandidates(candidates []Scored, by core.SortKey, order core.SortOrder) {
	var compare func(a, b Scored) int
	switch by {
	case core.SortByRating:
		compare = func(a, b Scored) int { return cmp.Compare(a.Provider.Rating, b.Provider.Rating) }
	case core.SortByName:
		compare = func(a, b Scored) int { return strings.Compare(a.Provider.Name, b.Provider.Name) }
	default:
		slices.SortStableFunc(candidates, func(a, b Scored) int {
			return cmp.Compare(b.Similarity, a.Similarity)
		})
		return
	}

	if order == core.Descending {
		slices.SortStableFunc(candidates, func(a, b Scored) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(candidates, compare)
}

// activeColumns lists the columns with a non-zero query weight.
func (r *Ranker) activeColumns(vector []float64) []features.Column {
	active := make([]features.Column, 0)
	for i, v := range vector {
		if v != 0 {
			active = append(active, r.columns[i])
		}
	}
	return active
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// cosine returns the cosine similarity of a and b given their norms.
// A zero vector on either side scores 0.
func cosine(a []float64, an float64, b []float64, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (an * bn)
}
