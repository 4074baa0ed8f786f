package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/servmatch/features"
	"github.com/poiesic/servmatch/search"
)

// explainMonitor prints each ranking stage as it happens.
type explainMonitor struct {
	w io.Writer
}

var _ search.RankMonitor = (*explainMonitor)(nil)

func newExplainMonitor(w io.Writer) *explainMonitor {
	return &explainMonitor{w: w}
}

func (m *explainMonitor) Start(req search.Request) {
	q := req.Query
	fmt.Fprintf(m.w, "query: service_type=%q location=%q skills=%q days=%q min_rating=%.1f\n",
		q.ServiceType, q.Location, q.Skills, q.Days, q.EffectiveMinRating())
	fmt.Fprintf(m.w, "sort: %s %s, top %d\n", req.SortBy, req.SortOrder, req.TopN)
}

func (m *explainMonitor) AfterQueryEncoding(active []features.Column) {
	if len(active) == 0 {
		fmt.Fprintln(m.w, "encoded query: no known features")
		return
	}
	names := make([]string, len(active))
	for i, col := range active {
		names[i] = col.Name()
	}
	fmt.Fprintf(m.w, "encoded query: %s\n", strings.Join(names, ", "))
}

func (m *explainMonitor) AfterSimilarity(candidates []search.Scored) {
	best := 0.0
	for _, c := range candidates {
		best = max(best, c.Similarity)
	}
	fmt.Fprintf(m.w, "similarity: %d candidates, best %.4f\n", len(candidates), best)
}

func (m *explainMonitor) AfterFilter(stage search.FilterStage, remaining int) {
	fmt.Fprintf(m.w, "filter %s: %d remaining\n", stage, remaining)
}

func (m *explainMonitor) Finish(results []search.Scored) {
	for i, r := range results {
		fmt.Fprintf(m.w, "  %d. %s (id %d) similarity %.4f\n", i+1, r.Provider.Name, r.Provider.ID, r.Similarity)
	}
}
