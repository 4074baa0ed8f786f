package search

import (
	"github.com/poiesic/servmatch/features"
)

// FilterStage names one of the hard filters applied after similarity.
type FilterStage string

const (
	StageRating      FilterStage = "rating"
	StageServiceType FilterStage = "service_type"
	StageLocation    FilterStage = "location"
	StageDays        FilterStage = "days"
)

// RankMonitor receives callbacks at each stage of a ranking.
// Implementations must be safe for use from the ranking goroutine.
type RankMonitor interface {
	Start(req Request)
	AfterQueryEncoding(active []features.Column)
	AfterSimilarity(candidates []Scored)
	// AfterFilter reports a filter that ran and how many candidates survived it.
	AfterFilter(stage FilterStage, remaining int)
	Finish(results []Scored)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Request)                        {}
func (n *noopMonitor) AfterQueryEncoding(_ []features.Column) {}
func (n *noopMonitor) AfterSimilarity(_ []Scored)             {}
func (n *noopMonitor) AfterFilter(_ FilterStage, _ int)       {}
func (n *noopMonitor) Finish(_ []Scored)                      {}
