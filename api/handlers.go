package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/servmatch"
	"github.com/poiesic/servmatch/core"
	"github.com/poiesic/servmatch/search"
)

// NoResultsMessage is returned with an empty recommendation list.
const NoResultsMessage = "No recommendations found for your criteria. Try broadening your search!"

// Service is the engine surface the handlers need.
type Service interface {
	NewRequest(q core.Query) search.Request
	Recommend(req search.Request) ([]core.Recommendation, error)
	Provider(id int64) (core.Provider, error)
	Providers() []core.Provider
	Facets() servmatch.Facets
	Stats() servmatch.Stats
}

var _ Service = (*servmatch.Engine)(nil)

// flexString accepts a JSON string or number and keeps its text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// RecommendRequest is the body of POST /recommend. Field names match the
// HTML form of the web front end.
type RecommendRequest struct {
	ServiceType string     `json:"service_type" form:"service_type"`
	Location    string     `json:"location" form:"location"`
	Skills      string     `json:"skills" form:"skills"`
	Rating      flexString `json:"rating" form:"rating"`
	Days        string     `json:"days_available" form:"days_available"`
	SortBy      string     `json:"sort_by" form:"sort_by"`
	SortOrder   string     `json:"sort_order" form:"sort_order"`
	TopN        flexString `json:"top_n" form:"top_n"`
}

type handlers struct {
	svc    Service
	logger *slog.Logger
}

func (h *handlers) recommend(c *gin.Context) {
	var body RecommendRequest
	if err := c.ShouldBind(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := h.svc.NewRequest(core.Query{
		ServiceType: strings.TrimSpace(body.ServiceType),
		Location:    strings.TrimSpace(body.Location),
		Skills:      body.Skills,
		Days:        body.Days,
		MinRating:   core.Floor(core.ParseMinRating(string(body.Rating))),
	})
	req.SortBy = core.ParseSortKey(body.SortBy)
	req.SortOrder = core.ParseSortOrder(body.SortOrder)
	if s := strings.TrimSpace(string(body.TopN)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "top_n must be a positive integer")
			return
		}
		req.TopN = n
	}

	recs, err := h.svc.Recommend(req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	if len(recs) == 0 {
		respondSuccess(c, []core.Recommendation{}, NoResultsMessage)
		return
	}
	respondSuccess(c, recs, "Recommendations generated successfully")
}

func (h *handlers) listProviders(c *gin.Context) {
	providers := h.svc.Providers()
	recs := make([]core.Recommendation, len(providers))
	for i := range providers {
		recs[i] = providers[i].Recommendation()
	}
	respondSuccess(c, recs, "Providers fetched successfully")
}

func (h *handlers) showProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid provider id")
		return
	}
	p, err := h.svc.Provider(id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	respondSuccess(c, p.Recommendation(), "Provider fetched successfully")
}

func (h *handlers) facets(c *gin.Context) {
	respondSuccess(c, h.svc.Facets(), "Facets fetched successfully")
}

func (h *handlers) health(c *gin.Context) {
	respondSuccess(c, h.svc.Stats(), "ok")
}
