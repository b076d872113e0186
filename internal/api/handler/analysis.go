// Package handler provides HTTP handlers for the ResilRoute API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/resilroute/resilroute/internal/analysis"
	"github.com/resilroute/resilroute/internal/api/models"
	"github.com/resilroute/resilroute/internal/api/response"
	"github.com/resilroute/resilroute/internal/narrative"
	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/scoring"
)

// AnalysisHandler handles route analysis endpoints.
type AnalysisHandler struct {
	analysis *analysis.Service
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{analysis: svc}
}

// Analyze handles POST /v1/routes:analyze - run the full analysis pipeline.
//
// Structural errors in the body produce a 400 Problem response. Upstream
// failures during the pipeline still produce a 200 with analysis_complete
// set to false, so clients can distinguish a bad request from a degraded
// analysis.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var input models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "request validation failed", errs)
		return
	}

	req := analysis.Request{
		Origin:          routing.Coordinate{Lat: input.Origin.Lat, Lon: input.Origin.Lon},
		Destination:     routing.Coordinate{Lat: input.Destination.Lat, Lon: input.Destination.Lon},
		OriginName:      input.OriginName,
		DestinationName: input.DestinationName,
		Priorities:      scoring.Weights(input.Priorities),
		MaxAlternatives: input.MaxAlternatives,
		Previous:        previousAnalysis(input.PreviousRoute),
	}

	result := h.analysis.Analyze(r.Context(), req)
	response.JSON(w, r, http.StatusOK, result)
}

// Rescore handles POST /v1/routes:rescore - re-rank cached component scores
// under new priorities without refetching anything.
func (h *AnalysisHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	var input models.RescoreRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "request validation failed", errs)
		return
	}

	summary, err := h.analysis.Rescore(analysis.RescoreRequest{
		RouteNames:     input.RouteNames,
		TimeScores:     input.TimeScores,
		DistanceScores: input.DistanceScores,
		CarbonScores:   input.CarbonScores,
		RoadScores:     input.RoadScores,
		Priorities:     scoring.Weights(input.Priorities),
	})
	if err != nil {
		if errors.Is(err, analysis.ErrNoRoutes) {
			response.BadRequest(w, r, "no routes to rescore", nil)
			return
		}
		response.InternalError(w, r, "rescore failed")
		return
	}

	response.JSON(w, r, http.StatusOK, summary)
}

// previousAnalysis converts the optional reroute block into the form the
// narrative service expects.
func previousAnalysis(prev *models.PreviousRoute) *narrative.PreviousAnalysis {
	if prev == nil {
		return nil
	}
	return &narrative.PreviousAnalysis{
		RouteName:       prev.RouteName,
		ResilienceScore: prev.ResilienceScore,
		ComponentScores: prev.ComponentScores,
		Sentiment: narrative.Sentiment{
			Score:           prev.SentimentScore,
			RiskFactors:     prev.RiskFactors,
			PositiveFactors: prev.PositiveFactors,
		},
		AnalyzedAt: prev.AnalyzedAt,
	}
}
