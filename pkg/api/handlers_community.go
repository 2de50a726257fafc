package api

import (
	"net/http"

	"github.com/dd0wney/graphqubo/pkg/config"
	"github.com/dd0wney/graphqubo/pkg/pipeline"
	"github.com/dd0wney/graphqubo/pkg/validation"
)

// handleCommunityForm describes the community detection parameters
func (s *Server) handleCommunityForm(w http.ResponseWriter, r *http.Request) {
	cfg := s.runner.Config()

	var defaults validation.CommunityRequest
	cfg.FillCommunity(&defaults)
	defaults.Penalty = cfg.Community.Penalty

	s.respondJSON(w, http.StatusOK, FormResponse{
		Problem:  pipeline.ProblemCommunityDetection,
		Defaults: defaults,
		Limits: map[string]Bounds{
			"vertices":    bounds(cfg.Community.MinVertices, cfg.Community.MaxVertices),
			"communities": bounds(cfg.Community.MinCommunities, cfg.Community.MaxCommunities),
			"num_reads":   bounds(1, cfg.Solvers.MaxNumReads),
		},
		Solvers:     s.runner.Solvers(),
		References:  config.References(),
		Correctness: pipeline.CommunityCorrectness,
	})
}

// handleCommunityRun runs community detection. Omitted fields take the
// configured defaults.
func (s *Server) handleCommunityRun(w http.ResponseWriter, r *http.Request) {
	var req validation.CommunityRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.runner.Config().FillCommunity(&req)

	result, err := s.runner.Community(r.Context(), &req)
	if err != nil {
		s.respondRunError(w, r, pipeline.ProblemCommunityDetection, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}
