package api

import (
	"net/http"

	"github.com/dd0wney/graphqubo/pkg/pipeline"
	"github.com/dd0wney/graphqubo/pkg/validation"
)

// handleIsomorphismForm describes the graph isomorphism parameters
func (s *Server) handleIsomorphismForm(w http.ResponseWriter, r *http.Request) {
	cfg := s.runner.Config()

	var defaults validation.IsomorphismRequest
	cfg.FillIsomorphism(&defaults)

	s.respondJSON(w, http.StatusOK, FormResponse{
		Problem:  pipeline.ProblemIsomorphism,
		Defaults: defaults,
		Limits: map[string]Bounds{
			"vertices":  bounds(cfg.Isomorphism.MinVertices, cfg.Isomorphism.MaxVertices),
			"num_reads": bounds(1, cfg.Solvers.MaxNumReads),
		},
		Solvers:     s.runner.Solvers(),
		Correctness: pipeline.IsomorphismCorrectness,
	})
}

// handleIsomorphismRun runs graph isomorphism. Without structure2 the
// second graph is a random relabelling of the first.
func (s *Server) handleIsomorphismRun(w http.ResponseWriter, r *http.Request) {
	var req validation.IsomorphismRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.runner.Config().FillIsomorphism(&req)

	result, err := s.runner.Isomorphism(r.Context(), &req)
	if err != nil {
		s.respondRunError(w, r, pipeline.ProblemIsomorphism, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}
