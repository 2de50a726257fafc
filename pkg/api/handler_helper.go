package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dd0wney/graphqubo/pkg/api/middleware"
	"github.com/dd0wney/graphqubo/pkg/logging"
	"github.com/dd0wney/graphqubo/pkg/qubo"
	"github.com/dd0wney/graphqubo/pkg/solver"
	"github.com/dd0wney/graphqubo/pkg/validation"
)

// graphStructureMessage is shown for any graph the builders cannot use
const graphStructureMessage = "error in graph structure"

// decodeJSON reads a single JSON object into v. Unknown fields are
// rejected. It writes the error response itself and reports success.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "request body too large", "")
			return false
		}
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if dec.More() {
		s.respondError(w, http.StatusBadRequest, "invalid request body", "trailing data after JSON object")
		return false
	}
	return true
}

// classify maps a run error to its HTTP status, user message and detail
func classify(err error) (status int, message, detail string) {
	var solverErr *solver.Error
	switch {
	case errors.Is(err, validation.ErrValidation):
		return http.StatusBadRequest, "invalid parameters", err.Error()
	case errors.Is(err, solver.ErrUnknownSolver):
		return http.StatusBadRequest, "invalid parameters", err.Error()
	case errors.Is(err, qubo.ErrGraphStructure):
		return http.StatusUnprocessableEntity, graphStructureMessage, err.Error()
	case errors.Is(err, qubo.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid parameters", err.Error()
	case errors.As(err, &solverErr):
		var status *solver.StatusError
		if errors.As(err, &status) && status.Message != "" {
			return http.StatusBadGateway, status.Message, solverErr.Error()
		}
		return http.StatusBadGateway, solverErr.Cause.Error(), solverErr.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "run cancelled", err.Error()
	default:
		return http.StatusInternalServerError, "internal server error", ""
	}
}

// respondRunError logs a failed run and writes its error response
func (s *Server) respondRunError(w http.ResponseWriter, r *http.Request, problem string, err error) {
	status, message, detail := classify(err)
	fields := []logging.Field{
		logging.Problem(problem),
		logging.Int("status", status),
		logging.Error(err),
		logging.RequestID(middleware.GetRequestID(r)),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("run failed", fields...)
	} else {
		s.logger.Info("run rejected", fields...)
	}
	s.respondError(w, status, message, detail)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		s.logger.Error("encode response", logging.Error(err))
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(ErrorResponse{Error: "internal server error", Code: status})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug("write response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message, detail string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:  message,
		Detail: detail,
		Code:   status,
	})
}

func bounds(min, max int) Bounds {
	return Bounds{Min: min, Max: max}
}
