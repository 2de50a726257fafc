// Package middleware provides the HTTP middleware of the graphqubo API.
//
// Every middleware has the form func(http.Handler) http.Handler and can be
// chained:
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Metrics(registry)(handler)
//	handler = middleware.Logging(logger, middleware.GetRequestID)(handler)
//	handler = middleware.RequestID()(handler)
//
// Errors produced by the middleware itself are written as {"error": "..."}
// JSON bodies, the same shape the API handlers use.
package middleware
