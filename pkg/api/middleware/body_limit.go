package middleware

import (
	"net/http"
)

// BodySizeLimit creates middleware that rejects request bodies larger than
// maxBytes. A declared Content-Length over the limit is refused up front;
// otherwise reads past the limit fail inside the handler.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
