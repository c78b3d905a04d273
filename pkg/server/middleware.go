package server

import (
	"net/http"
	"time"

	"github.com/matzehuels/orthonet/pkg/buildinfo"
	"github.com/matzehuels/orthonet/pkg/observability"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// observe reports every request to the HTTP hooks and logs it at debug.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		w.Header().Set("Server", buildinfo.UserAgent())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, rec.status, d)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", d)
	})
}
