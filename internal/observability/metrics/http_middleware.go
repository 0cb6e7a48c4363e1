package metrics

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"
)

// HTTPMetricsMiddleware records a count and a duration for every request.
// Requests are labelled by the route pattern that matched, not the raw
// URL, so ids in the path do not multiply label cardinality.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		ObserveHTTPRequest(r.Method, route, strconv.Itoa(sw.status), time.Since(start))
	})
}

// statusWriter captures the response status. It forwards Unwrap and
// Hijack so handlers behind it can still take over the connection for
// websocket upgrades.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack hands the underlying connection to the caller. WriteHeader is
// never called on a hijacked connection, so the status is recorded here.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}
