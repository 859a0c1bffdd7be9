package web

import (
	"net/http"
	"strings"
)

// EventsPath is where the status board stream is mounted
const EventsPath = "/events"

// HTTPProtocolMiddleware keeps clients on HTTP/1.1 or HTTP/2 and stops
// proxies from buffering the status stream
func HTTPProtocolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Alt-Svc", "clear")

		if strings.HasPrefix(r.URL.Path, EventsPath) {
			h.Set("Connection", "keep-alive")
			h.Set("Cache-Control", "no-cache")
			h.Set("X-Accel-Buffering", "no")
		}

		next.ServeHTTP(w, r)
	})
}
