package middleware

import (
	"context"
	"net/http"
)

type routeKey struct{}

type routeInfo struct {
	pattern string
}

// CaptureRoute wraps the mux so middleware further out can read the matched
// pattern after the request is served. Inner middleware replaces the request
// with copies, so r.Pattern alone is not visible outside.
func CaptureRoute(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if info, ok := r.Context().Value(routeKey{}).(*routeInfo); ok {
			info.pattern = r.Pattern
		}
	})
}

func withRoute(r *http.Request) (*http.Request, *routeInfo) {
	if info, ok := r.Context().Value(routeKey{}).(*routeInfo); ok {
		return r, info
	}
	info := &routeInfo{}
	return r.WithContext(context.WithValue(r.Context(), routeKey{}, info)), info
}
