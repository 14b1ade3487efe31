package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Transport instruments outgoing backend requests with Prometheus metrics
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(r)
		status := "network_error"
		if err == nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		ObserveAPIRequest(r.Method, RoutePattern(r.URL.Path), status, time.Since(start))
		return resp, err
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// RoutePattern replaces id-like path segments with ":id" to bound label cardinality
func RoutePattern(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if looksLikeID(s) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

func looksLikeID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
