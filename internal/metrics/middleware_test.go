package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// searchRouter mirrors the API shape: /api/search requires ?query.
func searchRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/search", func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.Query().Has("query") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"result":[]}`))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMiddleware_SearchRouteStatuses(t *testing.T) {
	h := searchRouter()

	tests := []struct {
		target string
		status string
	}{
		{"/api/search?query=hello", "200"},
		{"/api/search?query=", "200"},
		{"/api/search", "400"},
		{"/health", "503"},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			path := "/api/search"
			if tc.target == "/health" {
				path = "/health"
			}
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", path, tc.status))

			rr := serve(h, "GET", tc.target)
			if got := strconv.Itoa(rr.Code); got != tc.status {
				t.Fatalf("status = %s, want %s", got, tc.status)
			}

			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", path, tc.status))
			if after-before != 1 {
				t.Errorf("requests_total{path=%s,status=%s} grew by %v, want 1", path, tc.status, after-before)
			}
		})
	}
}

func TestMiddleware_LabelsByRoutePatternNotQuery(t *testing.T) {
	h := searchRouter()
	serve(h, "GET", "/api/search?query=a")
	serve(h, "GET", "/api/search?query=b")

	// query strings must never leak into the path label
	if n := testutil.CollectAndCount(httpRequestsTotal, "neuralsearch_http_requests_total"); n == 0 {
		t.Fatal("expected neuralsearch_http_requests_total series")
	}
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/search?query=a", "200")); v != 0 {
		t.Errorf("query string used as label: %v", v)
	}
}

func TestMiddleware_UnmatchedRoutesCollapse(t *testing.T) {
	h := searchRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))

	serve(h, "GET", "/random-1")
	serve(h, "GET", "/random-2")

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	if after-before != 2 {
		t.Errorf("unmatched 404s grew by %v, want 2", after-before)
	}
}

func TestMiddleware_RecordsDuration(t *testing.T) {
	serve(searchRouter(), "GET", "/api/search?query=x")

	if n := testutil.CollectAndCount(httpRequestDuration, "neuralsearch_http_request_duration_seconds"); n == 0 {
		t.Error("expected neuralsearch_http_request_duration_seconds observations")
	}
}

func TestStoreMetricsUseNamespace(t *testing.T) {
	VectorQueryResults.WithLabelValues("startups").Observe(3)

	if n := testutil.CollectAndCount(VectorQueryResults, "neuralsearch_vector_query_results"); n == 0 {
		t.Error("expected neuralsearch_vector_query_results series")
	}
}

func TestRegisterHTTPMetrics_Idempotent(t *testing.T) {
	RegisterHTTPMetrics()
	RegisterHTTPMetrics()
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", unmatchedRoute},
		{"/*", unmatchedRoute},
		{"/api/search", "/api/search"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
