package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/quickfib/internal/logging"
)

// scrape returns the text exposition of m.
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.RecordRequest("/fib", http.StatusOK)

	if !strings.Contains(scrape(t, a), `quickfib_requests_total{endpoint="/fib",status="200"} 1`) {
		t.Error("first registry should count the request")
	}
	if strings.Contains(scrape(t, b), `endpoint="/fib"`) {
		t.Error("second registry should be unaffected")
	}
}

func TestMetrics_ActiveRequests(t *testing.T) {
	m := NewMetrics()
	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()

	if !strings.Contains(scrape(t, m), "quickfib_active_requests 1") {
		t.Error("gauge should read 1")
	}
}

func TestMetrics_ObserveCalculation(t *testing.T) {
	m := NewMetrics()
	m.ObserveCalculation("u64", 3*time.Microsecond, false)
	m.ObserveCalculation("u8", time.Microsecond, true)
	m.ObserveCalculation("u8", time.Microsecond, true)

	body := scrape(t, m)
	for _, want := range []string{
		`quickfib_calculation_duration_seconds_count{type="u64"} 1`,
		`quickfib_calculation_duration_seconds_count{type="u8"} 2`,
		`quickfib_overflows_total{type="u8"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
	if strings.Contains(body, `quickfib_overflows_total{type="u64"}`) {
		t.Error("exact results should not count as overflows")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("exposition should include the Go collector")
	}
}

func TestServer_metricsMiddleware(t *testing.T) {
	s := &Server{metrics: NewMetrics()}
	handler := s.metricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/range", http.NoBody))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}

	body := scrape(t, s.metrics)
	if !strings.Contains(body, `quickfib_requests_total{endpoint="/range",status="418"} 1`) {
		t.Error("middleware should record the handler's status")
	}
	if !strings.Contains(body, "quickfib_active_requests 0") {
		t.Error("active gauge should return to 0")
	}
}

func TestServer_handleMetrics(t *testing.T) {
	s := &Server{metrics: NewMetrics(), logger: newTestLogger()}

	for _, tt := range []struct {
		method string
		want   int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusMethodNotAllowed},
		{http.MethodPut, http.StatusMethodNotAllowed},
	} {
		rec := httptest.NewRecorder()
		s.handleMetrics(rec, httptest.NewRequest(tt.method, "/metrics", http.NoBody))
		if rec.Code != tt.want {
			t.Errorf("%s /metrics = %d, want %d", tt.method, rec.Code, tt.want)
		}
	}
}

// testLogger discards everything.
type testLogger struct{}

func newTestLogger() *testLogger                                { return &testLogger{} }
func (*testLogger) Info(_ string, _ ...logging.Field)           {}
func (*testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (*testLogger) Debug(_ string, _ ...logging.Field)          {}
func (*testLogger) Printf(_ string, _ ...any)                   {}
func (*testLogger) Println(_ ...any)                            {}
