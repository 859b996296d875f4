package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"running-page/internal/metrics"
)

func TestWrapHandlerRecordsStatus(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_status", "418"))

	h := WrapHandler("test_status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", w.Code)
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_status", "418"))
	if after != before+1 {
		t.Errorf("Expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestWrapHandlerImplicitOK(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_ok", "200"))

	h := WrapHandler("test_ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Body.String() != "hello" {
		t.Errorf("Expected body 'hello', got %q", w.Body.String())
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_ok", "200"))
	if after != before+1 {
		t.Errorf("Expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestWrapHandlerRecoversPanic(t *testing.T) {
	h := WrapHandler("test_panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_panic", "500")); got != 1 {
		t.Errorf("Expected one 500 recorded, got %v", got)
	}
}
