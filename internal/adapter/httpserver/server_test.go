package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ecohydraulics/calculate-habitat-area/internal/domain"
)

type stubReporter struct {
	readyErr error
	summary  *domain.HabitatSummary
}

func (s *stubReporter) CheckReadiness(context.Context) error { return s.readyErr }

func (s *stubReporter) LastSummary() (domain.HabitatSummary, bool) {
	if s.summary == nil {
		return domain.HabitatSummary{}, false
	}
	return *s.summary, true
}

func newTestServer(reporter RunReporter) *Server {
	return NewServer(":0", reporter, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(&stubReporter{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestServer_Readyz(t *testing.T) {
	t.Run("ready after a completed run", func(t *testing.T) {
		srv := newTestServer(&stubReporter{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, 200, rec.Code)
	})

	t.Run("not ready before any run", func(t *testing.T) {
		srv := newTestServer(&stubReporter{readyErr: errors.New("no habitat run has completed yet")})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, 503, rec.Code)
		assert.Contains(t, rec.Body.String(), "no habitat run")
	})
}

func TestServer_Summary(t *testing.T) {
	t.Run("returns the latest summary", func(t *testing.T) {
		summary := &domain.HabitatSummary{
			Threshold:        0.6,
			UsablePixelCount: 4,
			PixelAreaM2:      100,
			TotalAreaM2:      400,
			GeneratedAt:      time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
		}
		srv := newTestServer(&stubReporter{summary: summary})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("GET", "/summary", nil))

		require.Equal(t, 200, rec.Code)
		var got domain.HabitatSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, *summary, got)
	})

	t.Run("404 before any run", func(t *testing.T) {
		srv := newTestServer(&stubReporter{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("GET", "/summary", nil))

		assert.Equal(t, 404, rec.Code)
	})
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(&stubReporter{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
}
