package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/damage-rate-service/internal/adapter/httpapi"
	"github.com/couchcryptid/damage-rate-service/internal/domain"
	"github.com/couchcryptid/damage-rate-service/internal/pipeline"
)

type stubSource struct {
	set *domain.MetricSet
}

func (s *stubSource) Current() *domain.MetricSet { return s.set }

type stubReady struct {
	err error
}

func (s *stubReady) CheckReadiness(context.Context) error { return s.err }

// benchmarkSet builds a realistic set through the actual pipeline:
// AL 2020–2021 plus CA 2021.
func benchmarkSet() *domain.MetricSet {
	volumes := []domain.VolumeRecord{
		{State: "AL", Year: 2020, Volume: 100000},
		{State: "AL", Year: 2021, Volume: 100000},
		{State: "CA", Year: 2021, Volume: 200000},
	}
	damages := []domain.DamageRecord{
		{State: "AL", Year: 2020, Damages: 750},
		{State: "AL", Year: 2021, Damages: 800},
		{State: "CA", Year: 2021, Damages: 900},
	}
	return pipeline.Transform(volumes, damages, 0)
}

func newTestServer(set *domain.MetricSet) *httpapi.Server {
	ready := &stubReady{}
	if set == nil {
		ready.err = errors.New("no dataset loaded yet")
	}
	return httpapi.NewServer(":0", &stubSource{set: set}, ready, slog.Default())
}

func get(t *testing.T, srv *httpapi.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(nil)

	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/readyz").Code)

	srv = newTestServer(benchmarkSet())
	assert.Equal(t, http.StatusOK, get(t, srv, "/readyz").Code)
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(benchmarkSet())

	rec := get(t, srv, "/api/v1/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count   int                       `json:"count"`
		Metrics []*domain.StateYearMetric `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "AL", resp.Metrics[0].State)
	assert.Equal(t, 2020, resp.Metrics[0].Year)
}

func TestServer_MetricsYearFilter(t *testing.T) {
	srv := newTestServer(benchmarkSet())

	rec := get(t, srv, "/api/v1/metrics?year=2021")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Metrics []*domain.StateYearMetric `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Metrics, 2)
	assert.Equal(t, "AL", resp.Metrics[0].State)
	assert.Equal(t, "CA", resp.Metrics[1].State)

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/v1/metrics?year=abc").Code)
}

func TestServer_Lookup(t *testing.T) {
	srv := newTestServer(benchmarkSet())

	rec := get(t, srv, "/api/v1/metrics/al/2021")
	require.Equal(t, http.StatusOK, rec.Code, "state codes are case-insensitive in the URL")

	var m domain.StateYearMetric
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "AL", m.State)
	require.NotNil(t, m.ExpectedRate)
	assert.InDelta(t, 75, *m.ExpectedRate, 1e-9)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/v1/metrics/WY/2021").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/v1/metrics/AL/later").Code)
}

func TestServer_YearsAndStates(t *testing.T) {
	srv := newTestServer(benchmarkSet())

	rec := get(t, srv, "/api/v1/years")
	require.Equal(t, http.StatusOK, rec.Code)
	var years struct {
		Years []int `json:"years"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &years))
	// 2020 has no benchmark (no prior history, no 2019 baseline).
	assert.Equal(t, []int{2021}, years.Years)

	rec = get(t, srv, "/api/v1/states")
	require.Equal(t, http.StatusOK, rec.Code)
	var states struct {
		States []string `json:"states"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	assert.Equal(t, []string{"AL", "CA"}, states.States)
}

func TestServer_NoDatasetLoaded(t *testing.T) {
	srv := newTestServer(nil)

	for _, path := range []string{
		"/api/v1/metrics",
		"/api/v1/metrics/AL/2021",
		"/api/v1/years",
		"/api/v1/states",
	} {
		assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, path).Code, path)
	}
}
