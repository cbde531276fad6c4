package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/app/config"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/domain"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/fakeadmin"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// fakeAdminAPI serves canned answers for the delivery areas collection.
type fakeAdminAPI struct {
	createStatus int
	createBody   string
	listStatus   int
	listBody     string

	creates atomic.Int32
	lists   atomic.Int32
}

func (f *fakeAdminAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/admin/deliveryAreas" {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer token" || r.Header.Get("X-API-Key") != "key" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"unauthorized"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodPost:
		f.creates.Inc()
		w.WriteHeader(f.createStatus)
		w.Write([]byte(f.createBody))
	case http.MethodGet:
		f.lists.Inc()
		w.WriteHeader(f.listStatus)
		w.Write([]byte(f.listBody))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestApp(t *testing.T, api *fakeAdminAPI, seeds []domain.AreaSeed) (*app, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		APIConfig: config.APIConfig{
			BaseURL:     server.URL + "/api/v1/admin",
			AccessToken: "token",
			APIKey:      "key",
			HTTPTimeout: 5 * time.Second,
		},
		RunConfig: config.RunConfig{
			RequestDelay:         time.Millisecond,
			DefaultEstimatedTime: 30,
			Currency:             "SAR",
		},
		RetryConfig: config.RetryConfig{MaxTries: 1},
	}
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	return New(cfg, seeds, server.Client(), &out, slog.New(slog.NewTextHandler(io.Discard, nil))), &out
}

func TestRunCreatesVerifiesAndLists(t *testing.T) {
	api := &fakeAdminAPI{
		createStatus: http.StatusCreated,
		createBody:   `{"data":{"deliveryArea":{"_id":"X"}}}`,
		listStatus:   http.StatusOK,
		listBody:     `{"data":{"deliveryAreas":[{"id":"X","name":"A","deliveryFee":20,"estimatedTime":30,"isActive":true}]}}`,
	}
	a, out := newTestApp(t, api, []domain.AreaSeed{{Name: "A", DeliveryFee: 20}})

	require.NoError(t, a.Run(context.Background()))

	report := out.String()
	assert.Contains(t, report, "OK       A added (id X)")
	assert.Contains(t, report, "Successfully added:        1")
	assert.Contains(t, report, "Skipped (already exist):   0")
	assert.Contains(t, report, "Failed:                    0")
	assert.Contains(t, report, "Found: 1/1")
	assert.Contains(t, report, "Missing: 0")
	assert.Contains(t, report, "A                        20          30          Active    X")
	assert.Contains(t, report, "Total: 1 delivery areas")
	assert.Contains(t, report, "SUCCESS")

	assert.Equal(t, int32(1), api.creates.Load())
	assert.Equal(t, int32(2), api.lists.Load(), "verify and list each fetch the collection")
}

func TestRunAlreadyExistsIsSkipped(t *testing.T) {
	api := &fakeAdminAPI{
		createStatus: http.StatusBadRequest,
		createBody:   `{"message":"Area already exists"}`,
		listStatus:   http.StatusOK,
		listBody:     `{"data":{"deliveryAreas":[{"_id":"1","name":"B","deliveryFee":40,"estimatedTime":30,"isActive":true}]}}`,
	}
	a, out := newTestApp(t, api, []domain.AreaSeed{{Name: "B", DeliveryFee: 40}})

	require.NoError(t, a.Run(context.Background()))

	report := out.String()
	assert.Contains(t, report, "SKIPPED  B already exists")
	assert.Contains(t, report, "Successfully added:        0")
	assert.Contains(t, report, "Skipped (already exist):   1")
	assert.Contains(t, report, "Failed:                    0")
	assert.Contains(t, report, "Found: 1/1")
	assert.Contains(t, report, "SUCCESS")
}

func TestRunReportsMissingArea(t *testing.T) {
	api := &fakeAdminAPI{
		createStatus: http.StatusInternalServerError,
		createBody:   `{"message":"database unavailable"}`,
		listStatus:   http.StatusOK,
		listBody:     `{"data":{"deliveryAreas":[{"_id":"1","name":"A","deliveryFee":20,"estimatedTime":30,"isActive":true}]}}`,
	}
	a, out := newTestApp(t, api, []domain.AreaSeed{{Name: "X", DeliveryFee: 55}})

	assert.False(t, a.VerifyAllAdded(context.Background()))
	assert.Contains(t, out.String(), "MISSING  X (Expected fee: 55 SAR)")

	out.Reset()
	require.NoError(t, a.Run(context.Background()), "missing areas do not fail the run")

	report := out.String()
	assert.Contains(t, report, "Failed:                    1")
	assert.Contains(t, report, "database unavailable")
	assert.Contains(t, report, "Found: 0/1")
	assert.Contains(t, report, "Missing: 1")
	assert.Contains(t, report, "WARNING: Some areas may be missing.")
}

func TestRunDegradesWhenFetchFails(t *testing.T) {
	api := &fakeAdminAPI{
		createStatus: http.StatusCreated,
		createBody:   `{"data":{"deliveryArea":{"_id":"1"}}}`,
		listStatus:   http.StatusBadGateway,
		listBody:     `<html>tunnel offline</html>`,
	}
	a, out := newTestApp(t, api, []domain.AreaSeed{{Name: "A", DeliveryFee: 20}, {Name: "B", DeliveryFee: 40}})

	require.NoError(t, a.Run(context.Background()))

	report := out.String()
	assert.Equal(t, 2, strings.Count(report, "Failed to fetch delivery areas"))
	assert.Contains(t, report, "WARNING")
	assert.Equal(t, int32(2), api.creates.Load())
}

func TestRunCanceled(t *testing.T) {
	api := &fakeAdminAPI{
		createStatus: http.StatusCreated,
		createBody:   `{}`,
		listStatus:   http.StatusOK,
		listBody:     `{"data":{"deliveryAreas":[]}}`,
	}
	a, _ := newTestApp(t, api, []domain.AreaSeed{{Name: "A", DeliveryFee: 20}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, a.Run(ctx), context.Canceled)
	assert.Zero(t, api.creates.Load())
}

func TestDisplayAllAreasSortsByFee(t *testing.T) {
	api := &fakeAdminAPI{
		listStatus: http.StatusOK,
		listBody: `{"data":{"deliveryAreas":[
			{"_id":"3","name":"C","deliveryFee":130,"estimatedTime":30,"isActive":true},
			{"_id":"1","name":"A","deliveryFee":20,"estimatedTime":30,"isActive":true},
			{"_id":"2","name":"B","deliveryFee":75,"estimatedTime":30,"isActive":false}
		]}}`,
	}
	a, out := newTestApp(t, api, nil)

	a.DisplayAllAreas(context.Background())
	require.NoError(t, a.Err())

	report := out.String()
	first := strings.Index(report, "A                        20")
	second := strings.Index(report, "B                        75")
	third := strings.Index(report, "C                        130")
	require.True(t, first >= 0 && second >= 0 && third >= 0, report)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestRunTwiceAgainstFakeAdmin(t *testing.T) {
	server := httptest.NewServer(fakeadmin.NewRouter("token", "key", slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		APIConfig: config.APIConfig{
			BaseURL:     server.URL + "/api/v1/admin",
			AccessToken: "token",
			APIKey:      "key",
		},
		RunConfig: config.RunConfig{
			DefaultEstimatedTime: 30,
			Currency:             "SAR",
		},
		RetryConfig: config.RetryConfig{MaxTries: 1},
	}
	seeds := seed.Default()

	var first bytes.Buffer
	require.NoError(t, New(cfg, seeds, server.Client(), &first, slog.New(slog.NewTextHandler(io.Discard, nil))).Run(context.Background()))
	assert.Contains(t, first.String(), "Successfully added:        27")
	assert.Contains(t, first.String(), "Found: 27/27")
	assert.Contains(t, first.String(), "SUCCESS")

	var second bytes.Buffer
	require.NoError(t, New(cfg, seeds, server.Client(), &second, slog.New(slog.NewTextHandler(io.Discard, nil))).Run(context.Background()))
	assert.Contains(t, second.String(), "Successfully added:        0")
	assert.Contains(t, second.String(), "Skipped (already exist):   27")
	assert.Contains(t, second.String(), "Total: 27 delivery areas")
	assert.Contains(t, second.String(), "SUCCESS")
}

func TestInspectPrintsEveryAuthMode(t *testing.T) {
	api := &fakeAdminAPI{
		listStatus: http.StatusOK,
		listBody:   `{"data":{"deliveryAreas":[]}}`,
	}
	a, out := newTestApp(t, api, nil)

	require.NoError(t, a.Inspect(context.Background()))

	report := out.String()
	assert.Contains(t, report, "[1] no auth")
	assert.Contains(t, report, "[4] bearer token and API key")
	assert.Equal(t, 3, strings.Count(report, "Response: 401 Unauthorized"))
	assert.Equal(t, 1, strings.Count(report, "Response: 200 OK"))
	assert.Equal(t, int32(1), api.lists.Load(), "only the fully authorized request reaches the collection")
	assert.Zero(t, api.creates.Load())
}
