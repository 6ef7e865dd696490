package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/config"
	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/dto"
	"github.com/jdank417/GroceryBarcodeScanner/internal/service"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "secret"
)

// MockLookupService is a mock implementation of service.LookupServicer
type MockLookupService struct {
	mock.Mock
}

func (m *MockLookupService) Scan(barcode string) (*service.LookupOutcome, error) {
	args := m.Called(barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LookupOutcome), args.Error(1)
}

func (m *MockLookupService) Lookup(query string) (*service.LookupOutcome, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LookupOutcome), args.Error(1)
}

func (m *MockLookupService) ReportClientError(message, details, sku string) {
	m.Called(message, details, sku)
}

// MockAggregations is a mock implementation of service.Aggregations
type MockAggregations struct {
	mock.Mock
}

func (m *MockAggregations) LifetimeCounts(ctx context.Context) (map[domain.EventType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.EventType]int64), args.Error(1)
}

func (m *MockAggregations) Summary(ctx context.Context) (*domain.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}

func (m *MockAggregations) BucketedCounts(ctx context.Context, eventType, startDate, endDate string) ([]domain.HourlyCount, error) {
	args := m.Called(ctx, eventType, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HourlyCount), args.Error(1)
}

func (m *MockAggregations) RecentEvents(ctx context.Context, startDate, endDate string) ([]domain.EventView, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventView), args.Error(1)
}

// MockHealthChecker is a mock implementation of service.HealthChecker
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type staticStats struct {
	stats service.RecorderStats
}

func (s staticStats) Stats() service.RecorderStats { return s.stats }

type testDeps struct {
	lookup       *MockLookupService
	aggregations *MockAggregations
	health       *MockHealthChecker
}

func newTestHandler() (*Handler, testDeps) {
	deps := testDeps{
		lookup:       new(MockLookupService),
		aggregations: new(MockAggregations),
		health:       new(MockHealthChecker),
	}
	h := NewHandler(Services{
		Lookup:       deps.lookup,
		Aggregations: deps.aggregations,
		Stats:        staticStats{stats: service.RecorderStats{Enqueued: 4, Processed: 3, Backlog: 1}},
		Health:       deps.health,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("scanner_events_persisted_total 3\n"))
		}),
	}, config.Admin{Username: testAdminUser, Password: testAdminPassword}, zap.NewNop())
	return h, deps
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func adminGet(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_HealthCheck(t *testing.T) {
	handler, deps := newTestHandler()
	deps.health.On("Ping", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.StatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestHandler_HealthCheck_StoreDown(t *testing.T) {
	handler, deps := newTestHandler()
	deps.health.On("Ping", mock.Anything).Return(errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandler_RequestIDPropagated(t *testing.T) {
	handler, deps := newTestHandler()
	deps.health.On("Ping", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}

func TestHandler_Scan_Found(t *testing.T) {
	handler, deps := newTestHandler()
	deps.lookup.On("Scan", "012345").Return(&service.LookupOutcome{
		Kind:  service.OutcomeBarcode,
		Query: "012345",
		Found: true,
		Item:  domain.Item{Key: "012345", Name: "Whole Milk", Price: 3.99},
	}, nil)

	w := postJSON(t, handler, "/api/scan", dto.ScanRequest{Barcode: "012345"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.LookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Found)
	require.NotNil(t, response.Item)
	assert.Equal(t, "Whole Milk", response.Item.Name)
	assert.Equal(t, "Item: Whole Milk, Price: $3.99", response.Message)
	deps.lookup.AssertExpectations(t)
}

func TestHandler_Scan_NotFoundIsOK(t *testing.T) {
	handler, deps := newTestHandler()
	deps.lookup.On("Scan", "012344").Return(&service.LookupOutcome{
		Kind:        service.OutcomeBarcode,
		Query:       "012344",
		Suggestions: []domain.Item{{Key: "012345", Name: "Whole Milk", Price: 3.99}},
	}, nil)

	w := postJSON(t, handler, "/api/scan", dto.ScanRequest{Barcode: "012344"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.LookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Found)
	assert.Nil(t, response.Item)
	require.Len(t, response.Suggestions, 1)
	assert.Equal(t, "012345", response.Suggestions[0].UPC)
	assert.Equal(t, "Item not found. Did you mean one of these?", response.Message)
}

func TestHandler_Scan_NonNumeric(t *testing.T) {
	handler, deps := newTestHandler()
	deps.lookup.On("Scan", "abc").Return(nil, service.ErrNonNumeric)

	w := postJSON(t, handler, "/api/scan", dto.ScanRequest{Barcode: "abc"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "validation_error", response.Error)
}

func TestHandler_Scan_InvalidJSON(t *testing.T) {
	handler, deps := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader([]byte(`{"barcode": invalid}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	deps.lookup.AssertNotCalled(t, "Scan", mock.Anything)
}

func TestHandler_Lookup_Search(t *testing.T) {
	handler, deps := newTestHandler()
	deps.lookup.On("Lookup", "milk").Return(&service.LookupOutcome{
		Kind:  service.OutcomeSearch,
		Query: "milk",
		Found: true,
		Matches: []domain.Item{
			{Key: "012345", Name: "Whole Milk", Price: 3.99},
			{Key: "012346", Name: "Chocolate Milk", Price: 4},
		},
	}, nil)

	w := postJSON(t, handler, "/api/lookup", dto.LookupRequest{Query: "milk"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.LookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "search", response.Kind)
	assert.Len(t, response.Matches, 2)
	assert.Equal(t, "Found 2 matching products", response.Message)
}

func TestHandler_Lookup_SearchMiss(t *testing.T) {
	handler, deps := newTestHandler()
	deps.lookup.On("Lookup", "cheese").Return(&service.LookupOutcome{Kind: service.OutcomeSearch, Query: "cheese"}, nil)

	w := postJSON(t, handler, "/api/lookup", dto.LookupRequest{Query: "cheese"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.LookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Found)
	assert.Equal(t, "No products found matching your search.", response.Message)
}

func TestHandler_Lookup_Empty(t *testing.T) {
	handler, deps := newTestHandler()

	w := postJSON(t, handler, "/api/lookup", dto.LookupRequest{Query: ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	deps.lookup.AssertNotCalled(t, "Lookup", mock.Anything)
}

func TestHandler_LogClientError(t *testing.T) {
	handler, deps := newTestHandler()
	deps.lookup.On("ReportClientError", "NotFoundException", "no barcode in frame", "012345").Return()

	w := postJSON(t, handler, "/log_client_error", dto.ClientErrorRequest{
		Error:   "NotFoundException",
		Details: "no barcode in frame",
		SKU:     "012345",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "logged", response.Status)
	deps.lookup.AssertExpectations(t)
}

func TestHandler_LogClientError_NoBody(t *testing.T) {
	handler, deps := newTestHandler()
	deps.lookup.On("ReportClientError", "", "", "").Return()

	req := httptest.NewRequest(http.MethodPost, "/log_client_error", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	deps.lookup.AssertExpectations(t)
}

func TestHandler_AdminRoutesRequireAuth(t *testing.T) {
	handler, _ := newTestHandler()

	for _, path := range []string{"/dashboard", "/api/summary", "/api/historical", "/api/item_events", "/debug/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		req = httptest.NewRequest(http.MethodGet, path, nil)
		req.SetBasicAuth(testAdminUser, "wrong")
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHandler_Summary(t *testing.T) {
	handler, deps := newTestHandler()
	deps.aggregations.On("Summary", mock.Anything).Return(&domain.Summary{
		Counts: map[domain.EventType]int64{
			domain.LookupSuccess: 3,
			domain.LookupFailure: 1,
		},
		CombinedSuccess: 3,
		CombinedFailure: 1,
		SuccessRate:     75,
	}, nil)

	w := adminGet(handler, "/api/summary")

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(3), response.Counts["lookup_success"])
	assert.Equal(t, int64(1), response.LookupFailureTotal)
	assert.Equal(t, 75.0, response.SuccessRate)
}

func TestHandler_Summary_StoreError(t *testing.T) {
	handler, deps := newTestHandler()
	deps.aggregations.On("Summary", mock.Anything).Return(nil, errors.New("database is locked"))

	w := adminGet(handler, "/api/summary")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "internal_error", response.Error)
}

func TestHandler_Historical(t *testing.T) {
	handler, deps := newTestHandler()
	deps.aggregations.On("BucketedCounts", mock.Anything, "lookup_success", "2024-06-01", "2024-06-01").
		Return([]domain.HourlyCount{{Hour: "2024-06-01 09:00:00", Count: 2}}, nil)

	w := adminGet(handler, "/api/historical?event_type=lookup_success&start_date=2024-06-01&end_date=2024-06-01")

	assert.Equal(t, http.StatusOK, w.Code)

	var response []dto.HourlyCountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []dto.HourlyCountResponse{{Hour: "2024-06-01 09:00:00", Count: 2}}, response)
}

func TestHandler_Historical_EmptyIsArray(t *testing.T) {
	handler, deps := newTestHandler()
	deps.aggregations.On("BucketedCounts", mock.Anything, "lookup_failure", "", "").
		Return([]domain.HourlyCount{}, nil)

	w := adminGet(handler, "/api/historical?event_type=lookup_failure")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHandler_Historical_ClientErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		err   error
	}{
		{"missing event type", "", service.ErrMissingEventType},
		{"invalid date", "?event_type=lookup_success&start_date=2024-13-40", service.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, deps := newTestHandler()
			deps.aggregations.On("BucketedCounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tt.err)

			w := adminGet(handler, "/api/historical"+tt.query)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "validation_error", response.Error)
		})
	}
}

func TestHandler_ItemEvents(t *testing.T) {
	handler, deps := newTestHandler()
	deps.aggregations.On("RecentEvents", mock.Anything, "2024-06-01", "2024-06-02").Return([]domain.EventView{
		{Type: domain.LookupFailure, Time: "2024-06-02 10:00:00", SubjectKey: "999"},
		{Type: domain.LookupSuccess, Time: "2024-06-01 09:15:00", SubjectKey: "012345", Detail: "Whole Milk"},
	}, nil)

	w := adminGet(handler, "/api/item_events?start_date=2024-06-01&end_date=2024-06-02")

	assert.Equal(t, http.StatusOK, w.Code)

	var response []dto.ItemEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, "lookup_failure", response[0].EventType)
	assert.Empty(t, response[0].Detail)
	assert.Equal(t, "Whole Milk", response[1].Detail)
}

func TestHandler_Stats(t *testing.T) {
	handler, _ := newTestHandler()

	w := adminGet(handler, "/debug/stats")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 4.0, response["enqueued"])
	assert.Equal(t, 1.0, response["backlog"])
}

func TestHandler_Dashboard(t *testing.T) {
	handler, deps := newTestHandler()
	deps.aggregations.On("Summary", mock.Anything).Return(&domain.Summary{
		Counts:          map[domain.EventType]int64{},
		CombinedSuccess: 3,
		CombinedFailure: 1,
		SuccessRate:     75,
	}, nil)

	w := adminGet(handler, "/dashboard")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "75.00%")
	assert.Contains(t, w.Body.String(), "non_numerical_value")
}

func TestHandler_Index(t *testing.T) {
	handler, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Barcode Lookup")
}

func TestHandler_Metrics(t *testing.T) {
	handler, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scanner_events_persisted_total")
}
