package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/httpcontext-service/internal/domain"
)

func newContextRouter(t *testing.T, svc *mockContextService) *gin.Engine {
	t.Helper()

	router := gin.New()
	NewContextHandler(svc).RegisterContextRoutes(router.Group("/api/v1"))

	return router
}

func TestNewContextHandler(t *testing.T) {
	handler := NewContextHandler(newMockContextService(t))
	require.NotNil(t, handler)
}

func TestContextHandler_RegisterContextRoutes(t *testing.T) {
	router := newContextRouter(t, newMockContextService(t))

	routeMap := make(map[string]bool)
	for _, r := range router.Routes() {
		routeMap[r.Method+" "+r.Path] = true
	}

	for _, expected := range []string{
		"GET /api/v1/context",
		"GET /api/v1/context/properties/:key",
		"PUT /api/v1/context/properties/:key",
	} {
		assert.True(t, routeMap[expected], "missing route: %s", expected)
	}
}

func TestContextHandler_GetContext(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockContextService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "success",
			setupMock: func(m *mockContextService) {
				m.On("Describe", mock.Anything).Return(&domain.ExchangeSnapshot{
					Framework:  "gin",
					Method:     http.MethodGet,
					Path:       "/api/v1/context",
					Pattern:    "/api/v1/context",
					RequestID:  "req-1",
					Properties: map[string]any{"request_id": "req-1"},
					CapturedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp domain.ExchangeSnapshot
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "gin", resp.Framework)
				assert.Equal(t, "/api/v1/context", resp.Pattern)
				assert.Equal(t, "req-1", resp.RequestID)
			},
		},
		{
			name: "unbound request is an illegal state",
			setupMock: func(m *mockContextService) {
				m.On("Describe", mock.Anything).Return(nil, domain.NewIllegalStateError("URIInfo"))
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrorCodeIllegalState, resp.Error.Code)
				assert.NotContains(t, resp.Error.Message, "URIInfo")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockContextService(t)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			newContextRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/context", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, w)
		})
	}
}

func TestContextHandler_GetProperty(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		setupMock      func(*mockContextService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "found",
			key:  "tenant",
			setupMock: func(m *mockContextService) {
				m.On("Property", mock.Anything, "tenant").Return("acme", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"key":"tenant","value":"acme"}`,
		},
		{
			name: "missing",
			key:  "tenant",
			setupMock: func(m *mockContextService) {
				m.On("Property", mock.Anything, "tenant").Return(nil, domain.NewNotFoundError("property", "tenant"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   dto.ErrorCodeNotFound,
		},
		{
			name:           "key too long",
			key:            strings.Repeat("k", 129),
			setupMock:      func(*mockContextService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   dto.ErrorCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockContextService(t)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/context/properties/"+tt.key, nil)
			newContextRouter(t, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestContextHandler_PutProperty(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		body           string
		setupMock      func(*mockContextService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "stores value",
			key:  "tenant",
			body: `{"value":"acme"}`,
			setupMock: func(m *mockContextService) {
				m.On("SetProperty", mock.Anything, "tenant", "acme").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"key":"tenant","value":"acme"}`,
		},
		{
			name: "reserved key conflicts",
			key:  "request_id",
			body: `{"value":"forged"}`,
			setupMock: func(m *mockContextService) {
				m.On("SetProperty", mock.Anything, "request_id", "forged").
					Return(domain.NewConflictError("property", "request_id is set by the server"))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   dto.ErrorCodeConflict,
		},
		{
			name:           "missing value",
			key:            "tenant",
			body:           `{}`,
			setupMock:      func(*mockContextService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   dto.ErrorCodeValidation,
		},
		{
			name:           "malformed body",
			key:            "tenant",
			body:           `{"value":`,
			setupMock:      func(*mockContextService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   dto.ErrorCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockContextService(t)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/context/properties/"+tt.key, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newContextRouter(t, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
