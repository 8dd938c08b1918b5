package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestRequestIDMiddleware tests the RequestID middleware.
func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		existingHeaderID string
		expectGenerated  bool
	}{
		{
			name:             "generates UUID when no header present",
			existingHeaderID: "",
			expectGenerated:  true,
		},
		{
			name:             "passes through existing header",
			existingHeaderID: "existing-req-123",
			expectGenerated:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedID string
			var capturedContextID string

			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				capturedID = GetRequestID(c)
				capturedContextID = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingHeaderID != "" {
				req.Header.Set(HeaderRequestID, tt.existingHeaderID)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			// Check response header is set
			responseHeader := w.Header().Get(HeaderRequestID)
			assert.NotEmpty(t, responseHeader)

			// Check ID is stored in gin context
			assert.NotEmpty(t, capturedID)
			assert.Equal(t, responseHeader, capturedID)

			// Check ID is stored in context.Context
			assert.Equal(t, capturedID, capturedContextID)

			if !tt.expectGenerated {
				assert.Equal(t, tt.existingHeaderID, capturedID)
			}
		})
	}
}

// TestCorrelationIDMiddleware tests the CorrelationID middleware.
func TestCorrelationIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		existingHeaderID string
		expectGenerated  bool
	}{
		{
			name:             "generates UUID when no header present",
			existingHeaderID: "",
			expectGenerated:  true,
		},
		{
			name:             "passes through existing header",
			existingHeaderID: "existing-corr-456",
			expectGenerated:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedID string
			var capturedContextID string

			router := gin.New()
			router.Use(CorrelationID())
			router.GET("/test", func(c *gin.Context) {
				capturedID = GetCorrelationID(c)
				capturedContextID = CorrelationIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingHeaderID != "" {
				req.Header.Set(HeaderCorrelationID, tt.existingHeaderID)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			// Check response header is set
			responseHeader := w.Header().Get(HeaderCorrelationID)
			assert.NotEmpty(t, responseHeader)

			// Check ID is stored in gin context
			assert.NotEmpty(t, capturedID)
			assert.Equal(t, responseHeader, capturedID)

			// Check ID is stored in context.Context
			assert.Equal(t, capturedID, capturedContextID)

			if !tt.expectGenerated {
				assert.Equal(t, tt.existingHeaderID, capturedID)
			}
		})
	}
}

// TestGetRequestID tests the GetRequestID function.
func TestGetRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func(*gin.Context)
		expected string
	}{
		{
			name: "returns value when set",
			setupCtx: func(c *gin.Context) {
				c.Set(ContextKeyRequestID, "test-id")
			},
			expected: "test-id",
		},
		{
			name:     "returns empty when not set",
			setupCtx: func(c *gin.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupCtx(c)

			result := GetRequestID(c)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestMustGetRequestID tests the MustGetRequestID function.
func TestMustGetRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func(*gin.Context)
		expected string
	}{
		{
			name: "returns value when set",
			setupCtx: func(c *gin.Context) {
				c.Set(ContextKeyRequestID, "test-id")
			},
			expected: "test-id",
		},
		{
			name:     "returns unknown when not set",
			setupCtx: func(c *gin.Context) {},
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupCtx(c)

			result := MustGetRequestID(c)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestGetCorrelationID tests the GetCorrelationID function.
func TestGetCorrelationID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func(*gin.Context)
		expected string
	}{
		{
			name: "returns value when set",
			setupCtx: func(c *gin.Context) {
				c.Set(ContextKeyCorrelationID, "corr-id")
			},
			expected: "corr-id",
		},
		{
			name:     "returns empty when not set",
			setupCtx: func(c *gin.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupCtx(c)

			result := GetCorrelationID(c)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestMustGetCorrelationID tests the MustGetCorrelationID function.
func TestMustGetCorrelationID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func(*gin.Context)
		expected string
	}{
		{
			name: "returns value when set",
			setupCtx: func(c *gin.Context) {
				c.Set(ContextKeyCorrelationID, "corr-id")
			},
			expected: "corr-id",
		},
		{
			name:     "returns unknown when not set",
			setupCtx: func(c *gin.Context) {},
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupCtx(c)

			result := MustGetCorrelationID(c)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestLogger tests that the base logger is attached to the request context.
func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(Logger(logger), RequestID())
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("from handler")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-logger")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "from handler")
	assert.Contains(t, buf.String(), `"request_id":"req-logger"`)
}

// TestLogging tests the Logging middleware.
func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		route     string
		target    string
		status    int
		skipPaths []string
		logged    bool
		level     string
	}{
		{"logs normal request", "/api/test", "/api/test", http.StatusOK, nil, true, "INFO"},
		{"logs path with query string", "/api/search", "/api/search?q=hello", http.StatusOK, nil, true, "INFO"},
		{"skips /-/ paths", "/-/live", "/-/live", http.StatusOK, nil, false, ""},
		{"skips configured path", "/metrics", "/metrics", http.StatusOK, []string{"/metrics"}, false, ""},
		{"logs 500 at error level", "/api/error", "/api/error", http.StatusInternalServerError, nil, true, "ERROR"},
		{"logs 400 at warn level", "/api/bad", "/api/bad", http.StatusBadRequest, nil, true, "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(Logger(logger), Logging(tt.skipPaths...))
			router.GET(tt.route, func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.status, w.Code)

			if !tt.logged {
				assert.Empty(t, buf.String())
				return
			}

			output := buf.String()
			assert.Contains(t, output, "request started")
			assert.Contains(t, output, "request completed")
			assert.Contains(t, output, `"route":"`+tt.route+`"`)
			assert.Contains(t, output, `"level":"`+tt.level+`"`)
		})
	}
}

// TestRecovery tests the Recovery middleware.
func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("normal request passes through", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panicking handler returns 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		router := gin.New()
		router.Use(Logger(slog.New(slog.NewJSONHandler(&buf, nil))), Recovery())
		router.GET("/test", func(c *gin.Context) {
			panic("something went wrong")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.Contains(t, w.Body.String(), "internal error")
		assert.Contains(t, buf.String(), "panic recovered")
		assert.Contains(t, buf.String(), "something went wrong")
	})

	t.Run("panic after write keeps status", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusAccepted, "partial")
			panic("late")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

// TestRecoveryWithHandler tests the panic callback.
func TestRecoveryWithHandler(t *testing.T) {
	t.Parallel()

	var capturedErr any
	var capturedStack []byte

	router := gin.New()
	router.Use(RecoveryWithHandler(func(err any, stack []byte) {
		capturedErr = err
		capturedStack = stack
	}))
	router.GET("/test", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "test panic", capturedErr)
	assert.Contains(t, string(capturedStack), "panic")
}

// TestGetIDFromContext tests the shared gin context lookup.
func TestGetIDFromContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func(*gin.Context)
		key      string
		expected string
	}{
		{
			name: "returns ID when string value exists",
			setupCtx: func(c *gin.Context) {
				c.Set("test-key", "test-value")
			},
			key:      "test-key",
			expected: "test-value",
		},
		{
			name:     "returns empty when key not exists",
			setupCtx: func(c *gin.Context) {},
			key:      "test-key",
			expected: "",
		},
		{
			name: "returns empty when value is not string",
			setupCtx: func(c *gin.Context) {
				c.Set("test-key", 123)
			},
			key:      "test-key",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupCtx(c)

			result := getIDFromContext(c, tt.key)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestContextStorageIntegration checks the ID lands in both contexts.
func TestContextStorageIntegration(t *testing.T) {
	t.Parallel()

	t.Run("RequestID middleware stores ID in both contexts", func(t *testing.T) {
		t.Parallel()

		var ginContextID string
		var stdContextID string

		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			ginContextID = GetRequestID(c)
			stdContextID = RequestIDFromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, "integration-test-id")

		router.ServeHTTP(w, req)

		assert.Equal(t, "integration-test-id", ginContextID)
		assert.Equal(t, "integration-test-id", stdContextID)
		assert.Equal(t, ginContextID, stdContextID)
	})

	t.Run("CorrelationID middleware stores ID in both contexts", func(t *testing.T) {
		t.Parallel()

		var ginContextID string
		var stdContextID string

		router := gin.New()
		router.Use(CorrelationID())
		router.GET("/test", func(c *gin.Context) {
			ginContextID = GetCorrelationID(c)
			stdContextID = CorrelationIDFromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderCorrelationID, "integration-corr-id")

		router.ServeHTTP(w, req)

		assert.Equal(t, "integration-corr-id", ginContextID)
		assert.Equal(t, "integration-corr-id", stdContextID)
		assert.Equal(t, ginContextID, stdContextID)
	})
}

// TestUUIDGeneration checks generated IDs are UUID v4.
func TestUUIDGeneration(t *testing.T) {
	t.Parallel()

	t.Run("RequestID generates valid UUID", func(t *testing.T) {
		t.Parallel()

		var generatedID string

		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			generatedID = GetRequestID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		router.ServeHTTP(w, req)

		assert.NotEmpty(t, generatedID)
		// UUID v4 format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, generatedID)
	})

	t.Run("CorrelationID generates valid UUID", func(t *testing.T) {
		t.Parallel()

		var generatedID string

		router := gin.New()
		router.Use(CorrelationID())
		router.GET("/test", func(c *gin.Context) {
			generatedID = GetCorrelationID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		router.ServeHTTP(w, req)

		assert.NotEmpty(t, generatedID)
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, generatedID)
	})
}
