package middleware

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http/dto"
)

func TestCorrelationID(t *testing.T) {
	var seen string
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
	}))

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderCorrelationID, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(HeaderCorrelationID))
	})

	t.Run("mints id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(HeaderCorrelationID))
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := map[string]struct {
		allow      []string
		method     string
		origin     string
		preflight  bool
		wantStatus int
		wantOrigin string
	}{
		"wildcard reflects origin": {
			allow: []string{"*"}, method: http.MethodGet, origin: "http://shop.local",
			wantStatus: http.StatusTeapot, wantOrigin: "http://shop.local",
		},
		"listed origin": {
			allow: []string{"http://a.local", "http://shop.local"}, method: http.MethodGet, origin: "http://SHOP.local",
			wantStatus: http.StatusTeapot, wantOrigin: "http://SHOP.local",
		},
		"unlisted origin": {
			allow: []string{"http://a.local"}, method: http.MethodGet, origin: "http://evil.local",
			wantStatus: http.StatusTeapot,
		},
		"preflight short-circuits": {
			allow: []string{"*"}, method: http.MethodOptions, origin: "http://shop.local", preflight: true,
			wantStatus: http.StatusNoContent, wantOrigin: "http://shop.local",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/cart", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allow)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	h := CorrelationID(Recover(log.New(&logs, "", 0))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "cid-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal server error", body.Error)
	assert.Equal(t, "cid-1", body.CorrelationID)
	assert.Contains(t, logs.String(), "panic: boom")
}
