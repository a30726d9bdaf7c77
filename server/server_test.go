package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convertsrv/pdfconvert/convert"
)

func newTestServer(t *testing.T, cfg *Config) *Server {
	t.Helper()
	v1 := &stubConverter{result: &convert.Result{Text: "v1 text", PageCount: 1}}
	v2 := &stubConverter{result: &convert.Result{Text: "v2 text", PageCount: 1}}
	return New(newTestHandler(v1, v2), nil, cfg)
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		method   string
		path     string
		wantCode int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/pdf/convert", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v2/pdf/convert", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			s.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestServerConvertEndToEnd(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t, "file", "doc.pdf", []byte("%PDF-fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/convert", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "v1 text", resp.Text)
	assert.Equal(t, "doc.pdf", resp.Filename)
}

func TestServerCORS(t *testing.T) {
	s := newTestServer(t, &Config{CORSOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/pdf/convert", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerCORSDisallowedOrigin(t *testing.T) {
	s := newTestServer(t, &Config{CORSOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/pdf/convert", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerRateLimited(t *testing.T) {
	s := newTestServer(t, &Config{RateLimitRequests: 1, RateLimitWindow: time.Minute})

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "request %d", i+1)
	}
}
