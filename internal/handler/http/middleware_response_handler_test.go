package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponseWriter(rr *httptest.ResponseRecorder) *responseWriter {
	return &responseWriter{ResponseWriter: rr}
}

// ── WriteHeader ───────────────────────────────────────────────────────────────

func TestResponseWriter_WriteHeader_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		statusCodes    []int
		expectedStatus int
	}{
		{name: "200 OK", statusCodes: []int{http.StatusOK}, expectedStatus: http.StatusOK},
		{name: "302 Found", statusCodes: []int{http.StatusFound}, expectedStatus: http.StatusFound},
		{name: "404 Not Found", statusCodes: []int{http.StatusNotFound}, expectedStatus: http.StatusNotFound},
		{name: "503 Service Unavailable", statusCodes: []int{http.StatusServiceUnavailable}, expectedStatus: http.StatusServiceUnavailable},
		{name: "double call, first wins", statusCodes: []int{http.StatusAccepted, http.StatusBadRequest}, expectedStatus: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newResponseWriter(rr)

			for _, code := range tt.statusCodes {
				w.WriteHeader(code)
			}

			assert.Equal(t, tt.expectedStatus, w.Status())
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.True(t, w.wroteHeader)
		})
	}
}

// ── Write ─────────────────────────────────────────────────────────────────────

func TestResponseWriter_Write_TableTest(t *testing.T) {
	tests := []struct {
		name         string
		writes       []string
		explicitCode int
		wantStatus   int
		wantSize     int
	}{
		{name: "single write, implicit 200", writes: []string{"OK"}, wantStatus: http.StatusOK, wantSize: 2},
		{name: "multiple writes accumulate size", writes: []string{"foo", "bar", "baz"}, wantStatus: http.StatusOK, wantSize: 9},
		{name: "explicit 201, then write", writes: []string{"created"}, explicitCode: http.StatusCreated, wantStatus: http.StatusCreated, wantSize: 7},
		{name: "empty write", writes: []string{""}, wantStatus: http.StatusOK, wantSize: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newResponseWriter(rr)

			if tt.explicitCode != 0 {
				w.WriteHeader(tt.explicitCode)
			}
			for _, data := range tt.writes {
				_, err := w.Write([]byte(data))
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantStatus, w.Status())
			assert.Equal(t, tt.wantSize, w.size)
			assert.Equal(t, tt.wantSize, rr.Body.Len())
		})
	}
}

// ── Status / Unwrap ───────────────────────────────────────────────────────────

func TestResponseWriter_StatusWithoutWrites(t *testing.T) {
	w := newResponseWriter(httptest.NewRecorder())

	assert.False(t, w.wroteHeader)
	assert.Equal(t, http.StatusOK, w.Status())
}

func TestResponseWriter_ProxiesHeadersToUnderlying(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newResponseWriter(rr)

	w.Header().Set("X-Custom", "value")
	w.WriteHeader(http.StatusTeapot)

	assert.Equal(t, "value", rr.Header().Get("X-Custom"))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Same(t, rr, w.Unwrap())
}
