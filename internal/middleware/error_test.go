package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHandlingMiddleware_Panic(t *testing.T) {
	buf := captureLogs(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	req := httptest.NewRequest("GET", "/api/concerts", nil)
	rr := httptest.NewRecorder()

	ErrorHandlingMiddleware(handler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"errorMessage":"An unexpected error occurred."}`, rr.Body.String())
	assert.Contains(t, buf.String(), "Recovered from panic")
}

func TestErrorHandlingMiddleware_AbortHandler(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	req := httptest.NewRequest("GET", "/api/concerts", nil)
	rr := httptest.NewRecorder()

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		ErrorHandlingMiddleware(handler).ServeHTTP(rr, req)
	})
}

func TestNotFoundHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	NotFoundHandler().ServeHTTP(rr, httptest.NewRequest("GET", "/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"errorMessage":"Resource not found."}`, rr.Body.String())
}

func TestMethodNotAllowedHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	MethodNotAllowedHandler().ServeHTTP(rr, httptest.NewRequest("PATCH", "/api/concerts", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.JSONEq(t, `{"errorMessage":"Method not allowed for this endpoint."}`, rr.Body.String())
}

func TestErrorHandlingMiddleware_MultipleRequests(t *testing.T) {
	captureLogs(t)

	normalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("normal"))
	})

	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	rr1 := httptest.NewRecorder()
	ErrorHandlingMiddleware(normalHandler).ServeHTTP(rr1, httptest.NewRequest("GET", "/normal", nil))
	assert.Equal(t, http.StatusOK, rr1.Code)
	assert.Equal(t, "normal", rr1.Body.String())

	rr2 := httptest.NewRecorder()
	ErrorHandlingMiddleware(panicHandler).ServeHTTP(rr2, httptest.NewRequest("GET", "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rr2.Code)

	rr3 := httptest.NewRecorder()
	ErrorHandlingMiddleware(normalHandler).ServeHTTP(rr3, httptest.NewRequest("GET", "/normal", nil))
	assert.Equal(t, http.StatusOK, rr3.Code)
}
