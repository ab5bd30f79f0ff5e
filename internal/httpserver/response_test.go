package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopstack/internal/domain"
	"github.com/gin-gonic/gin"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func performWithError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		writeError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return w, body
}

func TestWriteError_NotFound(t *testing.T) {
	w, body := performWithError(t, domain.NotFound("Product", "id", int64(42)))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if body.Message != "Product not found with id: '42'" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.Status != http.StatusNotFound || body.Timestamp.IsZero() {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWriteError_Duplicate(t *testing.T) {
	w, body := performWithError(t, domain.Duplicate("User", "email", "ada@example.com"))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if body.Error != "Conflict" {
		t.Fatalf("unexpected label %q", body.Error)
	}
}

func TestWriteError_InvalidTransition(t *testing.T) {
	err := fmt.Errorf("%w: order in status SHIPPED cannot be cancelled", domain.ErrInvalidTransition)
	w, body := performWithError(t, err)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body.Message != err.Error() {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestWriteError_Validation(t *testing.T) {
	w, body := performWithError(t, domain.ValidationError{"quantity": "quantity must be at least 1"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body.Error != "Validation Failed" {
		t.Fatalf("unexpected label %q", body.Error)
	}
	if body.ValidationErrors["quantity"] != "quantity must be at least 1" {
		t.Fatalf("expected field errors, got %+v", body.ValidationErrors)
	}
}

func TestWriteError_UnknownStaysOpaque(t *testing.T) {
	w, body := performWithError(t, errors.New("pq: connection reset"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body.Message != "An unexpected error occurred" {
		t.Fatalf("internal detail must not leak, got %q", body.Message)
	}
}

func TestHealthEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newEngine(testLogger(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without db: expected 503, got %d", w.Code)
	}
}
