package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopstack/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error body returned by every service.
type ErrorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// writeError maps a domain error onto its HTTP status. Anything outside the
// known taxonomy is reported as an opaque 500; the original error stays in
// the logs only.
func writeError(c *gin.Context, err error) {
	var validation domain.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Timestamp:        time.Now().UTC(),
			Status:           http.StatusBadRequest,
			Error:            "Validation Failed",
			Message:          validation.Error(),
			ValidationErrors: validation,
		})
		return
	}

	status := http.StatusInternalServerError
	label := "Internal Server Error"
	message := "An unexpected error occurred"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, label, message = http.StatusNotFound, "Not Found", err.Error()
	case errors.Is(err, domain.ErrDuplicate):
		status, label, message = http.StatusConflict, "Conflict", err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		status, label, message = http.StatusBadRequest, "Bad Request", err.Error()
	}

	c.JSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     label,
		Message:   message,
	})
}

// writeBindError reports a malformed request body or parameter.
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    http.StatusBadRequest,
		Error:     "Bad Request",
		Message:   "malformed request: " + err.Error(),
	})
}

// pathID parses a positive integer path parameter, aborting with 400 when
// it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Timestamp: time.Now().UTC(),
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   "invalid " + name + " path parameter",
		})
		return 0, false
	}
	return id, true
}
