// Package response writes the JSON envelopes every endpoint returns.
package response

import (
	"errors"
	"net/http"
	"time"

	"vishwas-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SuccessResponse wraps a successful payload.
type SuccessResponse struct {
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse carries an error code and, for validation failures, the
// individual reasons.
type ErrorResponse struct {
	ErrorCode string   `json:"error_code"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id"`
	Timestamp string   `json:"timestamp"`
}

func OK(c *gin.Context, data any)      { success(c, http.StatusOK, data) }
func Created(c *gin.Context, data any) { success(c, http.StatusCreated, data) }

func success(c *gin.Context, status int, data any) {
	reqID, ts := stamp(c)
	c.JSON(status, SuccessResponse{Data: data, RequestID: reqID, Timestamp: ts})
}

// Error writes err as an error envelope. Anything that is not an
// *apperror.AppError is reported as SYS_000 without leaking its text.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.New("SYS_000", "Internal server error", http.StatusInternalServerError)
	}

	reqID, ts := stamp(c)
	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: reqID,
		Timestamp: ts,
	})
}

// stamp returns the request id set by the request logger (or a fresh one)
// and the current UTC time.
func stamp(c *gin.Context) (string, string) {
	reqID := c.GetString("request_id")
	if reqID == "" {
		reqID = uuid.NewString()
	}
	return reqID, time.Now().UTC().Format(time.RFC3339)
}
