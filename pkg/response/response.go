package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Errors    any       `json:"errors,omitempty"`
}

// Build returns the success envelope without writing it.
func Build[T any](ctx *gin.Context, status int, data T, message string) APIResponse {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
	}
}

// Success writes a success envelope. A non-nil empty slice stays in the
// payload as "data": [].
func Success[T any](ctx *gin.Context, status int, data T, message string) {
	res := Build(ctx, status, data, message)
	ctx.JSON(res.Status, res)
}

// Message writes a success envelope without data.
func Message(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
	})
}

func errorBody(ctx *gin.Context, status int, message string, errs any) APIResponse {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Errors:    errs,
	}
}

// Error writes a failure envelope; errs is usually a field->message map or nil.
func Error(ctx *gin.Context, status int, message string, errs any) {
	res := errorBody(ctx, status, message, errs)
	ctx.JSON(res.Status, res)
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string) {
	res := errorBody(ctx, status, message, nil)
	ctx.AbortWithStatusJSON(res.Status, res)
}
