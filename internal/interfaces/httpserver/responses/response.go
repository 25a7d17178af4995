package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleValidationError rejects a request at the route layer with a 400
func HandleValidationError(reqCtx *gin.Context, message string) {
	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:     message,
		RequestID: reqCtx.GetHeader("X-Request-Id"),
	})
}

// HandleInternalError rejects a request at the route layer with a 500
func HandleInternalError(reqCtx *gin.Context, message string) {
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:     message,
		RequestID: reqCtx.GetHeader("X-Request-Id"),
	})
}
