package response

import "github.com/gin-gonic/gin"

// RequestIDHeader is set on the response by the request id middleware
const RequestIDHeader = "X-Request-ID"

type StandardApiResponse struct {
	Status     string      `json:"status"`               // "success" or "error"
	StatusCode int         `json:"status_code"`          // HTTP status code
	Message    string      `json:"message"`              // Human-readable message
	Data       interface{} `json:"data,omitempty"`       // Payload for success
	Errors     interface{} `json:"errors,omitempty"`     // Validation or error details
	RequestID  string      `json:"request_id,omitempty"` // Echo of the X-Request-ID header
}

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
		RequestID:  c.Writer.Header().Get(RequestIDHeader),
	})
}
