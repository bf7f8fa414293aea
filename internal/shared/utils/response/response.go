// Package response defines the JSON envelope shared by every HTTP handler.
package response

import "github.com/gin-gonic/gin"

type Envelope struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

// Success writes a success envelope with the given payload.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Envelope{
		Status:     "success",
		StatusCode: code,
		Message:    message,
		Data:       data,
	})
}

// Error writes an error envelope. details carries validation or
// lower-level error context and may be nil.
func Error(c *gin.Context, code int, message string, details interface{}) {
	c.JSON(code, Envelope{
		Status:     "error",
		StatusCode: code,
		Message:    message,
		Errors:     details,
	})
}
