package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DebugKey is the gin context key holding whether error details may be exposed.
const DebugKey = "app_debug"

const (
	MsgValidationFailed = "The given data was invalid."
	MsgServerError      = "An unexpected error occurred. Please try again later."
	MsgRouteNotFound    = "The requested endpoint does not exist."
	MsgMethodNotAllowed = "The HTTP method is not allowed for this endpoint."
)

// Envelope is the JSON body every endpoint answers with.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Debug   interface{} `json:"debug,omitempty"`
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data, meta interface{}) {
	c.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

func Error(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Envelope{
		Success: false,
		Message: message,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, message string, errs interface{}) {
	c.AbortWithStatusJSON(statusCode, Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

func ValidationError(c *gin.Context, errs interface{}) {
	ErrorWithDetails(c, http.StatusUnprocessableEntity, MsgValidationFailed, errs)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthenticated."
	}
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "This action is unauthorized."
	}
	Error(c, http.StatusForbidden, message)
}

// ServerError answers 500. The cause is only exposed when debug mode is on.
func ServerError(c *gin.Context, err error) {
	_ = c.Error(err)

	if !c.GetBool(DebugKey) || err == nil {
		Error(c, http.StatusInternalServerError, MsgServerError)
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Message: err.Error(),
		Debug: gin.H{
			"exception": fmt.Sprintf("%T", err),
			"error":     err.Error(),
		},
	})
}
