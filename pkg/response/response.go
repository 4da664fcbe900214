package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Message    string             `json:"message,omitempty"`
	Data       interface{}        `json:"data,omitempty"`
	Error      *ErrorBody         `json:"error,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// ErrorBody is the serialised form of an application error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Detail  string `json:"detail,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	noStore(c)
	c.JSON(status, Envelope{Data: data, Pagination: pagination})
}

// Message sends a success response carrying a human readable message and optional data.
func Message(c *gin.Context, status int, message string, data interface{}) {
	noStore(c)
	c.JSON(status, Envelope{Message: message, Data: data})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, message string, data interface{}) {
	Message(c, http.StatusCreated, message, data)
}

// Error sends an error response converting the error to the common structure.
// The wrapped cause is only exposed when gin is not running in release mode.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := &ErrorBody{Code: appErr.Code, Message: appErr.Message, Status: appErr.Status}
	if appErr.Err != nil && gin.Mode() != gin.ReleaseMode {
		body.Detail = appErr.Err.Error()
	}
	noStore(c)
	c.JSON(appErr.Status, Envelope{Message: appErr.Message, Error: body})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
