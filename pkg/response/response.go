package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common structure.
// Validator failures are expanded into the field→messages map the dashboard
// flattens for modal display.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	var vErrs validator.ValidationErrors
	if appErr.Fields == nil && errors.As(err, &vErrs) {
		appErr = appErrors.WithFields(appErr.Message, FieldErrors(vErrs))
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// FieldErrors converts validator errors into a field→messages map keyed by the
// lower-camel field name.
func FieldErrors(errs validator.ValidationErrors) map[string][]string {
	fields := make(map[string][]string, len(errs))
	for _, fe := range errs {
		name := lowerFirst(fe.Field())
		fields[name] = append(fields[name], fieldMessage(fe))
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return lowerFirst(fe.Field()) + " is required"
	case "email":
		return lowerFirst(fe.Field()) + " must be a valid email"
	case "min":
		return lowerFirst(fe.Field()) + " must be at least " + fe.Param()
	case "max":
		return lowerFirst(fe.Field()) + " must be at most " + fe.Param()
	case "oneof":
		return lowerFirst(fe.Field()) + " must be one of " + fe.Param()
	default:
		return lowerFirst(fe.Field()) + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
