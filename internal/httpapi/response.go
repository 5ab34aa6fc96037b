package httpapi

import (
	"errors"
	"net/http"

	"logistics-insights/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorDetail names one rejected request field.
type ErrorDetail struct {
	Path string `json:"path"`
	Info string `json:"info"`
}

// FailureBody is the failure envelope plus optional validation details.
type FailureBody struct {
	service.Failure
	Details []ErrorDetail `json:"details,omitempty"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Fail maps a service error to 400 for bad input and 500 otherwise.
func Fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if service.IsInvalidInput(err) {
		status = http.StatusBadRequest
	}
	c.JSON(status, FailureBody{Failure: service.NewFailure(err)})
}

// BadRequestWithValidation writes a 400 with one detail per failed field.
func BadRequestWithValidation(c *gin.Context, err error) {
	body := FailureBody{Failure: service.Failure{Error: err.Error(), Message: "Validation failed"}}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		body.Error = "invalid request parameters"
		body.Details = make([]ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			body.Details = append(body.Details, ErrorDetail{
				Path: fieldErr.Field(),
				Info: validationMessage(fieldErr),
			})
		}
	}
	c.JSON(http.StatusBadRequest, body)
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	default:
		return fieldErr.Field() + " is invalid"
	}
}
