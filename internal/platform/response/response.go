package response

import (
	"net/http"

	"github.com/daedongje/service-wayfinding/internal/platform/errs"
	"github.com/gin-gonic/gin"
)

// Body is the JSON envelope every API response uses.
type Body struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{
		Success: false,
		Error:   &ErrorBody{Code: string(errs.KindValidation), Message: message},
	})
}

// Error maps err to an HTTP status and writes it.
func Error(c *gin.Context, err error) {
	kind, ok := errs.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, Body{
			Success: false,
			Error:   &ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
		})
		return
	}

	c.JSON(statusFor(kind), Body{
		Success: false,
		Error:   &ErrorBody{Code: string(kind), Message: err.Error()},
	})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInvalidState, errs.KindConflict:
		return http.StatusConflict
	case errs.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
