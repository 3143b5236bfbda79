// Package api serves schedules and the medication catalog over HTTP as JSON.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harrisonrobin/dosely/pkg/model"
)

type APIError struct {
	Code    int
	Message string
}

type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// ResolveEndpoint renders a handler's result as 200 JSON, or its error as
// {"error": message} with the error's status code.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}

// errorFor maps a domain error to its HTTP status.
func errorFor(err error) *APIError {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		return &APIError{Code: http.StatusNotFound, Message: err.Error()}
	case errors.As(err, &verr):
		return &APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	}
	log.Error().Err(err).Msg("request failed")
	return &APIError{Code: http.StatusInternalServerError, Message: "internal error"}
}
