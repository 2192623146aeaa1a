package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stackmatch/stackmatch/internal/api/models"
	"github.com/stackmatch/stackmatch/internal/database"
)

// Reasons returned in the "error" field of failed requests.
const (
	ReasonConflict         = "conflict: user exists"
	ReasonUnauthorized     = "unauthorized: invalid credentials"
	ReasonNotFound         = "not found"
	ReasonMissingField     = "bad request: missing field"
	ReasonInvalidBody      = "bad request: invalid body"
	ReasonInvalidUserID    = "bad request: invalid user id"
	ReasonInternalError    = "internal server error"
	reasonBadRequestPrefix = "bad request: "
)

func abortWithReason(c *gin.Context, status int, reason string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: reason})
}

// respondError maps store errors to their HTTP status and reason.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrUserExists):
		abortWithReason(c, http.StatusBadRequest, ReasonConflict)
	case errors.Is(err, database.ErrInvalidCredentials):
		abortWithReason(c, http.StatusUnauthorized, ReasonUnauthorized)
	case errors.Is(err, database.ErrNotFound):
		abortWithReason(c, http.StatusNotFound, ReasonNotFound)
	case errors.Is(err, database.ErrInvalidValue):
		abortWithReason(c, http.StatusBadRequest, reasonBadRequestPrefix+err.Error())
	default:
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWithReason(c, http.StatusInternalServerError, ReasonInternalError)
	}
}

// respondBindError answers a request whose body could not be bound.
// Failed "required" checks are reported as a missing field, everything else as an invalid body.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		log.Debug("Missing field in request", "path", c.FullPath(), "field", verrs[0].Field())
		abortWithReason(c, http.StatusBadRequest, ReasonMissingField)
		return
	}
	log.Debug("Invalid request body", "path", c.FullPath(), "error", err)
	abortWithReason(c, http.StatusBadRequest, ReasonInvalidBody)
}
