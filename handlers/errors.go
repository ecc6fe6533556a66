// Package handlers holds what the endpoint packages share.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"olympool/services"
	"olympool/utils/response"

	"github.com/gin-gonic/gin"
)

// Constants for shared error messages
const (
	ErrInvalidRequest = "Invalid request data"
	ErrInvalidID      = "Invalid ID"
	ErrInternal       = "Internal server error"
)

// RespondWithServiceError maps an error returned by services to a response.
// notFound is the message used for missing records.
func RespondWithServiceError(c *gin.Context, log *slog.Logger, err error, notFound string) {
	var verr *services.ValidationError
	var serr *services.StateError
	var perr *services.PersistenceError

	switch {
	case errors.As(err, &verr):
		response.ValidationError(c, verr.Messages)
	case errors.As(err, &serr):
		response.Error(c, http.StatusConflict, serr.Message)
	case services.IsNotFound(err):
		response.Error(c, http.StatusNotFound, notFound)
	case errors.As(err, &perr):
		log.Error(perr.Op, "path", c.FullPath(), "error", perr.Err)
		response.Error(c, http.StatusInternalServerError, perr.Op)
	default:
		log.Error("Unexpected error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, ErrInternal)
	}
}

// ParseID reads a positive numeric path parameter. On failure it writes a
// 400 and returns false.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}
