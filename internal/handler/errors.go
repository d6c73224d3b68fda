package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/density"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
	"github.com/northseawatch/scrubber-backend-go/internal/service"
	"github.com/northseawatch/scrubber-backend-go/pkg/response"
)

// respondError maps service and repository errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, density.ErrInvalidTimeValue),
		errors.Is(err, density.ErrInvalidTimeUnit),
		errors.Is(err, service.ErrInvalidHeatmapType),
		errors.Is(err, service.ErrUnknownSkill),
		errors.Is(err, service.ErrInvalidTaskType),
		errors.Is(err, service.ErrTaskNotCancelable):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrTaskActive):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

// imoParam reads and validates the :imo path parameter
func imoParam(c *gin.Context) (string, bool) {
	imo := c.Param("imo")
	if imo == "" || len(imo) > 10 {
		response.BadRequest(c, "Invalid IMO number")
		return "", false
	}
	if _, err := strconv.ParseUint(imo, 10, 64); err != nil {
		response.BadRequest(c, "Invalid IMO number")
		return "", false
	}
	return imo, true
}
