package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"power-sim/internal/analysis"
	"power-sim/internal/api/models"
	"power-sim/internal/data"
	"power-sim/internal/model"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

type tooLargeError struct {
	cells float64
	limit int
}

func (e *tooLargeError) Error() string {
	return fmt.Sprintf("num_paths * grid points = %.0f exceeds the limit of %d", e.cells, e.limit)
}

// respondRunError maps domain errors onto the HTTP error envelope.
func respondRunError(c *gin.Context, err error) {
	var cfgErr *model.ConfigurationError
	var sizeErr *tooLargeError
	switch {
	case errors.As(err, &sizeErr):
		respondError(c, http.StatusBadRequest, "TOO_LARGE", err.Error())
	case errors.As(err, &cfgErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
				Details: map[string]interface{}{"field": cfgErr.Field},
			},
		})
	case errors.Is(err, analysis.ErrInvalidPercentile):
		respondError(c, http.StatusBadRequest, "INVALID_PERCENTILE", err.Error())
	case errors.Is(err, data.ErrScenarioNotFound):
		respondError(c, http.StatusNotFound, "SCENARIO_NOT_FOUND", err.Error())
	case errors.Is(err, model.ErrEmptyEnsemble):
		respondError(c, http.StatusUnprocessableEntity, "EMPTY_ENSEMBLE", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "SIMULATION_ERROR", err.Error())
	}
}

func respondNotFound(c *gin.Context, id string) {
	respondError(c, http.StatusNotFound, "NOT_FOUND", "simulation "+id+" not found or expired")
}
