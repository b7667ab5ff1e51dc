package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"power-sim/internal/api/models"
	"power-sim/internal/data"
)

// ScenarioHandler handles scenario preset requests
type ScenarioHandler struct {
	dir string
	log zerolog.Logger
}

// NewScenarioHandler creates a new scenario handler. An empty dir falls
// back to data.ScenarioDir().
func NewScenarioHandler(dir string, log zerolog.Logger) *ScenarioHandler {
	if dir == "" {
		dir = data.ScenarioDir()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &ScenarioHandler{dir: dir, log: log}
}

// Dir returns the preset directory.
func (h *ScenarioHandler) Dir() string {
	return h.dir
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	list, errs := data.ListScenarios(h.dir)
	for _, err := range errs {
		h.log.Warn().Err(err).Str("dir", h.dir).Msg("skipping scenario")
	}

	scenarios := make([]models.ScenarioInfo, 0, len(list))
	for _, s := range list {
		scenarios = append(scenarios, models.ScenarioInfo{
			Name:        s.Name,
			Description: s.Description,
			Extends:     s.Extends,
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}
