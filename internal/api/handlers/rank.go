package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"power-sim/internal/analysis"
	"power-sim/internal/api/models"
	"power-sim/internal/data"
)

const defaultRankLimit = 10

// RankHandler handles ranking-related requests
type RankHandler struct {
	cache *data.ResultCache
}

// NewRankHandler creates a new rank handler
func NewRankHandler(cache *data.ResultCache) *RankHandler {
	return &RankHandler{cache: cache}
}

// RankReplications handles GET /api/v1/simulations/:id/ranked
func (h *RankHandler) RankReplications(c *gin.Context) {
	var q models.RankedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultRankLimit
	}

	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		respondNotFound(c, id)
		return
	}

	ranked, err := analysis.RankByFinalPrice(entry.Result.Ensemble.Prices)
	if err != nil {
		respondRunError(c, err)
		return
	}
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:        i + 1,
			Replication: r.Replication,
			FinalPrice:  r.FinalPrice,
		}
	}
	c.JSON(http.StatusOK, models.RankedResponse{ID: id, Rankings: rankings})
}
