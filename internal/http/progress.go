package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingo/internal/auth"
	"github.com/mrlokans/lingo/internal/database/progress"
	"github.com/mrlokans/lingo/internal/services"
)

// ProgressController records attempts and reports progress.
type ProgressController struct {
	svc *services.ProgressService
}

func NewProgressController(svc *services.ProgressService) *ProgressController {
	return &ProgressController{svc: svc}
}

// RecordAttempt handles POST /api/v1/progress/attempts
func (pc *ProgressController) RecordAttempt(c *gin.Context) {
	var in services.AttemptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := pc.svc.RecordAttempt(auth.GetUserID(c), in)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Next handles GET /api/v1/languages/:lang/modules/:module/units/:unit/next
func (pc *ProgressController) Next(c *gin.Context) {
	next, err := pc.svc.Next(auth.GetUserID(c), c.Param("lang"), c.Param("module"), c.Param("unit"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// Overview handles GET /api/v1/progress/:lang
func (pc *ProgressController) Overview(c *gin.Context) {
	overview, err := pc.svc.Overview(auth.GetUserID(c), c.Param("lang"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Topics handles GET /api/v1/progress/:lang/topics
func (pc *ProgressController) Topics(c *gin.Context) {
	topics, err := pc.svc.Topics(auth.GetUserID(c), c.Param("lang"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": c.Param("lang"), "topics": topics})
}

// Unit handles GET /api/v1/progress/:lang/modules/:module/units/:unit
func (pc *ProgressController) Unit(c *gin.Context) {
	counters, err := pc.svc.Unit(auth.GetUserID(c), c.Param("lang"), c.Param("module"), c.Param("unit"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress.UnitSummary{UnitID: c.Param("unit"), Counters: counters})
}

// History handles GET /api/v1/progress/:lang/history
func (pc *ProgressController) History(c *gin.Context) {
	limit, offset, ok := parsePagination(c, progress.DefaultHistoryLimit, progress.MaxHistoryLimit)
	if !ok {
		return
	}

	attempts, total, err := pc.svc.History(auth.GetUserID(c), c.Param("lang"), limit, offset)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(attempts, total, limit, offset))
}

// Stats handles GET /api/v1/progress/stats
func (pc *ProgressController) Stats(c *gin.Context) {
	stats, err := pc.svc.Stats(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Reset handles DELETE /api/v1/progress/:lang
func (pc *ProgressController) Reset(c *gin.Context) {
	deleted, err := pc.svc.Reset(auth.GetUserID(c), c.Param("lang"), c.ClientIP())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": c.Param("lang"), "deleted": deleted})
}
