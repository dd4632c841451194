package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingo/internal/auth"
	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/entities"
	"github.com/mrlokans/lingo/internal/services"
)

// SettingsController exposes the settings of the authenticated user.
type SettingsController struct {
	svc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{svc: svc}
}

// OnboardingRequest is the body of PUT /api/v1/settings/onboarding.
type OnboardingRequest struct {
	Step entities.OnboardingStep `json:"step" binding:"required"`
}

// Get handles GET /api/v1/settings
func (sc *SettingsController) Get(c *gin.Context) {
	st, err := sc.svc.Get(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Update handles PATCH /api/v1/settings
func (sc *SettingsController) Update(c *gin.Context) {
	var upd settings.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if upd.Empty() {
		respondBadRequest(c, "no settings to update")
		return
	}

	st, err := sc.svc.Update(auth.GetUserID(c), upd, c.ClientIP())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// SetOnboardingStep handles PUT /api/v1/settings/onboarding
func (sc *SettingsController) SetOnboardingStep(c *gin.Context) {
	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "step is required")
		return
	}

	st, err := sc.svc.SetOnboardingStep(auth.GetUserID(c), req.Step, c.ClientIP())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
