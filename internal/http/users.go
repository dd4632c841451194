package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingo/internal/services"
)

// UsersController handles the user lifecycle calls of the auth service.
type UsersController struct {
	svc *services.UserService
}

func NewUsersController(svc *services.UserService) *UsersController {
	return &UsersController{svc: svc}
}

// CreateUserRequest is the body of POST /internal/users.
type CreateUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Email  string `json:"email"`
}

// Create handles POST /internal/users
func (uc *UsersController) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id is required")
		return
	}

	profile, err := uc.svc.Create(req.UserID, req.Email)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// Get handles GET /internal/users/:id
func (uc *UsersController) Get(c *gin.Context) {
	profile, err := uc.svc.Get(c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Delete handles DELETE /internal/users/:id
func (uc *UsersController) Delete(c *gin.Context) {
	result, err := uc.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}
