package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingo/internal/auth"
	"github.com/mrlokans/lingo/internal/entities"
	"github.com/mrlokans/lingo/internal/services"
)

// EventReader lists audit events of a user.
type EventReader interface {
	GetEvents(userID string, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(eventType entities.AuditEventType, userID string, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// MeController serves the authenticated user's own profile and activity.
type MeController struct {
	users  *services.UserService
	events EventReader
}

func NewMeController(users *services.UserService, events EventReader) *MeController {
	return &MeController{users: users, events: events}
}

// Me handles GET /api/v1/me
func (mc *MeController) Me(c *gin.Context) {
	profile, err := mc.users.Get(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Events handles GET /api/v1/me/events
// An optional type query parameter filters by event type.
func (mc *MeController) Events(c *gin.Context) {
	limit, offset, ok := parsePagination(c, 25, 100)
	if !ok {
		return
	}

	userID := auth.GetUserID(c)
	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if raw := c.Query("type"); raw != "" {
		eventType := entities.AuditEventType(raw)
		if !eventType.Valid() {
			respondBadRequest(c, "unknown event type: "+raw)
			return
		}
		events, total, err = mc.events.GetEventsByType(eventType, userID, limit, offset)
	} else {
		events, total, err = mc.events.GetEvents(userID, limit, offset)
	}
	if err != nil {
		respondInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(events, total, limit, offset))
}

// UserChecker reports whether a live user exists.
type UserChecker interface {
	Exists(id string) (bool, error)
}

// RequireUser rejects authenticated requests whose subject has no live user.
// It must run after the bearer middleware.
func RequireUser(users UserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAuthenticated(c) {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
			return
		}
		live, err := users.Exists(auth.GetUserID(c))
		if err != nil {
			respondInternalError(c, err)
			return
		}
		if !live {
			respondNotFound(c, "user")
			return
		}
		c.Next()
	}
}
