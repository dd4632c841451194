package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/lingo/internal/auth"
	"github.com/mrlokans/lingo/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Logger   *zap.Logger
	Database Pinger
	Library  services.LibrarySource
	Version  string

	// Services
	Users    *services.UserService
	Settings *services.SettingsService
	Progress *services.ProgressService
	Events   EventReader

	// Authentication
	Verifier        *auth.Verifier
	InternalSecret  string
	InternalLimiter *auth.RateLimiter

	// Transport
	CORSOrigins []string
	HSTS        bool

	// Task queue (optional)
	TaskClient  TaskStatusReader
	Maintenance JobRunner
}
