package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/lingo/internal/audit"
	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/database"
	"github.com/mrlokans/lingo/internal/database/progress"
	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/database/users"
	"github.com/mrlokans/lingo/internal/http"
	"github.com/mrlokans/lingo/internal/scheduler"
	"github.com/mrlokans/lingo/internal/services"
	"github.com/mrlokans/lingo/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.UserStore = (*users.Repository)(nil)
var _ services.SettingsStore = (*settings.Repository)(nil)
var _ services.ProgressStore = (*progress.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Content
// =============================================================================

var _ services.LibrarySource = (*content.Store)(nil)

// =============================================================================
// Auditing
// =============================================================================

var _ services.Auditor = (*audit.Service)(nil)
var _ http.EventReader = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.PurgeAuditor = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.UserPurger = (*users.Repository)(nil)
var _ services.PurgeScheduler = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.JobRunner = (*scheduler.MaintenanceScheduler)(nil)
var _ http.UserChecker = (*services.UserService)(nil)
