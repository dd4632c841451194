// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), pooling, migrations
//	├── users/           # User lifecycle (create, soft delete, purge)
//	├── settings/        # Per-user settings, language conflicts, onboarding
//	├── progress/        # Exercise attempt log and derived progress
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.Open(cfg.Database)
//
//	// Create domain-specific repositories
//	usersRepo := users.NewRepository(db.DB)
//	settingsRepo := settings.NewRepository(db.DB)
//	progressRepo := progress.NewRepository(db.DB)
//
// # Interface Implementations
//
// Each sub-package implements the store interface its service needs:
//
//   - users.Repository: services.UserStore and tasks.UserPurger
//   - settings.Repository: services.SettingsStore
//   - progress.Repository: services.ProgressStore
//   - audit.Repository: backs audit.Service
//
// Compile-time checks live in internal/interfaces.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in Models so it is migrated
//  5. Add compile-time interface check in internal/interfaces
package database
