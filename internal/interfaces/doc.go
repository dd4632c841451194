// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - UserStore: User lifecycle with soft delete and purge (internal/services/interfaces.go)
//   - SettingsStore: Per-user learning settings and onboarding (internal/services/interfaces.go)
//   - ProgressStore: Exercise attempt log and aggregations (internal/services/interfaces.go)
//   - LibrarySource: The content library currently in use (internal/services/interfaces.go)
//   - Pinger: Database health (internal/http/health.go)
//
// ## Audit Interfaces
//
//   - Auditor: Records user, settings and progress events (internal/services/interfaces.go)
//   - EventReader: Lists a user's audit events (internal/http/me.go)
//   - AuditEventCleaner: Retention cleanup (internal/tasks/cleanup_audit.go)
//
// ## Background Work Interfaces
//
//   - PurgeScheduler: Defers the purge of a deleted user (internal/services/interfaces.go)
//   - UserPurger: Permanently removes users (internal/tasks/purge_user.go)
//   - Enqueuer: Adds maintenance tasks to the queue (internal/scheduler/maintenance.go)
//   - TaskStatusReader, JobRunner: Task endpoints (internal/http/tasks.go)
//
// # Adding a New Exercise Type
//
//  1. Add the type constant in internal/content/types.go and teach
//     ExerciseType.Valid about it.
//
//  2. Extend Exercise.Grade (internal/content/grade.go) if answers of the new type are compared
//     differently.
//
//  3. Add a sample to internal/content/testdata and a grading test.
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/streaks/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Register the entity in database.Models so it is migrated
//
//  4. Add compile-time check:
//
//     var _ services.StreakStore = (*streaks.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
