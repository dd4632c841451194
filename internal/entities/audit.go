package entities

import "time"

type AuditEventType string

const (
	AuditEventUser     AuditEventType = "user"
	AuditEventSettings AuditEventType = "settings"
	AuditEventProgress AuditEventType = "progress"
	AuditEventContent  AuditEventType = "content"
)

// Valid reports whether t is a known event type.
func (t AuditEventType) Valid() bool {
	switch t {
	case AuditEventUser, AuditEventSettings, AuditEventProgress, AuditEventContent:
		return true
	}
	return false
}

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"index;size:36" json:"user_id,omitempty"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`              // e.g., "user_create", "progress_reset"
	Description string         `gorm:"size:500" json:"description"`         // Human-readable summary
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
