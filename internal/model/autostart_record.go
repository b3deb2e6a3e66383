package model

import "time"

// Trigger values for AutoStartRecord.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// AutoStartRecord is one persisted auto-start cycle outcome.
type AutoStartRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Trigger      string    `json:"trigger" gorm:"size:20;index"` // scheduled | manual
	TotalStopped int       `json:"total_stopped"`
	StartedCount int       `json:"started_count"`
	FailedCount  int       `json:"failed_count"`
	Detail       string    `json:"detail" gorm:"type:text"` // JSON-encoded AutoStartResult
	Error        string    `json:"error" gorm:"type:text"`
}

// TableName sets the table name.
func (AutoStartRecord) TableName() string {
	return "autostart_records"
}
