package models

import "time"

type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARNING"
	LogLevelError   LogLevel = "ERROR"
)

// SystemLog is an audit row written when a notable action happens, such as
// a registration, a match decision or an hour verification.
type SystemLog struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Level     LogLevel  `gorm:"type:varchar(20);not null" json:"level"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Source    string    `gorm:"type:varchar(100)" json:"source"`
	UserID    *uint64   `gorm:"index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
