package dto

import (
	"time"

	"github.com/versity-app/volunteer-api/internal/models"
)

// SystemLogDTO represents an audit log row in API responses
type SystemLogDTO struct {
	ID        uint64          `json:"id"`
	Level     models.LogLevel `json:"level"`
	Message   string          `json:"message"`
	Source    string          `json:"source"`
	UserID    *uint64         `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
}

// LogListResponse represents a paginated list of audit log rows
type LogListResponse struct {
	Logs       []SystemLogDTO `json:"logs"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalCount int64          `json:"total_count"`
	TotalPages int            `json:"total_pages"`
}

// ToSystemLogDTO converts a SystemLog model to SystemLogDTO
func ToSystemLogDTO(entry models.SystemLog) SystemLogDTO {
	return SystemLogDTO{
		ID:        entry.ID,
		Level:     entry.Level,
		Message:   entry.Message,
		Source:    entry.Source,
		UserID:    entry.UserID,
		CreatedAt: entry.CreatedAt,
	}
}

// ToLogListResponse converts a slice of log rows to LogListResponse
func ToLogListResponse(entries []models.SystemLog, page, pageSize int, totalCount int64) LogListResponse {
	items := make([]SystemLogDTO, len(entries))
	for i, entry := range entries {
		items[i] = ToSystemLogDTO(entry)
	}

	return LogListResponse{
		Logs:       items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
