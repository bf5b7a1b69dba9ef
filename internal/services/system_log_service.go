package services

import (
	"go.uber.org/zap"

	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
)

// SystemLogService appends audit rows for notable actions. Recording is
// best effort: a failed insert is logged and swallowed so the action that
// triggered it still succeeds.
type SystemLogService struct {
	logRepo repository.SystemLogRepository
	log     *zap.Logger
}

// NewSystemLogService creates a new SystemLogService
func NewSystemLogService(logRepo repository.SystemLogRepository, log *zap.Logger) *SystemLogService {
	return &SystemLogService{
		logRepo: logRepo,
		log:     log,
	}
}

// Record appends one audit row.
func (s *SystemLogService) Record(level models.LogLevel, source, message string, userID *uint64) {
	entry := &models.SystemLog{
		Level:   level,
		Message: message,
		Source:  source,
		UserID:  userID,
	}

	if err := s.logRepo.Create(entry); err != nil {
		s.log.Error("failed to write audit log",
			zap.String("source", source),
			zap.String("message", message),
			zap.Error(err),
		)
	}
}

// Info records an informational audit row attributed to a user.
func (s *SystemLogService) Info(source, message string, userID uint64) {
	s.Record(models.LogLevelInfo, source, message, &userID)
}

// Warning records a warning audit row without a user attribution.
func (s *SystemLogService) Warning(source, message string) {
	s.Record(models.LogLevelWarning, source, message, nil)
}
