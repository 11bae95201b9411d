package domain

import (
	"context"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

type historyService struct {
	repo ports.ConversionRepo
	log  *logger.ZapLogger
}

func NewHistoryService(repo ports.ConversionRepo, log *logger.ZapLogger) ports.HistoryService {
	return &historyService{repo: repo, log: log}
}

// Record пишет запись best-effort: история не должна ломать конвертацию.
func (s *historyService) Record(ctx context.Context, c ports.Conversion) {
	if _, err := s.repo.Create(ctx, c); err != nil && s.log != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "failed to record conversion",
			Service: ports.ServiceName,
			Error:   err,
		})
	}
}

func (s *historyService) ListBySession(ctx context.Context, sessionID string) ([]ports.Conversion, error) {
	return s.repo.ListBySession(ctx, sessionID)
}

func (s *historyService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func (s *historyService) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, age)
}
