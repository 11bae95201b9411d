package domain

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
	"github.com/google/uuid"
)

type s3Service struct {
	client ports.S3Client
}

func NewS3Service(client ports.S3Client) ports.S3Service {
	return &s3Service{client: client}
}

// ObjectKey — путь в бакете: <сессия|anon>/<дата>/<uuid>.mp3
func (s *s3Service) ObjectKey(sessionID string) string {
	if sessionID == "" {
		sessionID = "anon"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s/%s/%s.mp3", sessionID, date, uuid.NewString())
}

func (s *s3Service) SaveAudio(ctx context.Context, sessionID string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty audio")
	}

	key := s.ObjectKey(sessionID)
	return s.client.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
}
