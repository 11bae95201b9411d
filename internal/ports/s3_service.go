package ports

import "context"

// Хранилище аудио-артефактов (синтезированные mp3).
type S3Service interface {
	SaveAudio(ctx context.Context, sessionID string, data []byte, contentType string) (publicURL string, err error)
}
