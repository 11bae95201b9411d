package ports

import (
	"context"
	"time"
)

// DTO для истории конвертаций
type Conversion struct {
	ID              int64     `json:"id"`
	SessionID       *string   `json:"session_id,omitempty"`
	UserID          *string   `json:"user_id,omitempty"`
	Channel         *string   `json:"channel,omitempty"`
	Kind            string    `json:"kind"` // stt | tts | text
	Engine          string    `json:"engine,omitempty"`
	Language        string    `json:"language,omitempty"`
	Text            *string   `json:"text,omitempty"`
	AudioURL        *string   `json:"audio_url,omitempty"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Репозиторий Postgres
type ConversionRepo interface {
	Create(ctx context.Context, c Conversion) (int64, error)
	ListBySession(ctx context.Context, sessionID string) ([]Conversion, error)
	DeleteAll(ctx context.Context) error
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// Сервис поверх репозитория: запись истории best-effort, чтение как есть.
type HistoryService interface {
	Record(ctx context.Context, c Conversion)
	ListBySession(ctx context.Context, sessionID string) ([]Conversion, error)
	DeleteAll(ctx context.Context) error
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}
