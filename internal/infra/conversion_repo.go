package infra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

type conversionRepo struct {
	db *sql.DB
}

func NewConversionRepo(db *sql.DB) ports.ConversionRepo {
	return &conversionRepo{db: db}
}

func (r *conversionRepo) Create(ctx context.Context, c ports.Conversion) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO conversions (session_id, user_id, channel, kind, engine, language, text_content, audio_url, duration_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, c.SessionID, c.UserID, c.Channel, c.Kind, c.Engine, c.Language, c.Text, c.AudioURL, c.DurationSeconds, time.Now()).Scan(&id)
	return id, err
}

func (r *conversionRepo) ListBySession(ctx context.Context, sessionID string) ([]ports.Conversion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, user_id, channel, kind, engine, language, text_content, audio_url, duration_seconds, created_at
		FROM conversions
		WHERE session_id = $1
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []ports.Conversion
	for rows.Next() {
		var c ports.Conversion
		if err := rows.Scan(
			&c.ID,
			&c.SessionID,
			&c.UserID,
			&c.Channel,
			&c.Kind,
			&c.Engine,
			&c.Language,
			&c.Text,
			&c.AudioURL,
			&c.DurationSeconds,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return conversions, nil
}

func (r *conversionRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversions`)
	return err
}

func (r *conversionRepo) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM conversions
		WHERE created_at < $1
	`, time.Now().Add(-age))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
