package infra

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioStore_RejectsNonAudio(t *testing.T) {
	store := &audioStore{bucket: "voice", host: "https://s3.example.com"}

	// guard срабатывает до обращения к minio
	_, err := store.PutObject(context.Background(), "key.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio only")
}

func TestAudioStore_PublicURL(t *testing.T) {
	store := &audioStore{bucket: "voice", host: "https://s3.example.com"}

	assert.Equal(t,
		"https://s3.example.com/voice/sess-1%2F2026-08-27%2Fa.mp3",
		store.buildPublicURL("sess-1/2026-08-27/a.mp3"),
	)
}
