package forward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", nil},
		{"single", "X-Api-Key:secret", map[string]string{"X-Api-Key": "secret"}},
		{"multiple with spaces", "X-Api-Key: secret , X-Env: prod", map[string]string{"X-Api-Key": "secret", "X-Env": "prod"}},
		{"value with colon", "Authorization:Bearer abc:def", map[string]string{"Authorization": "Bearer abc:def"}},
		{"malformed", "no-colon-here", nil},
		{"empty key", ":value", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHeaders(tt.raw))
		})
	}
}

func TestExtractReplyText(t *testing.T) {
	// приоритет известных полей
	text, ok := ExtractReplyText(map[string]any{
		"response": "second choice",
		"text":     "first choice",
	})
	require.True(t, ok)
	assert.Equal(t, "first choice", text)

	// фолбэк на любое непустое строковое значение
	text, ok = ExtractReplyText(map[string]any{
		"status": "",
		"data":   "something useful",
	})
	require.True(t, ok)
	assert.Equal(t, "something useful", text)

	// нестроковые значения не считаются
	_, ok = ExtractReplyText(map[string]any{"code": float64(42)})
	assert.False(t, ok)

	_, ok = ExtractReplyText(map[string]any{})
	assert.False(t, ok)
}

func TestExtractReplyText_DeterministicFallback(t *testing.T) {
	// несколько кандидатов — побеждает меньший по алфавиту ключ, стабильно
	for i := 0; i < 20; i++ {
		text, ok := ExtractReplyText(map[string]any{
			"zulu":  "from zulu",
			"alpha": "from alpha",
			"mike":  "from mike",
		})
		require.True(t, ok)
		assert.Equal(t, "from alpha", text)
	}

	// числовое известное поле пропускается в пользу строкового фолбэка
	text, ok := ExtractReplyText(map[string]any{
		"text": float64(7),
		"note": "string wins",
	})
	require.True(t, ok)
	assert.Equal(t, "string wins", text)
}

func TestTranscriptionPayload(t *testing.T) {
	result := ports.TranscriptionResult{
		Success:  true,
		Filename: "clip.ogg",
		Text:     "hello",
		Language: "en-US",
		Engine:   "deepgram",
	}
	session := ports.SessionInfo{SessionID: "s1", UserID: "u1"}

	payload := transcriptionPayload(result, session, true)

	assert.Equal(t, "hello", payload["text"])
	assert.Equal(t, "s1", payload["session_id"])
	assert.Equal(t, "u1", payload["user_id"])
	assert.Nil(t, payload["channel"])

	meta, ok := payload["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ports.ServiceName, meta["service"])
	assert.Equal(t, "deepgram", meta["conversion_engine"])
	assert.Equal(t, "ogg", meta["audio_format"])
	assert.Equal(t, "en-US", meta["language"])

	// без метаданных
	payload = transcriptionPayload(result, session, false)
	_, ok = payload["metadata"]
	assert.False(t, ok)
}

func TestSynthesisPayload(t *testing.T) {
	result := ports.SynthesisResult{
		Success:       true,
		Engine:        "openai-tts",
		Language:      "en",
		OutputFormat:  "mp3",
		TextLength:    5,
		FileSizeBytes: 3,
	}

	payload := synthesisPayload(result, []byte("abc"), true)

	audioData, ok := payload["audio_data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "YWJj", audioData["data"]) // base64("abc")
	assert.Equal(t, "mp3", audioData["format"])
	assert.Equal(t, "base64", audioData["encoding"])

	meta := payload["metadata"].(map[string]any)
	assert.Equal(t, "text-to-voice", meta["processing_type"])
	assert.Equal(t, "openai-tts", meta["tts_engine"])

	// без аудио
	payload = synthesisPayload(result, nil, true)
	_, ok = payload["audio_data"]
	assert.False(t, ok)
}

func TestAudioFormat(t *testing.T) {
	assert.Equal(t, "wav", audioFormat("voice.WAV"))
	assert.Equal(t, "mp3", audioFormat("a.b.mp3"))
	assert.Equal(t, "unknown", audioFormat("noext"))
	assert.Equal(t, "unknown", audioFormat(""))
}
