package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

type stubSTT struct {
	name string
	text string
	err  error
}

func (s *stubSTT) Name() string { return s.name }

func (s *stubSTT) Transcribe(_ context.Context, _, _ string) (string, error) {
	return s.text, s.err
}

type stubTTS struct {
	name string
	data []byte
	err  error
}

func (s *stubTTS) Name() string { return s.name }

func (s *stubTTS) Synthesize(_ context.Context, _ string, _ ports.SynthesisOptions) ([]byte, error) {
	return s.data, s.err
}

func TestFallbackSTT_UsesNextEngineOnFailure(t *testing.T) {
	primary := &stubSTT{name: "deepgram", err: errors.New("quota exceeded")}
	backup := &stubSTT{name: "whisper", text: "recovered"}

	fb, err := NewFallbackSTT(primary, backup)
	require.NoError(t, err)

	text, engine, err := fb.Transcribe(context.Background(), "/tmp/a.wav", "en")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, "whisper", engine)
}

func TestFallbackSTT_AllEnginesFail(t *testing.T) {
	fb, err := NewFallbackSTT(
		&stubSTT{name: "deepgram", err: errors.New("down")},
		&stubSTT{name: "whisper", err: errors.New("also down")},
	)
	require.NoError(t, err)

	_, _, err = fb.Transcribe(context.Background(), "/tmp/a.wav", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deepgram")
	assert.Contains(t, err.Error(), "whisper")
}

func TestFallbackSTT_RequiresEngine(t *testing.T) {
	_, err := NewFallbackSTT()
	assert.Error(t, err)
}

func TestFallbackTTS_PrefersFirstEngine(t *testing.T) {
	fb, err := NewFallbackTTS(
		&stubTTS{name: "openai-tts", data: []byte("primary")},
		&stubTTS{name: "edge-tts", data: []byte("backup")},
	)
	require.NoError(t, err)

	data, engine, err := fb.Synthesize(context.Background(), "hi", ports.SynthesisOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("primary"), data)
	assert.Equal(t, "openai-tts", engine)
}

func TestFallbackTTS_ContextCancellation(t *testing.T) {
	fb, err := NewFallbackTTS(&stubTTS{name: "edge-tts", data: []byte("x")})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = fb.Synthesize(ctx, "hi", ports.SynthesisOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
