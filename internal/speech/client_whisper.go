package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Whisper через OpenAI API — резервный STT-движок.
type WhisperClient struct {
	client *openai.Client
}

func NewWhisperClient() (*WhisperClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	return &WhisperClient{
		client: openai.NewClient(apiKey),
	}, nil
}

func (c *WhisperClient) Name() string { return "whisper" }

func (c *WhisperClient) Transcribe(ctx context.Context, filePath, language string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
		Language: shortLang(language),
	})
	if err != nil {
		return "", fmt.Errorf("whisper request: %w", err)
	}

	if strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("empty transcript")
	}

	return resp.Text, nil
}
