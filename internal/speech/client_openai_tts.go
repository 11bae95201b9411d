package speech

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAITTSClient struct {
	client *openai.Client
}

func NewOpenAITTSClient() (*OpenAITTSClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	return &OpenAITTSClient{
		client: openai.NewClient(apiKey),
	}, nil
}

func (c *OpenAITTSClient) Name() string { return "openai-tts" }

func (c *OpenAITTSClient) Synthesize(ctx context.Context, text string, opts ports.SynthesisOptions) ([]byte, error) {
	voice := openai.VoiceAlloy
	if opts.Voice != "" {
		voice = openai.SpeechVoice(opts.Voice)
	}

	speed := 1.0
	if opts.Slow {
		speed = 0.75
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai tts request: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read openai tts response: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio")
	}

	return data, nil
}
