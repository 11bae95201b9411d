package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

type ElevenLabsClient struct {
	apiKey       string
	defaultVoice string
	client       *http.Client
}

func NewElevenLabsClient() (*ElevenLabsClient, error) {
	key := os.Getenv("ELEVENLABS_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY not set")
	}

	voice := os.Getenv("ELEVENLABS_VOICE_ID")
	if voice == "" {
		voice = "21m00Tcm4TlvDq8ikWAM" // Rachel
	}

	return &ElevenLabsClient{
		apiKey:       key,
		defaultVoice: voice,
		client:       &http.Client{},
	}, nil
}

func (c *ElevenLabsClient) Name() string { return "elevenlabs" }

// TEXT → SPEECH
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string, opts ports.SynthesisOptions) ([]byte, error) {
	voiceID := opts.Voice
	if voiceID == "" {
		voiceID = c.defaultVoice
	}

	url := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s", voiceID)

	payload := []byte(fmt.Sprintf(`{"text": %q}`, text))

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed: %s", string(b))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio")
	}

	return data, nil
}
