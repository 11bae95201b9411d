package speech

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"
)

// голос по умолчанию на язык для Edge TTS
var edgeVoices = map[string]string{
	"en": "en-US-AriaNeural",
	"ru": "ru-RU-SvetlanaNeural",
	"es": "es-ES-ElviraNeural",
	"fr": "fr-FR-DeniseNeural",
	"de": "de-DE-KatjaNeural",
	"zh": "zh-CN-XiaoxiaoNeural",
}

// Edge TTS — бесплатный резервный движок, аккаунт не нужен.
type EdgeTTSClient struct{}

func NewEdgeTTSClient() *EdgeTTSClient {
	return &EdgeTTSClient{}
}

func (c *EdgeTTSClient) Name() string { return "edge-tts" }

func (c *EdgeTTSClient) Synthesize(ctx context.Context, text string, opts ports.SynthesisOptions) ([]byte, error) {
	voice := opts.Voice
	if voice == "" {
		voice = edgeVoices[shortLang(opts.Language)]
	}
	if voice == "" {
		voice = edgeVoices["en"]
	}

	comm, err := edge.NewCommunicate(text, edge.WithVoice(voice))
	if err != nil {
		return nil, fmt.Errorf("edge-tts init: %w", err)
	}

	ch, err := comm.Stream()
	if err != nil {
		return nil, fmt.Errorf("edge-tts stream: %w", err)
	}

	var buf bytes.Buffer
	for msg := range ch {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if msgType, ok := msg["type"].(string); ok && msgType == "audio" {
			if data, ok := msg["data"].([]byte); ok {
				buf.Write(data)
			}
		}
	}

	if buf.Len() == 0 {
		return nil, fmt.Errorf("empty audio")
	}

	return buf.Bytes(), nil
}
