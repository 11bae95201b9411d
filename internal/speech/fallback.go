package speech

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

// FallbackSTT перебирает движки по приоритету: упал первый — пробуем следующий.
type FallbackSTT struct {
	engines []ports.STTClient
}

func NewFallbackSTT(engines ...ports.STTClient) (*FallbackSTT, error) {
	if len(engines) == 0 {
		return nil, fmt.Errorf("at least one stt engine required")
	}
	return &FallbackSTT{engines: engines}, nil
}

func (f *FallbackSTT) Transcribe(ctx context.Context, filePath, language string) (string, string, error) {
	var errs []error
	for _, e := range f.engines {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		text, err := e.Transcribe(ctx, filePath, language)
		if err == nil {
			return text, e.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
	}
	return "", "", fmt.Errorf("all stt engines failed: %w", errors.Join(errs...))
}

// FallbackTTS — то же самое для синтеза.
type FallbackTTS struct {
	engines []ports.TTSClient
}

func NewFallbackTTS(engines ...ports.TTSClient) (*FallbackTTS, error) {
	if len(engines) == 0 {
		return nil, fmt.Errorf("at least one tts engine required")
	}
	return &FallbackTTS{engines: engines}, nil
}

func (f *FallbackTTS) Synthesize(ctx context.Context, text string, opts ports.SynthesisOptions) ([]byte, string, error) {
	var errs []error
	for _, e := range f.engines {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		data, err := e.Synthesize(ctx, text, opts)
		if err == nil {
			return data, e.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
	}
	return nil, "", fmt.Errorf("all tts engines failed: %w", errors.Join(errs...))
}
