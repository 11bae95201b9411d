package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
	"github.com/google/uuid"
)

// Единый сервис (и для стт и для ттс): валидация входа, движки с фолбэком,
// выгрузка артефактов в S3 и best-effort запись истории.
type Service struct {
	stt     ports.STT
	tts     ports.TTS
	catalog ports.VoiceCatalog
	store   ports.S3Service
	history ports.HistoryService
	notify  ports.Notificator
}

func NewService(
	stt ports.STT,
	tts ports.TTS,
	catalog ports.VoiceCatalog,
	store ports.S3Service,
	history ports.HistoryService,
	notify ports.Notificator,
) *Service {
	return &Service{
		stt:     stt,
		tts:     tts,
		catalog: catalog,
		store:   store,
		history: history,
		notify:  notify,
	}
}

func (s *Service) Transcribe(ctx context.Context, file ports.Upload, language string, session ports.SessionInfo) (ports.TranscriptionResult, error) {
	if language == "" {
		language = ports.DefaultSTTLang
	}

	if file.Filename == "" {
		return ports.TranscriptionResult{}, fmt.Errorf("%w: no file provided", ports.ErrBadInput)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !ports.SupportedAudioFormats[ext] {
		return ports.TranscriptionResult{}, fmt.Errorf("%w: unsupported file format %q", ports.ErrBadInput, ext)
	}

	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return ports.TranscriptionResult{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file.Reader); err != nil {
		tmp.Close()
		return ports.TranscriptionResult{}, fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return ports.TranscriptionResult{}, fmt.Errorf("spool upload: %w", err)
	}

	text, engine, err := s.stt.Transcribe(ctx, tmp.Name(), language)
	if err != nil {
		if s.notify != nil {
			_ = s.notify.Notify(ctx, "voice-to-text", err, "file: "+file.Filename)
		}
		return ports.TranscriptionResult{}, fmt.Errorf("%w: %v", ports.ErrEngine, err)
	}

	result := ports.TranscriptionResult{
		Success:  true,
		Filename: file.Filename,
		Text:     text,
		Language: language,
		Engine:   engine,
		Type:     "voice_to_text",
	}

	s.record(ctx, ports.Conversion{
		Kind:     "stt",
		Engine:   engine,
		Language: language,
		Text:     &text,
	}, session)

	return result, nil
}

func (s *Service) TranscribeBatch(ctx context.Context, files []ports.Upload, language string, session ports.SessionInfo) (ports.BatchTranscription, error) {
	if len(files) == 0 {
		return ports.BatchTranscription{}, fmt.Errorf("%w: no files provided", ports.ErrBadInput)
	}
	if len(files) > ports.MaxBatchItems {
		return ports.BatchTranscription{}, fmt.Errorf("%w: maximum %d files allowed per batch", ports.ErrBadInput, ports.MaxBatchItems)
	}

	batch := ports.BatchTranscription{Type: "voice_to_text_batch"}
	for i, file := range files {
		result, err := s.Transcribe(ctx, file, language, session)
		if err != nil {
			result = ports.TranscriptionResult{
				Filename: file.Filename,
				Language: language,
				Error:    err.Error(),
				Type:     "voice_to_text",
			}
		}
		result.Index = i
		batch.Results = append(batch.Results, result)
	}

	return batch, nil
}

func (s *Service) Synthesize(ctx context.Context, text string, opts ports.SynthesisOptions, session ports.SessionInfo) (ports.SynthesisResult, []byte, error) {
	if opts.Language == "" {
		opts.Language = ports.DefaultTTSLang
	}

	if strings.TrimSpace(text) == "" {
		return ports.SynthesisResult{}, nil, fmt.Errorf("%w: no text provided", ports.ErrBadInput)
	}
	if len(text) > ports.MaxTextLength {
		return ports.SynthesisResult{}, nil, fmt.Errorf("%w: text too long, maximum %d characters allowed", ports.ErrBadInput, ports.MaxTextLength)
	}

	data, engine, err := s.tts.Synthesize(ctx, text, opts)
	if err != nil {
		if s.notify != nil {
			_ = s.notify.Notify(ctx, "text-to-voice", err, fmt.Sprintf("text length: %d", len(text)))
		}
		return ports.SynthesisResult{}, nil, fmt.Errorf("%w: %v", ports.ErrEngine, err)
	}

	result := ports.SynthesisResult{
		Success:       true,
		Text:          truncate(text, 100),
		TextLength:    len(text),
		Language:      opts.Language,
		Voice:         opts.Voice,
		Slow:          opts.Slow,
		Engine:        engine,
		OutputFormat:  ports.OutputFormat,
		Filename:      fmt.Sprintf("speech_%s.mp3", uuid.NewString()[:8]),
		FileSizeBytes: len(data),
	}

	if duration, err := MP3Duration(data); err == nil {
		result.DurationSeconds = duration
	}

	// выгрузка в S3 best-effort: без бакета эндпоинт всё равно работает
	if s.store != nil {
		if url, err := s.store.SaveAudio(ctx, session.SessionID, data, "audio/mpeg"); err == nil {
			result.AudioURL = url
		} else if s.notify != nil {
			_ = s.notify.Notify(ctx, "audio-upload", err, result.Filename)
		}
	}

	conv := ports.Conversion{
		Kind:            "tts",
		Engine:          engine,
		Language:        opts.Language,
		Text:            &text,
		DurationSeconds: result.DurationSeconds,
	}
	if result.AudioURL != "" {
		conv.AudioURL = &result.AudioURL
	}
	s.record(ctx, conv, session)

	return result, data, nil
}

func (s *Service) SynthesizeInfo(ctx context.Context, text string, opts ports.SynthesisOptions, session ports.SessionInfo) (ports.SynthesisResult, error) {
	result, _, err := s.Synthesize(ctx, text, opts, session)
	return result, err
}

func (s *Service) SynthesizeBatch(ctx context.Context, texts []string, opts ports.SynthesisOptions, session ports.SessionInfo) (ports.BatchSynthesis, error) {
	if len(texts) == 0 {
		return ports.BatchSynthesis{}, fmt.Errorf("%w: no texts provided", ports.ErrBadInput)
	}
	if len(texts) > ports.MaxBatchItems {
		return ports.BatchSynthesis{}, fmt.Errorf("%w: maximum %d texts allowed per batch", ports.ErrBadInput, ports.MaxBatchItems)
	}

	batch := ports.BatchSynthesis{
		TotalTexts: len(texts),
		Type:       "text_to_voice_batch",
	}

	for i, text := range texts {
		result, err := s.SynthesizeInfo(ctx, text, opts, session)
		if err != nil {
			result = ports.SynthesisResult{
				Text:       truncate(text, 100),
				TextLength: len(text),
				Language:   opts.Language,
				Error:      err.Error(),
			}
			batch.FailedConversions++
		} else {
			batch.SuccessfulConversions++
		}
		result.Index = i
		batch.Results = append(batch.Results, result)
	}

	return batch, nil
}

func (s *Service) Voices() ports.VoiceCatalog {
	return s.catalog
}

func (s *Service) record(ctx context.Context, c ports.Conversion, session ports.SessionInfo) {
	if s.history == nil {
		return
	}
	if session.SessionID != "" {
		c.SessionID = &session.SessionID
	}
	if session.UserID != "" {
		c.UserID = &session.UserID
	}
	if session.Channel != "" {
		c.Channel = &session.Channel
	}
	s.history.Record(ctx, c)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
