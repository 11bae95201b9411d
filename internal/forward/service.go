package forward

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vovarama1992/channel_adapter/internal/config"
	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

// дефолтный потолок конкурентности для батч-форвардинга на уровне API
const defaultConcurrentLimit = 3

// Service связывает конвертацию с форвардингом: сначала движок, потом вебхук.
// Ошибка таргета не роняет эндпоинт — она возвращается внутри конверта.
type Service struct {
	speech  ports.SpeechService
	client  ports.ForwardClient
	targets *config.Targets
	history ports.HistoryService
	notify  ports.Notificator
}

func NewService(
	speech ports.SpeechService,
	client ports.ForwardClient,
	targets *config.Targets,
	history ports.HistoryService,
	notify ports.Notificator,
) *Service {
	return &Service{
		speech:  speech,
		client:  client,
		targets: targets,
		history: history,
		notify:  notify,
	}
}

func (s *Service) ForwardVoiceToText(ctx context.Context, file ports.Upload, req ports.ForwardTranscriptionRequest) (ports.ForwardEnvelope, error) {
	result, err := s.speech.Transcribe(ctx, file, req.Language, req.Session)
	if err != nil {
		return ports.ForwardEnvelope{}, err
	}

	url, headers, err := s.resolve(req.Target, req.TargetURL, req.CustomHeaders)
	if err != nil {
		return ports.ForwardEnvelope{}, fmt.Errorf("%w: %v", ports.ErrBadInput, err)
	}

	fwd := s.send(ctx, url, transcriptionPayload(result, req.Session, req.IncludeMetadata), headers, "voice-to-text forwarding")

	return ports.ForwardEnvelope{
		Transcription: &result,
		ForwardResult: fwd,
		Success:       fwd.Success,
	}, nil
}

func (s *Service) ForwardVoiceToTextBatch(ctx context.Context, files []ports.Upload, req ports.ForwardTranscriptionRequest) (ports.BatchForwardEnvelope, error) {
	batch, err := s.speech.TranscribeBatch(ctx, files, req.Language, req.Session)
	if err != nil {
		return ports.BatchForwardEnvelope{}, err
	}

	url, headers, err := s.resolve(req.Target, req.TargetURL, req.CustomHeaders)
	if err != nil {
		return ports.BatchForwardEnvelope{}, fmt.Errorf("%w: %v", ports.ErrBadInput, err)
	}

	var payloads []map[string]any
	for _, result := range batch.Results {
		if result.Success {
			payloads = append(payloads, transcriptionPayload(result, req.Session, req.IncludeMetadata))
		}
	}

	forwardResults := s.sendBatch(ctx, url, payloads, headers, req.ConcurrentLimit, "batch voice-to-text forwarding")

	envelope := ports.BatchForwardEnvelope{
		TranscriptionResults: &batch,
		ForwardResults:       forwardResults,
		TotalItems:           len(batch.Results),
		SuccessfulForwards:   countSuccessful(forwardResults),
		Success:              len(forwardResults) > 0,
	}
	return envelope, nil
}

func (s *Service) ForwardTranscription(ctx context.Context, text string, req ports.ForwardTranscriptionRequest) (ports.ForwardEnvelope, error) {
	if strings.TrimSpace(text) == "" {
		return ports.ForwardEnvelope{}, fmt.Errorf("%w: no transcription text provided", ports.ErrBadInput)
	}

	language := req.Language
	if language == "" {
		language = ports.DefaultSTTLang
	}
	source := req.Source
	if source == "" {
		source = "manual"
	}

	result := ports.TranscriptionResult{
		Success:  true,
		Text:     text,
		Language: language,
		Source:   source,
		Type:     "transcription",
	}

	url, headers, err := s.resolve(req.Target, req.TargetURL, req.CustomHeaders)
	if err != nil {
		return ports.ForwardEnvelope{}, fmt.Errorf("%w: %v", ports.ErrBadInput, err)
	}

	fwd := s.send(ctx, url, transcriptionPayload(result, req.Session, true), headers, "transcription forwarding")

	return ports.ForwardEnvelope{
		Transcription: &result,
		ForwardResult: fwd,
		Success:       fwd.Success,
	}, nil
}

func (s *Service) ForwardTextInput(ctx context.Context, text, timestamp string, req ports.ForwardTranscriptionRequest) (ports.ForwardEnvelope, error) {
	if strings.TrimSpace(text) == "" {
		return ports.ForwardEnvelope{}, fmt.Errorf("%w: no text provided", ports.ErrBadInput)
	}

	source := req.Source
	if source == "" {
		source = "ui"
	}

	result := ports.NewTextInputResult(text, source, timestamp)

	url, headers, err := s.resolve(req.Target, req.TargetURL, req.CustomHeaders)
	if err != nil {
		return ports.ForwardEnvelope{}, fmt.Errorf("%w: %v", ports.ErrBadInput, err)
	}

	fwd := s.send(ctx, url, textInputPayload(text, result, req.Session, req.IncludeMetadata), headers, "text input forwarding")

	s.recordText(ctx, text, source, req.Session)

	return ports.ForwardEnvelope{
		TextInput:     &result,
		ForwardResult: fwd,
		Success:       fwd.Success,
	}, nil
}

func (s *Service) ForwardSynthesis(ctx context.Context, text string, req ports.ForwardSynthesisRequest) (ports.ForwardEnvelope, error) {
	result, audio, err := s.speech.Synthesize(ctx, text, req.Options, req.Session)
	if err != nil {
		return ports.ForwardEnvelope{}, err
	}

	url, headers, err := s.resolve(req.Target, req.TargetURL, req.CustomHeaders)
	if err != nil {
		return ports.ForwardEnvelope{}, fmt.Errorf("%w: %v", ports.ErrBadInput, err)
	}

	if !req.IncludeAudioData {
		audio = nil
	}

	fwd := s.send(ctx, url, synthesisPayload(result, audio, req.IncludeMetadata), headers, "text-to-voice forwarding")

	return ports.ForwardEnvelope{
		TextToVoice:   &result,
		ForwardResult: fwd,
		Success:       fwd.Success,
	}, nil
}

func (s *Service) ForwardSynthesisBatch(ctx context.Context, texts []string, req ports.ForwardSynthesisRequest) (ports.BatchForwardEnvelope, error) {
	batch, err := s.speech.SynthesizeBatch(ctx, texts, req.Options, req.Session)
	if err != nil {
		return ports.BatchForwardEnvelope{}, err
	}

	url, headers, err := s.resolve(req.Target, req.TargetURL, req.CustomHeaders)
	if err != nil {
		return ports.BatchForwardEnvelope{}, fmt.Errorf("%w: %v", ports.ErrBadInput, err)
	}

	var payloads []map[string]any
	for _, result := range batch.Results {
		if result.Success {
			// аудио в батче не прикладываем: base64 десяти треков раздует payload
			payloads = append(payloads, synthesisPayload(result, nil, req.IncludeMetadata))
		}
	}

	forwardResults := s.sendBatch(ctx, url, payloads, headers, req.ConcurrentLimit, "batch text-to-voice forwarding")

	envelope := ports.BatchForwardEnvelope{
		TextToVoiceResults: &batch,
		ForwardResults:     forwardResults,
		TotalItems:         len(batch.Results),
		SuccessfulForwards: countSuccessful(forwardResults),
		Success:            len(forwardResults) > 0,
	}
	return envelope, nil
}

// VoiceToVoice: распознаём файл, шлём текст во внешний сервис,
// из ответа достаём реплику и синтезируем её обратно в голос.
func (s *Service) VoiceToVoice(ctx context.Context, file ports.Upload, req ports.VoiceToVoiceRequest) (ports.VoiceToVoiceResult, error) {
	transcription, err := s.speech.Transcribe(ctx, file, req.Language, req.Session)
	if err != nil {
		return ports.VoiceToVoiceResult{}, err
	}

	url, headers, err := s.resolve(req.Target, req.TargetURL, "")
	if err != nil {
		return ports.VoiceToVoiceResult{}, fmt.Errorf("%w: %v", ports.ErrBadInput, err)
	}

	fwd := s.send(ctx, url, transcriptionPayload(transcription, req.Session, true), headers, "voice-to-voice forwarding")
	if !fwd.Success {
		return ports.VoiceToVoiceResult{}, fmt.Errorf("forward transcription: %s", fwd.Error)
	}

	replyText, ok := ExtractReplyText(fwd.ResponseData)
	if !ok {
		return ports.VoiceToVoiceResult{}, fmt.Errorf("no text field found in external response")
	}

	opts := ports.SynthesisOptions{Language: req.VoiceLanguage, Slow: req.Slow}
	_, audio, err := s.speech.Synthesize(ctx, replyText, opts, req.Session)
	if err != nil {
		return ports.VoiceToVoiceResult{}, err
	}

	return ports.VoiceToVoiceResult{
		Audio:        audio,
		OriginalText: transcription.Text,
		ResponseText: replyText,
		Engine:       transcription.Engine,
	}, nil
}

func (s *Service) Targets() []string {
	return s.targets.Names()
}

func (s *Service) resolve(name, explicitURL, customHeaders string) (string, map[string]string, error) {
	url, headers, err := s.targets.Resolve(name, explicitURL)
	if err != nil {
		return "", nil, err
	}

	custom := ParseHeaders(customHeaders)
	if len(custom) > 0 {
		merged := make(map[string]string, len(headers)+len(custom))
		for k, v := range headers {
			merged[k] = v
		}
		for k, v := range custom {
			merged[k] = v
		}
		headers = merged
	}

	return url, headers, nil
}

func (s *Service) send(ctx context.Context, url string, payload map[string]any, headers map[string]string, operation string) ports.ForwardResult {
	result := s.client.Send(ctx, url, payload, headers)
	if !result.Success && s.notify != nil {
		_ = s.notify.Notify(ctx, operation, fmt.Errorf("%s", result.Error), "target: "+url)
	}
	return result
}

func (s *Service) sendBatch(ctx context.Context, url string, payloads []map[string]any, headers map[string]string, limit int, operation string) []ports.ForwardResult {
	if len(payloads) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = defaultConcurrentLimit
	}

	results := s.client.SendBatch(ctx, url, payloads, headers, limit)

	if failed := len(results) - countSuccessful(results); failed > 0 && s.notify != nil {
		_ = s.notify.Notify(ctx, operation,
			fmt.Errorf("%d of %d forwards failed", failed, len(results)),
			"target: "+url)
	}

	return results
}

func (s *Service) recordText(ctx context.Context, text, source string, session ports.SessionInfo) {
	if s.history == nil {
		return
	}
	conv := ports.Conversion{
		Kind:      "text",
		Engine:    source, // для текстового ввода в колонке engine живёт источник
		Text:      &text,
		CreatedAt: time.Now(),
	}
	if session.SessionID != "" {
		conv.SessionID = &session.SessionID
	}
	if session.UserID != "" {
		conv.UserID = &session.UserID
	}
	if session.Channel != "" {
		conv.Channel = &session.Channel
	}
	s.history.Record(ctx, conv)
}

func countSuccessful(results []ports.ForwardResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
