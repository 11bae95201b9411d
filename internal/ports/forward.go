package ports

import "context"

// Метаданные сессии, пробрасываются во внешний сервис вместе с результатом.
type SessionInfo struct {
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Channel   string `json:"channel,omitempty"`
}

// Результат одного исходящего запроса.
type ForwardResult struct {
	Success      bool           `json:"success"`
	StatusCode   int            `json:"status_code,omitempty"`
	ResponseData map[string]any `json:"response_data,omitempty"`
	URL          string         `json:"url"`
	Method       string         `json:"method"`
	Error        string         `json:"error,omitempty"`
	Index        int            `json:"index"`
}

// HTTP-клиент до внешних вебхуков.
type ForwardClient interface {
	Send(ctx context.Context, url string, payload map[string]any, headers map[string]string) ForwardResult
	SendBatch(ctx context.Context, url string, payloads []map[string]any, headers map[string]string, limit int) []ForwardResult
}

// Ответ комбинированных эндпоинтов "сконвертируй и отправь".
type ForwardEnvelope struct {
	Transcription *TranscriptionResult `json:"transcription,omitempty"`
	TextToVoice   *SynthesisResult     `json:"text_to_voice,omitempty"`
	TextInput     *TextInputResult     `json:"text_input,omitempty"`
	ForwardResult ForwardResult        `json:"forward_result"`
	Success       bool                 `json:"success"`
}

type BatchForwardEnvelope struct {
	TranscriptionResults *BatchTranscription `json:"transcription_results,omitempty"`
	TextToVoiceResults   *BatchSynthesis     `json:"text_to_voice_results,omitempty"`
	ForwardResults       []ForwardResult     `json:"forward_results"`
	TotalItems           int                 `json:"total_items"`
	SuccessfulForwards   int                 `json:"successful_forwards"`
	Success              bool                `json:"success"`
}

// Итог голос-в-голос: распознали, сходили во внешний сервис, синтезировали ответ.
type VoiceToVoiceResult struct {
	Audio        []byte
	OriginalText string
	ResponseText string
	Engine       string
}

type ForwardTranscriptionRequest struct {
	Target          string // имя таргета из конфига, пустое — дефолтный
	TargetURL       string // явный URL, приоритетнее имени
	Language        string
	Source          string
	IncludeMetadata bool
	CustomHeaders   string
	Session         SessionInfo
	ConcurrentLimit int
}

type ForwardSynthesisRequest struct {
	Target           string
	TargetURL        string
	Options          SynthesisOptions
	IncludeAudioData bool
	IncludeMetadata  bool
	CustomHeaders    string
	Session          SessionInfo
	ConcurrentLimit  int
}

type VoiceToVoiceRequest struct {
	Target        string
	TargetURL     string
	Language      string // язык распознавания
	VoiceLanguage string // язык синтеза ответа
	Slow          bool
	Session       SessionInfo
}

// Оркестрация convert-then-forward.
type ForwardService interface {
	ForwardVoiceToText(ctx context.Context, file Upload, req ForwardTranscriptionRequest) (ForwardEnvelope, error)
	ForwardVoiceToTextBatch(ctx context.Context, files []Upload, req ForwardTranscriptionRequest) (BatchForwardEnvelope, error)
	ForwardTranscription(ctx context.Context, text string, req ForwardTranscriptionRequest) (ForwardEnvelope, error)
	ForwardTextInput(ctx context.Context, text, timestamp string, req ForwardTranscriptionRequest) (ForwardEnvelope, error)
	ForwardSynthesis(ctx context.Context, text string, req ForwardSynthesisRequest) (ForwardEnvelope, error)
	ForwardSynthesisBatch(ctx context.Context, texts []string, req ForwardSynthesisRequest) (BatchForwardEnvelope, error)
	VoiceToVoice(ctx context.Context, file Upload, req VoiceToVoiceRequest) (VoiceToVoiceResult, error)
	Targets() []string
}
