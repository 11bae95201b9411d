package ports

import (
	"context"
	"io"
	"strings"
)

// Поддерживаемые входные форматы аудио (по расширению файла).
var SupportedAudioFormats = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
	".aac":  true,
}

const (
	MaxBatchItems  = 10   // максимум файлов/текстов за один батч
	MaxTextLength  = 5000 // максимум символов на синтез
	OutputFormat   = "mp3"
	DefaultSTTLang = "en-US"
	DefaultTTSLang = "en"
)

// Параметры синтеза речи.
type SynthesisOptions struct {
	Language string
	Voice    string
	Slow     bool
}

// Один движок распознавания (Deepgram, Whisper и т.д.)
type STTClient interface {
	Name() string
	Transcribe(ctx context.Context, filePath, language string) (string, error)
}

// Один движок синтеза (OpenAI TTS, Edge, ElevenLabs). Возвращает mp3.
type TTSClient interface {
	Name() string
	Synthesize(ctx context.Context, text string, opts SynthesisOptions) ([]byte, error)
}

// STT с цепочкой резервных движков: отдаёт имя движка, который отработал.
type STT interface {
	Transcribe(ctx context.Context, filePath, language string) (text, engine string, err error)
}

// TTS с цепочкой резервных движков.
type TTS interface {
	Synthesize(ctx context.Context, text string, opts SynthesisOptions) (data []byte, engine string, err error)
}

// Загруженный файл из multipart-запроса.
type Upload struct {
	Reader   io.Reader
	Filename string
}

type TranscriptionResult struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	Text     string `json:"text,omitempty"`
	Language string `json:"language"`
	Engine   string `json:"engine,omitempty"`
	Source   string `json:"source,omitempty"`
	Type     string `json:"type"`
	Error    string `json:"error,omitempty"`
	Index    int    `json:"index"`
}

type BatchTranscription struct {
	Results []TranscriptionResult `json:"results"`
	Type    string                `json:"type"`
}

type SynthesisResult struct {
	Success         bool    `json:"success"`
	Text            string  `json:"text,omitempty"` // обрезан до 100 символов
	TextLength      int     `json:"text_length"`
	Language        string  `json:"language"`
	Voice           string  `json:"voice,omitempty"`
	Slow            bool    `json:"slow"`
	Engine          string  `json:"tts_engine,omitempty"`
	OutputFormat    string  `json:"output_format"`
	Filename        string  `json:"filename,omitempty"`
	FileSizeBytes   int     `json:"file_size_bytes"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	AudioURL        string  `json:"audio_url,omitempty"`
	Error           string  `json:"error,omitempty"`
	Index           int     `json:"index"`
}

type BatchSynthesis struct {
	Results               []SynthesisResult `json:"results"`
	TotalTexts            int               `json:"total_texts"`
	SuccessfulConversions int               `json:"successful_conversions"`
	FailedConversions     int               `json:"failed_conversions"`
	Type                  string            `json:"type"`
}

type TextInputResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TextLength    int    `json:"text_length"`
	Source        string `json:"source"`
	ReceivedAt    string `json:"received_at,omitempty"`
	ProcessedText string `json:"processed_text"`
}

func NewTextInputResult(text, source, timestamp string) TextInputResult {
	return TextInputResult{
		Success:       true,
		Message:       "Text received successfully",
		TextLength:    len(text),
		Source:        source,
		ReceivedAt:    timestamp,
		ProcessedText: strings.TrimSpace(text),
	}
}

// Каталог голосов для GET /voices.
type EngineVoices struct {
	Engine    string   `json:"engine"`
	Voices    []string `json:"voices"`
	Languages []string `json:"languages"`
}

type VoiceCatalog struct {
	Engines          []EngineVoices `json:"engines"`
	SupportedFormats []string       `json:"supported_formats"`
	SupportedSpeeds  []string       `json:"supported_speeds"`
}

// Сервис конвертации: валидация, движки, сохранение артефактов и истории.
type SpeechService interface {
	Transcribe(ctx context.Context, file Upload, language string, session SessionInfo) (TranscriptionResult, error)
	TranscribeBatch(ctx context.Context, files []Upload, language string, session SessionInfo) (BatchTranscription, error)
	Synthesize(ctx context.Context, text string, opts SynthesisOptions, session SessionInfo) (SynthesisResult, []byte, error)
	SynthesizeInfo(ctx context.Context, text string, opts SynthesisOptions, session SessionInfo) (SynthesisResult, error)
	SynthesizeBatch(ctx context.Context, texts []string, opts SynthesisOptions, session SessionInfo) (BatchSynthesis, error)
	Voices() VoiceCatalog
}
