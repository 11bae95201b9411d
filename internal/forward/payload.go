package forward

import (
	"encoding/base64"
	"sort"
	"strings"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

// поля, в которых внешние сервисы обычно возвращают текст ответа
var replyFields = []string{"text", "response", "message", "reply", "answer", "content", "output"}

// ParseHeaders разбирает строку вида "k1:v1,k2:v2".
// Кривой формат молча игнорируем — форвардинг важнее кастомных заголовков.
func ParseHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	headers := make(map[string]string)
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			return nil
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil
		}
		headers[key] = value
	}

	return headers
}

// ExtractReplyText достаёт текст ответа из произвольного JSON внешнего сервиса:
// сначала известные поля по приоритету, потом любое непустое строковое значение.
// Берём только строки: числовой "text" репликой не считаем.
func ExtractReplyText(data map[string]any) (string, bool) {
	for _, field := range replyFields {
		if v, ok := data[field]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s, true
			}
		}
	}

	// фолбэк по отсортированным ключам, иначе выбор зависит от порядка обхода map
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := data[k].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}

	return "", false
}

func transcriptionPayload(result ports.TranscriptionResult, session ports.SessionInfo, includeMetadata bool) map[string]any {
	payload := map[string]any{
		"text":       result.Text,
		"session_id": nilIfEmpty(session.SessionID),
		"user_id":    nilIfEmpty(session.UserID),
		"channel":    nilIfEmpty(session.Channel),
	}

	if includeMetadata {
		payload["metadata"] = map[string]any{
			"service":           ports.ServiceName,
			"version":           ports.ServiceVersion,
			"conversion_engine": result.Engine,
			"audio_format":      audioFormat(result.Filename),
			"language":          result.Language,
		}
	}

	return payload
}

func textInputPayload(text string, result ports.TextInputResult, session ports.SessionInfo, includeMetadata bool) map[string]any {
	payload := map[string]any{
		"text":       text,
		"session_id": nilIfEmpty(session.SessionID),
		"user_id":    nilIfEmpty(session.UserID),
		"channel":    nilIfEmpty(session.Channel),
	}

	if includeMetadata {
		payload["metadata"] = map[string]any{
			"service":         ports.ServiceName,
			"version":         ports.ServiceVersion,
			"processing_type": "text-input",
			"original_source": result.Source,
			"text_length":     result.TextLength,
		}
	}

	return payload
}

func synthesisPayload(result ports.SynthesisResult, audio []byte, includeMetadata bool) map[string]any {
	payload := map[string]any{
		"text_to_voice": result,
		"source":        ports.ServiceName,
	}

	if len(audio) > 0 {
		payload["audio_data"] = map[string]any{
			"data":     base64.StdEncoding.EncodeToString(audio),
			"format":   ports.OutputFormat,
			"encoding": "base64",
		}
	}

	if includeMetadata {
		payload["metadata"] = map[string]any{
			"service":         ports.ServiceName,
			"version":         ports.ServiceVersion,
			"processing_type": "text-to-voice",
			"tts_engine":      result.Engine,
			"language":        result.Language,
			"output_format":   result.OutputFormat,
			"text_length":     result.TextLength,
			"file_size_bytes": result.FileSizeBytes,
		}
	}

	return payload
}

func audioFormat(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 && i+1 < len(filename) {
		return strings.ToLower(filename[i+1:])
	}
	return "unknown"
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
