package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

func TestForwardVoiceToText(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("ForwardVoiceToText", mock.Anything, mock.Anything,
		mock.MatchedBy(func(req ports.ForwardTranscriptionRequest) bool {
			return req.Target == "chat" &&
				req.Language == "en-US" &&
				req.IncludeMetadata &&
				req.CustomHeaders == "X-Env:staging" &&
				req.ConcurrentLimit == 5 &&
				req.Session.SessionID == "s1"
		}),
	).Return(ports.ForwardEnvelope{
		Transcription: &ports.TranscriptionResult{Success: true, Text: "hi"},
		ForwardResult: ports.ForwardResult{Success: true, StatusCode: 200},
		Success:       true,
	}, nil)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	req := multipartRequest(t, "/forward/voice-to-text", "file", "a.wav", map[string]string{
		"target":           "chat",
		"language":         "en-US",
		"custom_headers":   "X-Env:staging",
		"concurrent_limit": "5",
		"session_id":       "s1",
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	require.NotNil(t, body["forward_result"])

	forwardSvc.AssertExpectations(t)
}

func TestForwardVoiceToText_UnknownTarget(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("ForwardVoiceToText", mock.Anything, mock.Anything, mock.Anything).
		Return(ports.ForwardEnvelope{}, ports.ErrBadInput)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/forward/voice-to-text", "file", "a.wav", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForwardTranscription_RequiresText(t *testing.T) {
	router := testRouter(new(MockSpeechService), new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/forward/transcription", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForwardTranscription(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("ForwardTranscription", mock.Anything, "already have text", mock.Anything).
		Return(ports.ForwardEnvelope{
			Transcription: &ports.TranscriptionResult{Success: true, Text: "already have text", Source: "manual"},
			ForwardResult: ports.ForwardResult{Success: true},
			Success:       true,
		}, nil)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/forward/transcription", map[string][]string{
		"transcription_text": {"already have text"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestForwardTranscription_MultipartFields(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("ForwardTranscription", mock.Anything, "multipart text", mock.Anything).
		Return(ports.ForwardEnvelope{Success: true}, nil)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartFieldsRequest(t, "/forward/transcription", map[string][]string{
		"transcription_text": {"multipart text"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	forwardSvc.AssertExpectations(t)
}

func TestForwardTextInput(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("ForwardTextInput", mock.Anything, "typed text", "2026-01-01T00:00:00Z", mock.Anything).
		Return(ports.ForwardEnvelope{
			TextInput:     &ports.TextInputResult{Success: true, ProcessedText: "typed text"},
			ForwardResult: ports.ForwardResult{Success: true},
			Success:       true,
		}, nil)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/forward/text-input", map[string][]string{
		"text":      {"typed text"},
		"timestamp": {"2026-01-01T00:00:00Z"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	forwardSvc.AssertExpectations(t)
}

func TestForwardTextToVoice_AudioDataFlag(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("ForwardSynthesis", mock.Anything, "speak",
		mock.MatchedBy(func(req ports.ForwardSynthesisRequest) bool {
			return req.IncludeAudioData && req.Options.Language == "ru"
		}),
	).Return(ports.ForwardEnvelope{Success: true}, nil)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/forward/text-to-voice", map[string][]string{
		"text":               {"speak"},
		"language":           {"ru"},
		"include_audio_data": {"true"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	forwardSvc.AssertExpectations(t)
}

func TestForwardTextToVoiceBatch(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("ForwardSynthesisBatch", mock.Anything, []string{"a", "b", "c"}, mock.Anything).
		Return(ports.BatchForwardEnvelope{
			TotalItems:         3,
			SuccessfulForwards: 3,
			Success:            true,
		}, nil)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/forward/text-to-voice/batch", map[string][]string{
		"texts": {"a", "b", "c"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["total_items"])
	assert.Equal(t, float64(3), body["successful_forwards"])
}

func TestVoiceToVoice(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("VoiceToVoice", mock.Anything, mock.Anything,
		mock.MatchedBy(func(req ports.VoiceToVoiceRequest) bool {
			return req.VoiceLanguage == "ru" && req.Session.SessionID == "s7"
		}),
	).Return(ports.VoiceToVoiceResult{
		Audio:        []byte("reply-mp3"),
		OriginalText: "как дела",
		ResponseText: "всё хорошо",
		Engine:       "whisper",
	}, nil)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	req := multipartRequest(t, "/voice-to-voice", "file", "q.ogg", map[string]string{
		"voice_language": "ru",
		"session_id":     "s7",
		"user_id":        "u7",
		"channel":        "telegram",
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "как дела", rec.Header().Get("X-Original-Text"))
	assert.Equal(t, "всё хорошо", rec.Header().Get("X-Response-Text"))
	assert.Equal(t, "s7", rec.Header().Get("X-Session-ID"))
	assert.Equal(t, "u7", rec.Header().Get("X-User-ID"))
	assert.Equal(t, "telegram", rec.Header().Get("X-Channel"))
	assert.Equal(t, "voice-to-voice-complete", rec.Header().Get("X-Workflow"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "response_s7.mp3")
	assert.Equal(t, "reply-mp3", rec.Body.String())
}

func TestVoiceToVoice_EngineFailure(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("VoiceToVoice", mock.Anything, mock.Anything, mock.Anything).
		Return(ports.VoiceToVoiceResult{}, ports.ErrEngine)

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/voice-to-voice", "file", "q.wav", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTargets(t *testing.T) {
	forwardSvc := new(MockForwardService)
	forwardSvc.On("Targets").Return([]string{"chat", "crm"})

	router := testRouter(new(MockSpeechService), forwardSvc, new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/targets", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []any{"chat", "crm"}, body["targets"])
}
