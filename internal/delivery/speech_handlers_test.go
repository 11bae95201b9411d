package delivery

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

func formRequest(url string, values map[string][]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(encodeForm(values)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func encodeForm(values map[string][]string) string {
	form := url.Values(values)
	return form.Encode()
}

func TestTextInput(t *testing.T) {
	router := testRouter(new(MockSpeechService), new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/text-input", map[string][]string{
		"text":   {"  hello world  "},
		"source": {"widget"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "hello world", body["processed_text"])
	assert.Equal(t, "widget", body["source"])
	assert.Equal(t, float64(len("  hello world  ")), body["text_length"])
}

func TestTextInput_MultipartFields(t *testing.T) {
	router := testRouter(new(MockSpeechService), new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartFieldsRequest(t, "/text-input", map[string][]string{
		"text": {"hello"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "hello", body["processed_text"])
}

func TestTextInput_MissingText(t *testing.T) {
	router := testRouter(new(MockSpeechService), new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/text-input", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVoiceToText(t *testing.T) {
	speechSvc := new(MockSpeechService)
	speechSvc.On("Transcribe", mock.Anything,
		mock.MatchedBy(func(u ports.Upload) bool { return u.Filename == "note.wav" }),
		"ru-RU",
		ports.SessionInfo{SessionID: "s1", UserID: "u1", Channel: "web"},
	).Return(ports.TranscriptionResult{Success: true, Text: "привет", Engine: "deepgram"}, nil)

	router := testRouter(speechSvc, new(MockForwardService), new(MockHistoryService))

	req := multipartRequest(t, "/voice-to-text", "file", "note.wav", map[string]string{
		"language":   "ru-RU",
		"session_id": "s1",
		"user_id":    "u1",
		"channel":    "web",
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "привет", body["text"])
	assert.Equal(t, "deepgram", body["engine"])

	speechSvc.AssertExpectations(t)
}

func TestVoiceToText_MissingFile(t *testing.T) {
	router := testRouter(new(MockSpeechService), new(MockForwardService), new(MockHistoryService))

	req := multipartRequest(t, "/voice-to-text", "wrong_field", "note.wav", nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVoiceToText_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad input", ports.ErrBadInput, http.StatusBadRequest},
		{"engine down", ports.ErrEngine, http.StatusServiceUnavailable},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			speechSvc := new(MockSpeechService)
			speechSvc.On("Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(ports.TranscriptionResult{}, tc.err)

			router := testRouter(speechSvc, new(MockForwardService), new(MockHistoryService))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, multipartRequest(t, "/voice-to-text", "file", "a.wav", nil))

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestTextToVoice(t *testing.T) {
	speechSvc := new(MockSpeechService)
	speechSvc.On("Synthesize", mock.Anything, "say this",
		ports.SynthesisOptions{Language: "en", Voice: "alloy", Slow: true},
		mock.Anything,
	).Return(ports.SynthesisResult{
		Success:    true,
		Engine:     "openai-tts",
		Language:   "en",
		Slow:       true,
		TextLength: 8,
		Filename:   "speech_abcd1234.mp3",
	}, []byte("mp3-bytes"), nil)

	router := testRouter(speechSvc, new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/text-to-voice", map[string][]string{
		"text":     {"say this"},
		"language": {"en"},
		"voice":    {"alloy"},
		"slow":     {"true"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "openai-tts", rec.Header().Get("X-TTS-Engine"))
	assert.Equal(t, "en", rec.Header().Get("X-Language"))
	assert.Equal(t, "true", rec.Header().Get("X-Slow"))
	assert.Equal(t, "8", rec.Header().Get("X-Text-Length"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "speech_abcd1234.mp3")
	assert.Equal(t, "mp3-bytes", rec.Body.String())
}

func TestTextToVoice_MultipartFields(t *testing.T) {
	speechSvc := new(MockSpeechService)
	speechSvc.On("Synthesize", mock.Anything, "say this", mock.Anything, mock.Anything).
		Return(ports.SynthesisResult{Success: true, Engine: "edge-tts"}, []byte("mp3"), nil)

	router := testRouter(speechSvc, new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartFieldsRequest(t, "/text-to-voice", map[string][]string{
		"text": {"say this"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	speechSvc.AssertExpectations(t)
}

func TestTextToVoiceInfo(t *testing.T) {
	speechSvc := new(MockSpeechService)
	speechSvc.On("SynthesizeInfo", mock.Anything, "say this", mock.Anything, mock.Anything).
		Return(ports.SynthesisResult{Success: true, Engine: "edge-tts", FileSizeBytes: 1234}, nil)

	router := testRouter(speechSvc, new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/text-to-voice/info", map[string][]string{
		"text": {"say this"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "edge-tts", body["tts_engine"])
	assert.Equal(t, float64(1234), body["file_size_bytes"])
}

func TestTextToVoiceBatch(t *testing.T) {
	speechSvc := new(MockSpeechService)
	speechSvc.On("SynthesizeBatch", mock.Anything, []string{"one", "two"}, mock.Anything, mock.Anything).
		Return(ports.BatchSynthesis{
			Results:               []ports.SynthesisResult{{Success: true}, {Success: true}},
			TotalTexts:            2,
			SuccessfulConversions: 2,
			Type:                  "text_to_voice_batch",
		}, nil)

	router := testRouter(speechSvc, new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/text-to-voice/batch", map[string][]string{
		"texts": {"one", "two"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["total_texts"])
	assert.Equal(t, float64(2), body["successful_conversions"])
}

func TestTextToVoiceBatch_MultipartFields(t *testing.T) {
	speechSvc := new(MockSpeechService)
	speechSvc.On("SynthesizeBatch", mock.Anything, []string{"one", "two"}, mock.Anything, mock.Anything).
		Return(ports.BatchSynthesis{TotalTexts: 2, SuccessfulConversions: 2}, nil)

	router := testRouter(speechSvc, new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartFieldsRequest(t, "/text-to-voice/batch", map[string][]string{
		"texts": {"one", "two"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	speechSvc.AssertExpectations(t)
}

func TestVoices(t *testing.T) {
	speechSvc := new(MockSpeechService)
	speechSvc.On("Voices").Return(ports.VoiceCatalog{
		Engines:          []ports.EngineVoices{{Engine: "edge-tts", Languages: []string{"en", "ru"}}},
		SupportedFormats: []string{".mp3", ".wav"},
	})

	router := testRouter(speechSvc, new(MockForwardService), new(MockHistoryService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/voices", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["engines"])
	assert.NotEmpty(t, body["supported_formats"])
}
