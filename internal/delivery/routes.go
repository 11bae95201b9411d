package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(
	r chi.Router,
	hSpeech *SpeechHandler,
	hForward *ForwardHandler,
	hHistory *HistoryHandler,
) {
	// --- служебные ---
	r.With(httputil.RecoverMiddleware).Get("/", Root)
	r.With(httputil.RecoverMiddleware).Get("/health", Health)
	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	r.Group(func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(120, time.Minute),
		)

		// --- текстовый ввод ---
		pr.Post("/text-input", hSpeech.TextInput)

		// --- распознавание ---
		pr.Post("/voice-to-text", hSpeech.VoiceToText)
		pr.Post("/voice-to-text/batch", hSpeech.VoiceToTextBatch)

		// --- синтез ---
		pr.Post("/text-to-voice", hSpeech.TextToVoice)
		pr.Post("/text-to-voice/info", hSpeech.TextToVoiceInfo)
		pr.Post("/text-to-voice/batch", hSpeech.TextToVoiceBatch)
		pr.Get("/voices", hSpeech.Voices)

		// --- форвардинг ---
		pr.Get("/targets", hForward.Targets)
		pr.Post("/forward/voice-to-text", hForward.VoiceToText)
		pr.Post("/forward/voice-to-text/batch", hForward.VoiceToTextBatch)
		pr.Post("/forward/transcription", hForward.Transcription)
		pr.Post("/forward/text-input", hForward.TextInput)
		pr.Post("/forward/text-to-voice", hForward.TextToVoice)
		pr.Post("/forward/text-to-voice/batch", hForward.TextToVoiceBatch)

		// --- голос-в-голос ---
		pr.Post("/voice-to-voice", hForward.VoiceToVoice)

		// --- история ---
		pr.Get("/history/{session_id}", hHistory.GetBySession)
		pr.Delete("/history", hHistory.DeleteAll)
	})
}
