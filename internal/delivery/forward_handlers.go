package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

type ForwardHandler struct {
	forwardService ports.ForwardService
	log            *logger.ZapLogger
}

func NewForwardHandler(forwardService ports.ForwardService, log *logger.ZapLogger) *ForwardHandler {
	return &ForwardHandler{
		forwardService: forwardService,
		log:            log,
	}
}

func (h *ForwardHandler) VoiceToText(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	envelope, err := h.forwardService.ForwardVoiceToText(
		r.Context(),
		ports.Upload{Reader: file, Filename: header.Filename},
		h.transcriptionRequest(r),
	)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "voice-to-text forwarding failed", Error: err})
		http.Error(w, "voice-to-text forwarding failed: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

func (h *ForwardHandler) VoiceToTextBatch(w http.ResponseWriter, r *http.Request) {
	uploads, closeAll, err := multipartUploads(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer closeAll()

	envelope, err := h.forwardService.ForwardVoiceToTextBatch(r.Context(), uploads, h.transcriptionRequest(r))
	if err != nil {
		http.Error(w, "batch voice-to-text forwarding failed: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

func (h *ForwardHandler) Transcription(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	text := r.FormValue("transcription_text")
	if text == "" {
		http.Error(w, "missing transcription_text", http.StatusBadRequest)
		return
	}

	envelope, err := h.forwardService.ForwardTranscription(r.Context(), text, h.transcriptionRequest(r))
	if err != nil {
		http.Error(w, "transcription forwarding failed: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

func (h *ForwardHandler) TextInput(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	text := r.FormValue("text")
	if text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	envelope, err := h.forwardService.ForwardTextInput(r.Context(), text, r.FormValue("timestamp"), h.transcriptionRequest(r))
	if err != nil {
		http.Error(w, "text input forwarding failed: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

func (h *ForwardHandler) TextToVoice(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	envelope, err := h.forwardService.ForwardSynthesis(r.Context(), r.FormValue("text"), h.synthesisRequest(r))
	if err != nil {
		http.Error(w, "text-to-voice forwarding failed: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

func (h *ForwardHandler) TextToVoiceBatch(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	envelope, err := h.forwardService.ForwardSynthesisBatch(r.Context(), r.Form["texts"], h.synthesisRequest(r))
	if err != nil {
		http.Error(w, "batch text-to-voice forwarding failed: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

// VoiceToVoice — полный цикл: файл → текст → внешний сервис → голосовой ответ.
func (h *ForwardHandler) VoiceToVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	session := sessionFromForm(r)

	voiceLanguage := r.FormValue("voice_language")
	if voiceLanguage == "" {
		voiceLanguage = ports.DefaultTTSLang
	}

	result, err := h.forwardService.VoiceToVoice(
		r.Context(),
		ports.Upload{Reader: file, Filename: header.Filename},
		ports.VoiceToVoiceRequest{
			Target:        r.FormValue("target"),
			TargetURL:     r.FormValue("target_url"),
			Language:      formLanguage(r, ports.DefaultSTTLang),
			VoiceLanguage: voiceLanguage,
			Slow:          formBool(r, "slow", false),
			Session:       session,
		},
	)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "voice-to-voice workflow failed", Error: err})
		http.Error(w, "voice-to-voice workflow failed: "+err.Error(), statusFor(err))
		return
	}

	filename := "response_audio.mp3"
	if session.SessionID != "" {
		filename = "response_" + session.SessionID + ".mp3"
	}

	writeAudio(w, result.Audio, filename, map[string]string{
		"X-Original-Text": result.OriginalText,
		"X-Response-Text": result.ResponseText,
		"X-Session-ID":    session.SessionID,
		"X-User-ID":       session.UserID,
		"X-Channel":       session.Channel,
		"X-Workflow":      "voice-to-voice-complete",
	})
}

func (h *ForwardHandler) Targets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"targets": h.forwardService.Targets()})
}

func (h *ForwardHandler) transcriptionRequest(r *http.Request) ports.ForwardTranscriptionRequest {
	return ports.ForwardTranscriptionRequest{
		Target:          r.FormValue("target"),
		TargetURL:       r.FormValue("target_url"),
		Language:        formLanguage(r, ""),
		Source:          r.FormValue("source"),
		IncludeMetadata: formBool(r, "include_metadata", true),
		CustomHeaders:   r.FormValue("custom_headers"),
		Session:         sessionFromForm(r),
		ConcurrentLimit: formInt(r, "concurrent_limit", 0),
	}
}

func (h *ForwardHandler) synthesisRequest(r *http.Request) ports.ForwardSynthesisRequest {
	return ports.ForwardSynthesisRequest{
		Target:           r.FormValue("target"),
		TargetURL:        r.FormValue("target_url"),
		Options:          synthesisOptions(r),
		IncludeAudioData: formBool(r, "include_audio_data", false),
		IncludeMetadata:  formBool(r, "include_metadata", true),
		CustomHeaders:    r.FormValue("custom_headers"),
		Session:          sessionFromForm(r),
		ConcurrentLimit:  formInt(r, "concurrent_limit", 0),
	}
}
