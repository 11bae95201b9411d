package delivery

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

const maxUploadBytes = 50 << 20

type SpeechHandler struct {
	speechService ports.SpeechService
	log           *logger.ZapLogger
}

func NewSpeechHandler(speechService ports.SpeechService, log *logger.ZapLogger) *SpeechHandler {
	return &SpeechHandler{
		speechService: speechService,
		log:           log,
	}
}

func (h *SpeechHandler) TextInput(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	text := r.FormValue("text")
	if text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		source = "ui"
	}

	result := ports.NewTextInputResult(text, source, r.FormValue("timestamp"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *SpeechHandler) VoiceToText(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.speechService.Transcribe(
		r.Context(),
		ports.Upload{Reader: file, Filename: header.Filename},
		formLanguage(r, ports.DefaultSTTLang),
		sessionFromForm(r),
	)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "transcription failed", Error: err})
		http.Error(w, "failed to transcribe audio: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *SpeechHandler) VoiceToTextBatch(w http.ResponseWriter, r *http.Request) {
	uploads, closeAll, err := multipartUploads(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer closeAll()

	batch, err := h.speechService.TranscribeBatch(
		r.Context(),
		uploads,
		formLanguage(r, ports.DefaultSTTLang),
		sessionFromForm(r),
	)
	if err != nil {
		http.Error(w, "failed to transcribe batch: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(batch)
}

func (h *SpeechHandler) TextToVoice(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, audio, err := h.speechService.Synthesize(
		r.Context(),
		r.FormValue("text"),
		synthesisOptions(r),
		sessionFromForm(r),
	)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "synthesis failed", Error: err})
		http.Error(w, "failed to synthesize speech: "+err.Error(), statusFor(err))
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("synthesized %s of audio via %s", humanize.Bytes(uint64(len(audio))), result.Engine),
		Service: ports.ServiceName,
	})

	writeAudio(w, audio, result.Filename, map[string]string{
		"X-TTS-Engine":  result.Engine,
		"X-Language":    result.Language,
		"X-Slow":        strconv.FormatBool(result.Slow),
		"X-Text-Length": strconv.Itoa(result.TextLength),
	})
}

func (h *SpeechHandler) TextToVoiceInfo(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.speechService.SynthesizeInfo(
		r.Context(),
		r.FormValue("text"),
		synthesisOptions(r),
		sessionFromForm(r),
	)
	if err != nil {
		http.Error(w, "failed to synthesize speech: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *SpeechHandler) TextToVoiceBatch(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := h.speechService.SynthesizeBatch(
		r.Context(),
		r.Form["texts"],
		synthesisOptions(r),
		sessionFromForm(r),
	)
	if err != nil {
		http.Error(w, "failed to synthesize batch: "+err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(batch)
}

func (h *SpeechHandler) Voices(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.speechService.Voices())
}

func synthesisOptions(r *http.Request) ports.SynthesisOptions {
	return ports.SynthesisOptions{
		Language: r.FormValue("language"),
		Voice:    r.FormValue("voice"),
		Slow:     formBool(r, "slow", false),
	}
}

// собираем файлы поля "files" из multipart-запроса
func multipartUploads(r *http.Request) ([]ports.Upload, func(), error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("invalid multipart: %w", err)
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		return nil, nil, fmt.Errorf("missing files")
	}

	var uploads []ports.Upload
	var opened []io.Closer

	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open upload %q: %w", header.Filename, err)
		}
		opened = append(opened, f)
		uploads = append(uploads, ports.Upload{Reader: f, Filename: header.Filename})
	}

	return uploads, closeAll, nil
}

func writeAudio(w http.ResponseWriter, audio []byte, filename string, headers map[string]string) {
	for k, v := range headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Write(audio)
}
