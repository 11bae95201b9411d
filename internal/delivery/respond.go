package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

// клиенты шлют поля и urlencoded, и multipart — один ParseForm
// multipart-тело не прочитает
func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ports.ErrBadInput):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrEngine):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func sessionFromForm(r *http.Request) ports.SessionInfo {
	return ports.SessionInfo{
		SessionID: r.FormValue("session_id"),
		UserID:    r.FormValue("user_id"),
		Channel:   r.FormValue("channel"),
	}
}

// form-поле как bool; пустое значение — дефолт
func formBool(r *http.Request, name string, def bool) bool {
	raw := r.FormValue(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func formInt(r *http.Request, name string, def int) int {
	raw := r.FormValue(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func formLanguage(r *http.Request, def string) string {
	if v := r.FormValue("language"); v != "" {
		return v
	}
	if v := r.URL.Query().Get("language"); v != "" {
		return v
	}
	return def
}
