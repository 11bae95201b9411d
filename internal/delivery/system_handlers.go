package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

var features = []string{
	"voice-to-text conversion",
	"text-to-voice synthesis",
	"text input processing",
	"batch processing",
	"multiple audio formats",
	"configurable voice parameters",
	"REST API forwarding",
	"external service integration",
	"session tracking support",
	"conversion history",
	"voice-to-voice workflow",
}

func Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":  ports.ServiceName,
		"version":  ports.ServiceVersion,
		"status":   "running",
		"features": features,
	})
}

func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": ports.ServiceName,
	})
}
