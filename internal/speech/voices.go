package speech

import (
	"sort"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

var engineVoices = map[string][]string{
	"openai-tts": {"alloy", "echo", "fable", "onyx", "nova", "shimmer"},
	"elevenlabs": {"21m00Tcm4TlvDq8ikWAM"},
}

// Catalog собирает справочник голосов по подключённым движкам.
func Catalog(engines []ports.TTSClient) ports.VoiceCatalog {
	catalog := ports.VoiceCatalog{
		SupportedFormats: supportedFormats(),
		SupportedSpeeds:  []string{"normal", "slow"},
	}

	edgeLangs := make([]string, 0, len(edgeVoices))
	for lang := range edgeVoices {
		edgeLangs = append(edgeLangs, lang)
	}
	sort.Strings(edgeLangs)

	for _, e := range engines {
		ev := ports.EngineVoices{Engine: e.Name()}
		switch e.Name() {
		case "edge-tts":
			for _, lang := range edgeLangs {
				ev.Voices = append(ev.Voices, edgeVoices[lang])
			}
			ev.Languages = edgeLangs
		default:
			ev.Voices = engineVoices[e.Name()]
			ev.Languages = []string{"multilingual"}
		}
		catalog.Engines = append(catalog.Engines, ev)
	}

	return catalog
}

func supportedFormats() []string {
	formats := make([]string, 0, len(ports.SupportedAudioFormats))
	for ext := range ports.SupportedAudioFormats {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}
