package speech

import (
	"bytes"
	"fmt"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// MP3Duration считает длительность трека в секундах.
// go-mp3 всегда декодирует в stereo 16-bit, отсюда 4 байта на фрейм.
func MP3Duration(data []byte) (float64, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("mp3 decode: %w", err)
	}

	length := decoder.Length()
	if length <= 0 {
		return 0, fmt.Errorf("unknown mp3 length")
	}

	const bytesPerFrame = 4
	return float64(length) / bytesPerFrame / float64(decoder.SampleRate()), nil
}
