package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMimeTypeFromURL(t *testing.T) {
	tests := map[string]string{
		"https://cdn.example.com/master.m3u8": "application/x-mpegURL",
		"https://cdn.example.com/MASTER.M3U8": "application/x-mpegURL",
		"https://cdn.example.com/stream.mpd":  "application/dash+xml",
		"/media/episode-01.mp4":               "video/mp4",
		"https://cdn.example.com/clip.webm":   "",
		"":                                    "",
	}
	for url, want := range tests {
		assert.Equal(t, want, MimeTypeFromURL(url), url)
	}
}

func TestParseEngineState(t *testing.T) {
	for _, state := range []EngineState{EngineIdle, EnginePreparing, EngineBuffering, EnginePlaying, EnginePausing, EngineFinished} {
		parsed, err := ParseEngineState(state.String())
		assert.NoError(t, err)
		assert.Equal(t, state, parsed)
	}

	_, err := ParseEngineState("rewinding")
	assert.Error(t, err)
}
