package player

import (
	"encoding/json"
	"math"

	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/playback"
)

// observedProperties are the MPV properties whose changes feed the translator. IDs are index+1.
var observedProperties = []string{
	"pause",
	"paused-for-cache",
	"demuxer-cache-idle",
	"playback-time",
	"duration",
	"video-params",
	"speed",
	"idle-active",
}

// signalTranslator turns MPV IPC events into raw playback signals. It keeps the MPV state needed to
// derive signals MPV does not report directly, and that the engine query surface is answered from.
type signalTranslator struct {
	loaded          bool
	paused          bool
	cachePaused     bool
	idle            bool
	seekPending     bool
	resumeAfterSeek bool
	positionUs      int64
	durationUs      int64
	width           int
	height          int
}

type videoParams struct {
	W   int     `json:"w"`
	H   int     `json:"h"`
	Par float64 `json:"par"`
}

func (t *signalTranslator) translate(ev MPVEvent) []playback.Signal {
	switch ev.Event {
	case "start-file":
		t.loaded = false
		t.seekPending = false
		t.resumeAfterSeek = false
		t.positionUs = 0
		return signals(playback.StateChanged{State: playback.EnginePreparing})
	case "file-loaded":
		t.loaded = true
		return nil
	case "seek":
		if !t.loaded {
			return nil
		}
		t.seekPending = true
		return signals(playback.SeekTo{TargetUs: t.positionUs})
	case "playback-restart":
		if t.seekPending {
			t.seekPending = false
			t.resumeAfterSeek = true
			return signals(playback.SeekCompleted{})
		}
		if t.loaded && !t.paused {
			return signals(playback.StateChanged{State: playback.EnginePlaying})
		}
		return nil
	case "end-file":
		t.loaded = false
		t.seekPending = false
		switch ev.Reason {
		case "eof":
			return signals(playback.StateChanged{State: playback.EngineFinished})
		case "error":
			return signals(playback.FatalError{Code: "file_error", Message: ev.FileError})
		default:
			return signals(playback.StateChanged{State: playback.EngineIdle})
		}
	case "property-change":
		return t.translateProperty(ev)
	default:
		return nil
	}
}

func (t *signalTranslator) translateProperty(ev MPVEvent) []playback.Signal {
	// Unavailable properties are reported as null
	if len(ev.Data) == 0 || string(ev.Data) == "null" {
		return nil
	}

	switch ev.Name {
	case "pause":
		var paused bool
		if !decodeProperty(ev, &paused) || paused == t.paused {
			return nil
		}
		t.paused = paused
		if !t.loaded {
			return nil
		}
		if paused {
			return signals(playback.StateChanged{State: playback.EnginePausing})
		}
		return signals(playback.StateChanged{State: playback.EnginePlaying})
	case "paused-for-cache":
		var waiting bool
		if !decodeProperty(ev, &waiting) || waiting == t.cachePaused {
			return nil
		}
		t.cachePaused = waiting
		if !t.loaded {
			return nil
		}
		if waiting {
			return signals(playback.StateChanged{State: playback.EngineBuffering})
		}
		out := signals(playback.FullyBuffered{})
		if !t.paused {
			out = append(out, playback.StateChanged{State: playback.EnginePlaying})
		}
		return out
	case "demuxer-cache-idle":
		var cacheIdle bool
		if !decodeProperty(ev, &cacheIdle) || !cacheIdle || !t.loaded {
			return nil
		}
		return signals(playback.FullyBuffered{})
	case "playback-time":
		var seconds float64
		if !decodeProperty(ev, &seconds) {
			return nil
		}
		t.positionUs = secondsToMicros(seconds)
		out := signals(playback.PositionChanged{PositionUs: t.positionUs})
		if t.resumeAfterSeek {
			t.resumeAfterSeek = false
			if !t.paused {
				out = append(out, playback.StateChanged{State: playback.EnginePlaying})
			}
		}
		return out
	case "duration":
		var seconds float64
		if !decodeProperty(ev, &seconds) {
			return nil
		}
		t.durationUs = secondsToMicros(seconds)
		return signals(playback.DurationChanged{DurationUs: t.durationUs})
	case "video-params":
		var params videoParams
		if !decodeProperty(ev, &params) || (params.W == t.width && params.H == t.height) {
			return nil
		}
		t.width, t.height = params.W, params.H
		return signals(playback.VideoSizeChanged{Width: params.W, Height: params.H, PixelAspect: params.Par})
	case "speed":
		var speed float64
		if !decodeProperty(ev, &speed) {
			return nil
		}
		return signals(playback.SpeedChanged{Speed: speed})
	case "idle-active":
		var idle bool
		if decodeProperty(ev, &idle) {
			t.idle = idle
		}
		return nil
	default:
		return nil
	}
}

func (t *signalTranslator) isPlaying() bool {
	return t.loaded && !t.paused && !t.cachePaused && !t.idle
}

func decodeProperty(ev MPVEvent, v any) bool {
	if err := json.Unmarshal(ev.Data, v); err != nil {
		log.Warn("Failed to unmarshal MPV property", "name", ev.Name, "data", string(ev.Data), "error", err)
		return false
	}
	return true
}

func secondsToMicros(seconds float64) int64 {
	return int64(math.Round(seconds * 1e6))
}

func signals(s ...playback.Signal) []playback.Signal {
	return s
}
