package replay

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PizzaHomicide/playerdata/internal/playback"
)

// ErrUnknownSignal is returned for a trace record whose type is not a known raw signal
var ErrUnknownSignal = errors.New("unknown signal type")

// Signal record types, as written in trace files
const (
	TypeState         = "state"
	TypeSeekTo        = "seek_to"
	TypeSeekCompleted = "seek_completed"
	TypePosition      = "position"
	TypeVideoSize     = "video_size"
	TypeDuration      = "duration"
	TypeFatalError    = "fatal_error"
	TypeNonFatalError = "non_fatal_error"
	TypeFullyBuffered = "fully_buffered"
	TypeSpeed         = "speed"
	TypeDisplay       = "display"
	TypeKeyStatus     = "key_status"
)

// Trace is a recorded sequence of raw engine signals plus the engine facts a session queries
type Trace struct {
	SourceURL string         `yaml:"source_url,omitempty"`
	Live      bool           `yaml:"live,omitempty"`
	AutoPlay  bool           `yaml:"autoplay,omitempty"`
	Signals   []SignalRecord `yaml:"signals"`
}

// SignalRecord is the YAML form of one playback.Signal. Only the fields of its type are set.
type SignalRecord struct {
	Type        string  `yaml:"type"`
	State       string  `yaml:"state,omitempty"`
	Position    int64   `yaml:"position,omitempty"`
	Duration    int64   `yaml:"duration,omitempty"`
	Width       int     `yaml:"width,omitempty"`
	Height      int     `yaml:"height,omitempty"`
	PixelAspect float64 `yaml:"pixel_aspect,omitempty"`
	Code        string  `yaml:"code,omitempty"`
	Message     string  `yaml:"message,omitempty"`
	Speed       float64 `yaml:"speed,omitempty"`
	Secure      bool    `yaml:"secure,omitempty"`
}

// Load reads and parses the trace file at path
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read trace file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML trace and checks that every record converts to a signal
func Parse(data []byte) (*Trace, error) {
	trace := &Trace{}
	if err := yaml.Unmarshal(data, trace); err != nil {
		return nil, fmt.Errorf("unable to parse trace: %w", err)
	}
	for i, record := range trace.Signals {
		if _, err := record.Signal(); err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
	}
	return trace, nil
}

// Save writes the trace to path as YAML
func (t *Trace) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("unable to encode trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("unable to write trace file: %w", err)
	}
	return nil
}

// Signal converts the record into the raw signal it describes
func (r SignalRecord) Signal() (playback.Signal, error) {
	switch r.Type {
	case TypeState:
		state, err := playback.ParseEngineState(r.State)
		if err != nil {
			return nil, err
		}
		return playback.StateChanged{State: state}, nil
	case TypeSeekTo:
		return playback.SeekTo{TargetUs: r.Position}, nil
	case TypeSeekCompleted:
		return playback.SeekCompleted{}, nil
	case TypePosition:
		return playback.PositionChanged{PositionUs: r.Position}, nil
	case TypeVideoSize:
		return playback.VideoSizeChanged{Width: r.Width, Height: r.Height, PixelAspect: r.PixelAspect}, nil
	case TypeDuration:
		return playback.DurationChanged{DurationUs: r.Duration}, nil
	case TypeFatalError:
		return playback.FatalError{Code: r.Code, Message: r.Message}, nil
	case TypeNonFatalError:
		return playback.NonFatalError{Code: r.Code, Message: r.Message}, nil
	case TypeFullyBuffered:
		return playback.FullyBuffered{}, nil
	case TypeSpeed:
		return playback.SpeedChanged{Speed: r.Speed}, nil
	case TypeDisplay:
		return playback.DisplayChanged{Secure: r.Secure}, nil
	case TypeKeyStatus:
		return playback.KeyStatusChanged{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSignal, r.Type)
	}
}

// RecordOf converts a raw signal into its trace record
func RecordOf(sig playback.Signal) SignalRecord {
	switch v := sig.(type) {
	case playback.StateChanged:
		return SignalRecord{Type: TypeState, State: v.State.String()}
	case playback.SeekTo:
		return SignalRecord{Type: TypeSeekTo, Position: v.TargetUs}
	case playback.SeekCompleted:
		return SignalRecord{Type: TypeSeekCompleted}
	case playback.PositionChanged:
		return SignalRecord{Type: TypePosition, Position: v.PositionUs}
	case playback.VideoSizeChanged:
		return SignalRecord{Type: TypeVideoSize, Width: v.Width, Height: v.Height, PixelAspect: v.PixelAspect}
	case playback.DurationChanged:
		return SignalRecord{Type: TypeDuration, Duration: v.DurationUs}
	case playback.FatalError:
		return SignalRecord{Type: TypeFatalError, Code: v.Code, Message: v.Message}
	case playback.NonFatalError:
		return SignalRecord{Type: TypeNonFatalError, Code: v.Code, Message: v.Message}
	case playback.FullyBuffered:
		return SignalRecord{Type: TypeFullyBuffered}
	case playback.SpeedChanged:
		return SignalRecord{Type: TypeSpeed, Speed: v.Speed}
	case playback.DisplayChanged:
		return SignalRecord{Type: TypeDisplay, Secure: v.Secure}
	default:
		return SignalRecord{Type: TypeKeyStatus}
	}
}
