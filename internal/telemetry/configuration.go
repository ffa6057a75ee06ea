package telemetry

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
)

// ErrMissingWorkspace is returned when a configuration has no workspace identifier
var ErrMissingWorkspace = errors.New("telemetry workspace id is required")

// VideoData describes the media being watched
type VideoData struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	CDN   string `json:"cdn,omitempty"`
}

// PlayerData describes the player library producing the events
type PlayerData struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// Configuration is supplied when a telemetry client is created for a playback session
type Configuration struct {
	WorkspaceID string
	// Optional beacon endpoint override
	BeaconURL     string
	Video         VideoData
	Player        PlayerData
	CustomData    map[string]string
	EnableLogging bool
}

// Validate checks that the configuration can identify its workspace and, if set, that the beacon
// URL is an absolute http(s) URL
func (c Configuration) Validate() error {
	if c.WorkspaceID == "" {
		return ErrMissingWorkspace
	}
	if c.BeaconURL == "" {
		return nil
	}

	u, err := url.Parse(c.BeaconURL)
	if err != nil {
		return fmt.Errorf("invalid beacon url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid beacon url %q: must be an absolute http(s) url", c.BeaconURL)
	}
	return nil
}

func (c Configuration) customData() map[string]string {
	if len(c.CustomData) == 0 {
		return nil
	}
	return maps.Clone(c.CustomData)
}
