package telemetry

import "time"

// Beacon is the envelope written to an outbox for every dispatched playback event
type Beacon struct {
	ViewID      string            `json:"view_id"`
	Sequence    uint64            `json:"sequence"`
	WorkspaceID string            `json:"workspace_id"`
	BeaconURL   string            `json:"beacon_url,omitempty"`
	Event       string            `json:"event"`
	PositionMs  *int64            `json:"position_ms,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Video       VideoData         `json:"video"`
	Player      PlayerData        `json:"player"`
	CustomData  map[string]string `json:"custom_data,omitempty"`
}
