package telemetry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/playback"
)

// Client is the telemetry sink for one playback view. It stamps each canonical event with the view
// identity and metadata and writes the resulting beacon to its outbox. Delivery beyond the outbox is
// not its concern.
type Client struct {
	mu       sync.Mutex
	cfg      Configuration
	viewID   string
	sequence uint64
	outbox   Outbox
	now      func() time.Time
	released bool
	logger   *log.Logger
}

// NewClient validates cfg and creates a client writing to outbox
func NewClient(cfg Configuration, outbox Outbox) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if outbox == nil {
		return nil, errors.New("telemetry outbox is required")
	}

	c := &Client{
		cfg:    cfg,
		viewID: uuid.NewString(),
		outbox: outbox,
		now:    time.Now,
	}
	c.logger = log.With("view_id", c.viewID, "workspace_id", cfg.WorkspaceID)
	c.logDebug("Telemetry client initialised", "video_id", cfg.Video.ID, "player", cfg.Player.Name)
	return c, nil
}

// ViewID identifies the view every beacon of this client belongs to
func (c *Client) ViewID() string {
	return c.viewID
}

// DispatchEvent implements playback.Sink. Outbox failures are logged and never reach the caller.
func (c *Client) DispatchEvent(ev playback.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		c.logWarn("Dropping event dispatched after release", "kind", ev.Kind)
		return
	}

	c.sequence++
	beacon := Beacon{
		ViewID:      c.viewID,
		Sequence:    c.sequence,
		WorkspaceID: c.cfg.WorkspaceID,
		BeaconURL:   c.cfg.BeaconURL,
		Event:       string(ev.Kind),
		Timestamp:   c.now().UTC(),
		Video:       c.cfg.Video,
		Player:      c.cfg.Player,
		CustomData:  c.cfg.customData(),
	}
	if ev.HasPosition {
		position := ev.Position
		beacon.PositionMs = &position
	}

	if c.cfg.EnableLogging {
		c.logDebug("Writing beacon", "event", beacon.Event, "sequence", beacon.Sequence)
	}
	if err := c.outbox.Write(beacon); err != nil {
		c.logError("Failed to write beacon", "event", beacon.Event, "sequence", beacon.Sequence, "error", err)
	}
}

// Release closes the outbox. Events dispatched afterwards are dropped.
func (c *Client) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return nil
	}
	c.released = true
	c.logDebug("Telemetry client released", "beacons", c.sequence)

	if err := c.outbox.Close(); err != nil {
		return fmt.Errorf("closing telemetry outbox: %w", err)
	}
	return nil
}

func (c *Client) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Client) logError(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, args...)
	}
}
