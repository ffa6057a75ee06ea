package player

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/PizzaHomicide/playerdata/internal/log"
)

// MPVIPCClient provides communication with a running MPV instance
type MPVIPCClient struct {
	socketPath string
	writeMu    sync.Mutex
	conn       net.Conn
	events     chan MPVEvent
	closed     chan struct{}
	closeOnce  sync.Once
}

// MPVEvent is one line read from the MPV IPC connection: either an event or a command reply
type MPVEvent struct {
	Event     string          `json:"event,omitempty"`
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	FileError string          `json:"file_error,omitempty"`
	RequestID int             `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// NewMPVIPCClient creates a new MPV IPC client
func NewMPVIPCClient(socketPath string) *MPVIPCClient {
	return &MPVIPCClient{
		socketPath: socketPath,
		events:     make(chan MPVEvent, 100),
		closed:     make(chan struct{}),
	}
}

// GetMPVSocketPath returns the socket path for MPV IPC communication
func GetMPVSocketPath() string {
	if path := os.Getenv("MPV_IPC_SOCKET"); path != "" {
		return path
	}

	switch runtime.GOOS {
	case "windows":
		return `\\.\pipe\playerdata-mpv`
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("Failed to get user home directory", "error", err)
			return "/tmp/playerdata-mpv.sock"
		}
		return filepath.Join(homeDir, ".config", "mpv", "playerdata.sock")
	default:
		if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
			return filepath.Join(runtimeDir, "playerdata-mpv.sock")
		}
		return "/tmp/playerdata-mpv.sock"
	}
}

// attach takes ownership of an established connection and starts reading events from it
func (c *MPVIPCClient) attach(conn net.Conn) {
	c.conn = conn
	go c.readEvents()
}

// WaitForConnection attempts to connect to MPV with retries
func (c *MPVIPCClient) WaitForConnection(ctx context.Context, maxAttempts int, retryDelay time.Duration) error {
	log.Debug("Waiting for MPV to create socket", "socket_path", c.socketPath, "max_attempts", maxAttempts)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if runtime.GOOS != "windows" {
			if _, err := os.Stat(c.socketPath); os.IsNotExist(err) {
				log.Debug("MPV socket does not exist yet", "attempt", attempt, "path", c.socketPath)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(retryDelay):
					continue
				}
			}
		}

		err := c.Connect(ctx)
		if err == nil {
			log.Info("Successfully connected to MPV", "attempt", attempt)
			return nil
		}

		log.Debug("Failed to connect to MPV", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return fmt.Errorf("failed to connect to MPV after %d attempts", maxAttempts)
}

// Close closes the connection to MPV.  The event channel is closed once the reader drains.
func (c *MPVIPCClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// readEvents continuously reads events from MPV until the connection is closed
func (c *MPVIPCClient) readEvents() {
	defer close(c.events)

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		log.Trace("Raw MPV event", "data", string(line))

		var event MPVEvent
		if err := json.Unmarshal(line, &event); err != nil {
			log.Error("Failed to unmarshal MPV event", "error", err)
			continue
		}

		if event.Event == "" {
			// Command reply
			if event.Error != "" && event.Error != "success" {
				log.Warn("MPV command failed", "request_id", event.RequestID, "error", event.Error)
			}
			continue
		}

		select {
		case c.events <- event:
		case <-c.closed:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.Debug("MPV event reader stopped with error", "error", err)
	}
	log.Debug("MPV event reader stopped")
}

// Events returns the channel for MPV events
func (c *MPVIPCClient) Events() <-chan MPVEvent {
	return c.events
}

// SendCommand sends a command to MPV
func (c *MPVIPCClient) SendCommand(cmd ...any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected to MPV")
	}

	data, err := json.Marshal(map[string]any{"command": cmd})
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	data = append(data, '\n')
	if _, err = c.conn.Write(data); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}

	return nil
}

// ObserveProperty starts observing an MPV property
func (c *MPVIPCClient) ObserveProperty(id int, name string) error {
	return c.SendCommand("observe_property", id, name)
}

// LoadFile asks MPV to replace the current file with url and start it
func (c *MPVIPCClient) LoadFile(url string) error {
	return c.SendCommand("loadfile", url, "replace")
}

// Quit asks MPV to exit
func (c *MPVIPCClient) Quit() error {
	return c.SendCommand("quit")
}
