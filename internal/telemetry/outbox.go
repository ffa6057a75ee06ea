package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/metrics"
)

// Outbox accepts beacons for later delivery
type Outbox interface {
	Write(b Beacon) error
	Close() error
}

// JSONLinesOutbox writes each beacon as one JSON document per line
type JSONLinesOutbox struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLinesOutbox writes to w. If w is also an io.Closer it is closed with the outbox.
func NewJSONLinesOutbox(w io.Writer) *JSONLinesOutbox {
	o := &JSONLinesOutbox{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		o.closer = c
	}
	return o
}

// OpenJSONLinesFile appends beacons to the file at path. An empty path or "-" writes to stdout,
// which is never closed.
func OpenJSONLinesFile(path string) (*JSONLinesOutbox, error) {
	if path == "" || path == "-" {
		return &JSONLinesOutbox{enc: json.NewEncoder(os.Stdout)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("unable to create outbox directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("unable to open outbox file: %w", err)
	}
	return NewJSONLinesOutbox(f), nil
}

func (o *JSONLinesOutbox) Write(b Beacon) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.enc.Encode(b); err != nil {
		metrics.IncOutboxFailure("jsonl")
		return fmt.Errorf("encoding beacon: %w", err)
	}
	return nil
}

func (o *JSONLinesOutbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closer == nil {
		return nil
	}
	err := o.closer.Close()
	o.closer = nil
	return err
}

// LogOutbox writes beacons to the application log at debug level
type LogOutbox struct{}

func (LogOutbox) Write(b Beacon) error {
	args := []any{"view_id", b.ViewID, "sequence", b.Sequence, "event", b.Event}
	if b.PositionMs != nil {
		args = append(args, "position_ms", *b.PositionMs)
	}
	log.Debug("Beacon", args...)
	return nil
}

func (LogOutbox) Close() error {
	return nil
}

// MemoryOutbox keeps beacons in memory
type MemoryOutbox struct {
	mu      sync.Mutex
	beacons []Beacon
	closed  bool
}

func (o *MemoryOutbox) Write(b Beacon) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		metrics.IncOutboxFailure("memory")
		return errors.New("memory outbox is closed")
	}
	o.beacons = append(o.beacons, b)
	return nil
}

func (o *MemoryOutbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

// Beacons returns a copy of everything written so far
func (o *MemoryOutbox) Beacons() []Beacon {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.beacons)
}

// MultiOutbox fans beacons out to several outboxes. Every outbox is attempted; errors are joined.
type MultiOutbox []Outbox

func (m MultiOutbox) Write(b Beacon) error {
	var errs []error
	for _, o := range m {
		if err := o.Write(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiOutbox) Close() error {
	var errs []error
	for _, o := range m {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
