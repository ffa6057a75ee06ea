package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"sync"
	"time"

	"github.com/PizzaHomicide/playerdata/internal/config"
	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/playback"
)

// MPVPlayer implements the VideoPlayer interface for MPV. It exposes MPV's IPC event stream as raw
// playback signals.
type MPVPlayer struct {
	config     config.PlayerConfig
	ipcClient  *MPVIPCClient
	cmd        *exec.Cmd
	socketPath string
	autoPlay   bool

	stateMu    sync.RWMutex
	translator signalTranslator
	url        string

	// dispatchMu is held for the whole of a signal delivery and by RemoveListener, so a listener
	// is never called after RemoveListener returns.
	dispatchMu sync.Mutex
	listeners  []playback.Listener

	done chan struct{}
}

// NewMPVPlayer creates a new MPV player instance
func NewMPVPlayer(cfg config.PlayerConfig) *MPVPlayer {
	socketPath := GetMPVSocketPath()
	return &MPVPlayer{
		config:     cfg,
		socketPath: socketPath,
		ipcClient:  NewMPVIPCClient(socketPath),
		autoPlay:   !hasArg(ParseArgs(cfg.Args), "--pause"),
		done:       make(chan struct{}),
	}
}

// Play launches MPV idle, connects to its IPC server, subscribes to the properties the translator
// needs and only then loads url, so the first lifecycle events are never missed.
func (p *MPVPlayer) Play(ctx context.Context, url string) error {
	log.Info("Starting MPV playback", "url", url)

	p.stateMu.Lock()
	p.url = url
	p.stateMu.Unlock()

	mpvPath := p.config.Path
	if mpvPath == "" {
		mpvPath = "mpv"
	}

	args := []string{
		"--no-terminal",                      // Disable terminal control
		"--idle=once",                        // Wait for loadfile, exit after it finishes
		"--keep-open=no",                     // Exit when playback is complete
		"--input-ipc-server=" + p.socketPath, // Set IPC socket path
	}
	if p.config.Args != "" {
		args = append(args, ParseArgs(p.config.Args)...)
	}

	cmd := exec.Command(mpvPath, args...)
	setupPlayerProcess(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start MPV: %w", err)
	}
	p.cmd = cmd
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("MPV process exited", "error", err)
		}
	}()

	// Allow time for MPV to create the socket
	time.Sleep(300 * time.Millisecond)

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.ipcClient.WaitForConnection(connCtx, 20, 500*time.Millisecond); err != nil {
		_ = p.Stop()
		return fmt.Errorf("failed to connect to MPV: %w", err)
	}

	go p.monitor(ctx)

	for i, name := range observedProperties {
		if err := p.ipcClient.ObserveProperty(i+1, name); err != nil {
			log.Warn("Failed to observe MPV property", "name", name, "error", err)
		}
	}

	if err := p.ipcClient.LoadFile(url); err != nil {
		_ = p.Stop()
		return fmt.Errorf("failed to load %s: %w", url, err)
	}

	return nil
}

// monitor translates MPV events until the IPC connection closes or ctx is cancelled
func (p *MPVPlayer) monitor(ctx context.Context) {
	defer close(p.done)

	events := p.ipcClient.Events()
	for {
		select {
		case <-ctx.Done():
			log.Debug("Context cancelled, stopping MPV monitoring")
			return
		case event, ok := <-events:
			if !ok {
				log.Debug("MPV event channel closed")
				return
			}

			p.stateMu.Lock()
			signals := p.translator.translate(event)
			p.stateMu.Unlock()

			for _, sig := range signals {
				p.deliver(sig)
			}
		}
	}
}

func (p *MPVPlayer) deliver(sig playback.Signal) {
	p.dispatchMu.Lock()
	defer p.dispatchMu.Unlock()

	log.Trace("Delivering raw signal", "signal", sig.Name())
	for _, l := range p.listeners {
		l.HandleSignal(sig)
	}
}

func (p *MPVPlayer) AddListener(l playback.Listener) {
	p.dispatchMu.Lock()
	defer p.dispatchMu.Unlock()
	p.listeners = append(p.listeners, l)
}

func (p *MPVPlayer) RemoveListener(l playback.Listener) {
	p.dispatchMu.Lock()
	defer p.dispatchMu.Unlock()
	p.listeners = slices.DeleteFunc(p.listeners, func(x playback.Listener) bool { return x == l })
}

func (p *MPVPlayer) PositionMs() int64 {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.translator.positionUs / 1000
}

func (p *MPVPlayer) DurationMs() int64 {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.translator.durationUs / 1000
}

func (p *MPVPlayer) IsPlaying() bool {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.translator.isPlaying()
}

// IsLive reports a loaded stream without a known duration
func (p *MPVPlayer) IsLive() bool {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.translator.loaded && p.translator.durationUs == 0
}

func (p *MPVPlayer) IsAutoPlay() bool {
	return p.autoPlay
}

func (p *MPVPlayer) SourceURL() string {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.url
}

// Done is closed once MPV stops delivering events
func (p *MPVPlayer) Done() <-chan struct{} {
	return p.done
}

// Stop stops playback if it's active
func (p *MPVPlayer) Stop() error {
	if p.ipcClient != nil {
		if err := p.ipcClient.Quit(); err != nil {
			log.Debug("Failed to send quit to MPV", "error", err)
		}
		p.ipcClient.Close()
	}

	if p.cmd != nil && p.cmd.Process != nil {
		log.Info("Stopping MPV playback")
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill MPV: %w", err)
		}
	}

	return nil
}

// Cleanup performs any necessary cleanup
func (p *MPVPlayer) Cleanup() {
	if err := p.Stop(); err != nil {
		log.Warn("Failed to stop MPV", "error", err)
	}

	// Remove socket file if it exists (Unix only)
	if _, err := os.Stat(p.socketPath); err == nil {
		if err := os.Remove(p.socketPath); err != nil {
			log.Warn("Failed to remove MPV socket file", "path", p.socketPath, "error", err)
		}
	}
}
