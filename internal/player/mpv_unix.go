//go:build !windows

package player

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"syscall"

	"github.com/PizzaHomicide/playerdata/internal/log"
)

// setupPlayerProcess puts MPV in its own process group so terminal signals aimed at us do not reach it
func setupPlayerProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// Connect establishes a connection with MPV over its unix domain socket
func (c *MPVIPCClient) Connect(ctx context.Context) error {
	log.Debug("Connecting to Unix socket", "path", c.socketPath)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to MPV socket: %w", err)
	}

	c.attach(conn)
	return nil
}
