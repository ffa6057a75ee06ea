package player

import (
	"fmt"

	"github.com/PizzaHomicide/playerdata/internal/config"
	"github.com/PizzaHomicide/playerdata/internal/log"
)

// CreateVideoPlayer creates a new video player based on the configuration
func CreateVideoPlayer(cfg *config.Config) (VideoPlayer, error) {
	playerType := cfg.Player.Type
	log.Info("Creating video player", "type", playerType)

	switch playerType {
	case "", string(PlayerTypeMPV):
		return NewMPVPlayer(cfg.Player), nil
	default:
		return nil, fmt.Errorf("unsupported player type %q", playerType)
	}
}

// PlayerType defines the type of media player to use
type PlayerType string

// PlayerTypeMPV represents the MPV player
const PlayerTypeMPV PlayerType = "mpv"
