package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	original, originalTime := Version, BuildTime
	t.Cleanup(func() { Version, BuildTime = original, originalTime })

	Version = "1.4.0"
	BuildTime = "2026-10-19T10:00:00Z"

	assert.Equal(t, "1.4.0", GetVersion())
	assert.Equal(t, "playerdata-mpv v1.4.0 (built 2026-10-19T10:00:00Z)", GetVersionInfo())
}
