package app

import (
	"strings"

	"github.com/charlesng35/reviewerdesk/pkg/logger"
)

// ConfigureLogging initialises the global logger with the provided level, defaulting to info.
// Format "console" selects the human readable encoder.
func ConfigureLogging(level, format string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	return logger.Init(level, format)
}
