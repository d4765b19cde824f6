package config

import (
	"go.uber.org/zap/zapcore"

	"github.com/dfki-ric/phobos/logging"
)

// InitLoggingSettings sets the level of logger from the settings. The command line debug flag wins.
func InitLoggingSettings(logger logging.Logger, cmdLineDebugFlag bool, settings *Settings) {
	level := settings.Level()
	if cmdLineDebugFlag {
		level = logging.DEBUG
	}
	logger.SetLevel(level)
	if level == logging.DEBUG {
		logging.GlobalLogLevel.SetLevel(zapcore.DebugLevel)
	} else {
		logging.GlobalLogLevel.SetLevel(zapcore.InfoLevel)
	}
	logger.Debugw("log level initialized", "level", level)
}
