package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is nil until Init is called.
var Log *logrus.Logger

// Init sets up the global logger from the environment.
// LOG_LEVEL selects the level (default "info"), LOG_FORMAT=json selects
// structured output, anything else gets the coloured text formatter.
func Init() {
	Log = logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// EnableDebug lowers the global level to debug, used when the runtime
// config sets `debug: true`.
func EnableDebug() {
	if Log != nil && Log.GetLevel() < logrus.DebugLevel {
		Log.SetLevel(logrus.DebugLevel)
	}
}

// Get returns the global logger, or a logger that discards everything when
// Init has not been called (library use and tests).
func Get() logrus.FieldLogger {
	if Log != nil {
		return Log
	}
	return Discard()
}

// Discard returns a logger writing nowhere.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
