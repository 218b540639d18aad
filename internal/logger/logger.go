// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. It is usable before Init is called.
var Log = logrus.New()

// Init configures Log. LOG_LEVEL and LOG_FORMAT take precedence over the
// values passed in, which normally come from the config file.
func Init(level, format string, out io.Writer) {
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = env
	}
	if env, ok := os.LookupEnv("LOG_FORMAT"); ok {
		format = env
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// "json" for collected logs, text otherwise.
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if out == nil {
		out = os.Stderr
	}
	Log.SetOutput(out)
}
