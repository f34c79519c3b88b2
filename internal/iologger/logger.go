// Package iologger sets up the default slog logger from LogConfig.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/transitdb/pkg/config"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "transitdb.log"

// logFile is the file of the current default logger, if any.
var logFile *os.File

// Init replaces the default slog logger. For the "file" destination
// the log file in logDir is truncated, the file of a previous Init is
// closed.
func Init(logDir string, cfg config.LogConfig) error {
	writer, err := destination(logDir, cfg.Destination)
	if err != nil {
		return err
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func destination(logDir, dest string) (io.Writer, error) {
	switch dest {
	case "stdout":
		closeFile()
		return os.Stdout, nil
	case "file":
		path := filepath.Join(logDir, LogFile)
		f, err := os.Create(path)
		if err != nil {
			return nil, CreateLogFileError(path, err)
		}
		closeFile()
		logFile = f
		return f, nil
	default:
		closeFile()
		return os.Stderr, nil
	}
}

func closeFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// parseLevel falls back to info for unknown names.
func parseLevel(level string) slog.Level {
	var res slog.Level
	if err := res.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return res
}
