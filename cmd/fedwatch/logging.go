package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file.
const (
	logMaxSizeMB  = 20
	logMaxBackups = 5
	logMaxAgeDays = 28
)

// setupLogging installs the global console logger and, when logFile is set,
// tees every event into a rotating file. The returned func closes the file.
func setupLogging(console io.Writer, logFile string, verbose bool) (func() error, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	cw := zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	if logFile == "" {
		log.Logger = zerolog.New(cw).With().Timestamp().Logger()
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(cw, rotator)).With().Timestamp().Logger()
	return rotator.Close, nil
}
