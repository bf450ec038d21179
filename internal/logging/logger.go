// Package logging configures the global zerolog logger for the CLI.
package logging

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger. Verbose raises the level to debug;
// otherwise info. When logFile is non-empty, log output is written both to
// the console and to that file.
//
// Returns a close function for the log file (a no-op when no file was
// requested) and an error if the file could not be opened.
func Init(verbose bool, logFile string) (func(), error) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile == "" {
		log.Logger = log.Output(console)
		return func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(console, f))
	return func() { _ = f.Close() }, nil
}
