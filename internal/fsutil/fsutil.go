// Package fsutil provides filesystem helpers for run output directories
// and temporary audio files.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UniqueOutputDir returns a path under baseDir named baseName that does not
// collide with an existing directory. If baseDir/baseName already exists,
// suffixes " (1)", " (2)", ... are tried in order. The directory is not
// created.
func UniqueOutputDir(baseDir, baseName string) string {
	path := filepath.Join(baseDir, baseName)
	counter := 1
	for {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return path
		}
		path = filepath.Join(baseDir, fmt.Sprintf("%s (%d)", baseName, counter))
		counter++
	}
}

// EnsureDir creates the directory (and parents) if it does not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// TempAudioPath returns a unique path for a temporary audio file in the
// system temp directory. The file itself is not created; ffmpeg writes it.
func TempAudioPath(suffix string) string {
	return filepath.Join(os.TempDir(), "snapscript_audio_"+uuid.NewString()+suffix)
}

// SafeRemove removes a file, treating a missing file as success. Failures
// are logged and reported but never panic.
func SafeRemove(path string) bool {
	if path == "" {
		return true
	}
	err := os.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return true
	}
	log.Error().Err(err).Str("path", path).Msg("Failed to remove file")
	return false
}
