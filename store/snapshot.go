package store

import (
	"fmt"
	"os"

	"github.com/hellodex/otcboard/logger"
	"github.com/rs/zerolog"
)

// SnapshotError wraps a failed debug snapshot write.
type SnapshotError struct {
	Path string
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("write snapshot %s: %s", e.Path, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// Snapshot overwrites one file with the last raw seller list. It is never read back.
type Snapshot struct {
	path string
	log  zerolog.Logger
}

func NewSnapshot(path string, log zerolog.Logger) *Snapshot {
	return &Snapshot{
		path: path,
		log:  log.With().Str(logger.CategoryField, logger.CategoryStore).Logger(),
	}
}

func (s *Snapshot) Path() string {
	return s.path
}

// Write replaces the file contents with data. An empty path disables the snapshot.
func (s *Snapshot) Write(data []byte) error {
	if s.path == "" {
		return nil
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &SnapshotError{Path: s.path, Err: err}
	}
	s.log.Trace().Int("bytes", len(data)).Str("path", s.path).Msg("snapshot written")
	return nil
}
