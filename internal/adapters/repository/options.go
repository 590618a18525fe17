package repository

import (
	"io/fs"
	"time"
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permission bits for written files.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// WithDirMode sets the permission bits used when creating the data directory.
func WithDirMode(mode fs.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.dirMode = mode
		}
	}
}

// SQLOption applies a configuration option to the SQLStore.
type SQLOption func(*SQLStore)

// WithSQLClock sets the clock used to stamp saved sessions.
func WithSQLClock(now func() time.Time) SQLOption {
	return func(s *SQLStore) {
		if now != nil {
			s.now = now
		}
	}
}
