package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/session"
)

const (
	playersFile = "players.json"
	currentFile = "current.json"
	historyFile = "history.json"

	defaultFileMode fs.FileMode = 0o600
	defaultDirMode  fs.FileMode = 0o755
)

// FileStore keeps each record kind in its own JSON file under a directory.
// Writes go to a temporary file that is renamed over the old one.
type FileStore struct {
	mu       sync.Mutex
	dir      string
	fileMode fs.FileMode
	dirMode  fs.FileMode
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	s := &FileStore{dir: dir, fileMode: defaultFileMode, dirMode: defaultDirMode}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return s, nil
}

func (s *FileStore) LoadPlayers(_ context.Context) ([]model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var players []model.Player
	if err := s.read(playersFile, &players); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return players, nil
}

func (s *FileStore) SavePlayers(_ context.Context, players []model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(playersFile, players)
}

func (s *FileStore) LoadCurrent(_ context.Context) (session.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var d session.Data
	if err := s.read(currentFile, &d); err != nil {
		return session.Data{}, err
	}
	return d, nil
}

func (s *FileStore) SaveCurrent(_ context.Context, d session.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(currentFile, d)
}

func (s *FileStore) ClearCurrent(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(filepath.Join(s.dir, currentFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", currentFile, err)
	}
	return nil
}

func (s *FileStore) LoadHistory(_ context.Context) ([]session.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history()
}

func (s *FileStore) AppendHistory(_ context.Context, d session.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	games, err := s.history()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(games, func(g session.Data) bool { return g.ID == d.ID })
	if i >= 0 {
		games[i] = d
	} else {
		games = append(games, d)
	}
	return s.write(historyFile, games)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) history() ([]session.Data, error) {
	games := []session.Data{}
	if err := s.read(historyFile, &games); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return games, nil
}

func (s *FileStore) read(name string, v any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) write(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(s.fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
