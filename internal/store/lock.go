package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrEpisodeLocked means another editor session holds the episode.
var ErrEpisodeLocked = errors.New("episode is open in another editor")

// EpisodeLock is an exclusive edit lock on one episode.
type EpisodeLock struct {
	path string
	lock *flock.Flock
}

// LockEpisode takes the edit lock without blocking.
func (s Store) LockEpisode(projectID, episodeID string) (*EpisodeLock, error) {
	path := s.lockPath(projectID, episodeID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrEpisodeLocked
	}
	return &EpisodeLock{path: path, lock: fl}, nil
}

func (l *EpisodeLock) Path() string { return l.path }

func (l *EpisodeLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
