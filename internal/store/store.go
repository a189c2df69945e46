// Package store is the local workspace: a directory holding a SQLite database of episode
// documents, per-project roster files and edit locks.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	WorkspaceDirName = ".nameboard"
	dbFileName       = "nameboard.db"
	rostersDirName   = "rosters"
	locksDirName     = "locks"
	logsDirName      = "logs"
)

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .nameboard directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, WorkspaceDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir returns the nearest .nameboard above the working directory, or ~/.nameboard.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, WorkspaceDirName), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("workspace dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, dbFileName)
}

// Exists reports whether the workspace database has been created.
func (s Store) Exists() bool {
	_, err := os.Stat(s.sqlitePath())
	return err == nil
}

// RosterPath is the roster file for a project.
func (s Store) RosterPath(projectID string) string {
	return filepath.Join(s.Dir, rostersDirName, safeName(projectID)+".json")
}

// LogPath is where interactive sessions write their log.
func (s Store) LogPath() string {
	return filepath.Join(s.Dir, logsDirName, "nameboard.log")
}

func (s Store) lockPath(projectID, episodeID string) string {
	return filepath.Join(s.Dir, locksDirName, safeName(projectID)+"--"+safeName(episodeID)+".lock")
}

// safeName maps an id to a file-name-safe token.
func safeName(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
