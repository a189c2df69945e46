package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"nameboard/internal/model"
)

// NotFoundError is returned when an episode does not exist in the workspace.
type NotFoundError struct {
	ProjectID string
	EpisodeID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("episode not found: %s/%s", e.ProjectID, e.EpisodeID)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// SaveEpisode inserts or replaces the episode document. A zero LastEdited is stamped with now.
func (s Store) SaveEpisode(ctx context.Context, ep model.Episode) (model.Episode, error) {
	if strings.TrimSpace(ep.ProjectID) == "" || strings.TrimSpace(ep.ID) == "" {
		return ep, errors.New("episode requires project id and id")
	}
	if ep.LastEdited.IsZero() {
		ep.LastEdited = time.Now().UTC()
	}
	ep.Board = ep.Board.Normalize()
	b, err := json.Marshal(ep)
	if err != nil {
		return ep, err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return ep, err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO episodes(project_id, episode_id, title, json, last_edited_unixms)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(project_id, episode_id) DO UPDATE SET
	title = excluded.title,
	json = excluded.json,
	last_edited_unixms = excluded.last_edited_unixms`,
		ep.ProjectID, ep.ID, ep.Title, string(b), ep.LastEdited.UnixMilli())
	if err != nil {
		return ep, fmt.Errorf("save episode %s/%s: %w", ep.ProjectID, ep.ID, err)
	}
	return ep, nil
}

func (s Store) LoadEpisode(ctx context.Context, projectID, episodeID string) (model.Episode, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Episode{}, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT json FROM episodes WHERE project_id = ? AND episode_id = ?`, projectID, episodeID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Episode{}, NotFoundError{ProjectID: projectID, EpisodeID: episodeID}
		}
		return model.Episode{}, err
	}
	var ep model.Episode
	if err := json.Unmarshal([]byte(raw), &ep); err != nil {
		return model.Episode{}, fmt.Errorf("decode episode %s/%s: %w", projectID, episodeID, err)
	}
	return ep, nil
}

// ListEpisodes returns the project's episodes, most recently edited first.
func (s Store) ListEpisodes(ctx context.Context, projectID string) ([]model.EpisodeSummary, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT episode_id, title, last_edited_unixms FROM episodes
WHERE project_id = ? ORDER BY last_edited_unixms DESC, episode_id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.EpisodeSummary{}
	for rows.Next() {
		var (
			id, title string
			ms        int64
		)
		if err := rows.Scan(&id, &title, &ms); err != nil {
			return nil, err
		}
		out = append(out, model.EpisodeSummary{
			ID:         id,
			ProjectID:  projectID,
			Title:      title,
			LastEdited: time.UnixMilli(ms).UTC(),
		})
	}
	return out, rows.Err()
}

// ListProjects returns the distinct project ids with at least one episode.
func (s Store) ListProjects(ctx context.Context) ([]string, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT DISTINCT project_id FROM episodes ORDER BY project_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s Store) DeleteEpisode(ctx context.Context, projectID, episodeID string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM episodes WHERE project_id = ? AND episode_id = ?`, projectID, episodeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError{ProjectID: projectID, EpisodeID: episodeID}
	}
	return nil
}

// BoardWriter returns a writer that replaces base's Board in the workspace. It matches
// autosave.Writer. Sibling document fields of base are preserved.
func (s Store) BoardWriter(base model.Episode) BoardWriterFunc {
	return func(ctx context.Context, b model.Board) error {
		ep := base
		ep.Board = b
		ep.LastEdited = time.Now().UTC()
		_, err := s.SaveEpisode(ctx, ep)
		return err
	}
}

// BoardWriterFunc persists a Board.
type BoardWriterFunc func(ctx context.Context, b model.Board) error

func (f BoardWriterFunc) Write(ctx context.Context, b model.Board) error { return f(ctx, b) }
