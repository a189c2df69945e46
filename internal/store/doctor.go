package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nameboard/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level     DoctorIssueLevel `json:"level"`
	Code      string           `json:"code"`
	Message   string           `json:"message"`
	Path      string           `json:"path,omitempty"`
	ProjectID string           `json:"projectId,omitempty"`
	EpisodeID string           `json:"episodeId,omitempty"`
}

type DoctorReport struct {
	Episodes int           `json:"episodes"`
	Issues   []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks every stored episode decodes and satisfies the board invariants, and that
// roster files parse.
func (s Store) Doctor(ctx context.Context) DoctorReport {
	rep := DoctorReport{Issues: []DoctorIssue{}}
	if !s.Exists() {
		rep.Issues = append(rep.Issues, DoctorIssue{
			Level:   DoctorIssueLevelWarn,
			Code:    "workspace_missing",
			Message: "workspace database not found (run `nameboard init`)",
			Path:    s.sqlitePath(),
		})
		return rep
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "sqlite_open", Message: err.Error(), Path: s.sqlitePath()})
		return rep
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT project_id, episode_id, json FROM episodes ORDER BY project_id, episode_id`)
	if err != nil {
		rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "sqlite_query", Message: err.Error()})
		return rep
	}
	defer rows.Close()
	for rows.Next() {
		var pid, eid, raw string
		if err := rows.Scan(&pid, &eid, &raw); err != nil {
			rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "sqlite_scan", Message: err.Error()})
			continue
		}
		rep.Episodes++
		var ep model.Episode
		if err := json.Unmarshal([]byte(raw), &ep); err != nil {
			rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "episode_invalid_json", Message: err.Error(), ProjectID: pid, EpisodeID: eid})
			continue
		}
		if ep.ID != eid || ep.ProjectID != pid {
			rep.Issues = append(rep.Issues, DoctorIssue{
				Level:     DoctorIssueLevelWarn,
				Code:      "episode_id_mismatch",
				Message:   fmt.Sprintf("document ids %s/%s differ from row key", ep.ProjectID, ep.ID),
				ProjectID: pid,
				EpisodeID: eid,
			})
		}
		if err := model.Validate(ep.Board); err != nil {
			for _, line := range strings.Split(err.Error(), "\n") {
				rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "board_invalid", Message: line, ProjectID: pid, EpisodeID: eid})
			}
		}
	}
	if err := rows.Err(); err != nil {
		rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "sqlite_query", Message: err.Error()})
	}

	rosters, _ := filepath.Glob(filepath.Join(s.Dir, rostersDirName, "*.json"))
	for _, p := range rosters {
		b, err := os.ReadFile(p)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "roster_unreadable", Message: err.Error(), Path: p})
			}
			continue
		}
		if !json.Valid(b) {
			rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "roster_invalid_json", Message: "roster is not valid JSON", Path: p})
		}
	}
	return rep
}
