package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nameboard/internal/model"
)

func sampleEpisode(pid, eid string) model.Episode {
	return model.Episode{
		ID:        eid,
		ProjectID: pid,
		Title:     "Episode " + eid,
		Board: model.Board{Groups: []model.Group{
			{ID: "G1", Label: "Opening", Tags: []string{"vs"}, Panels: []model.Panel{
				{ID: "P1", Dialogues: []model.Dialogue{{ID: "D1", Speaker: "Aki", Text: "hi"}}},
			}},
		}},
		Extra: map[string]json.RawMessage{"concept": json.RawMessage(`{"theme":"loss"}`)},
	}
}

func TestDiscoverDir(t *testing.T) {
	root := t.TempDir()
	ws := filepath.Join(root, WorkspaceDirName)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(ws, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok := DiscoverDir(nested)
	if !ok || got != ws {
		t.Fatalf("expected %s; got %s ok=%v", ws, got, ok)
	}
}

func TestEpisodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	saved, err := s.SaveEpisode(ctx, sampleEpisode("p1", "e1"))
	if err != nil {
		t.Fatalf("SaveEpisode: %v", err)
	}
	if saved.LastEdited.IsZero() {
		t.Fatalf("expected LastEdited stamped")
	}
	got, err := s.LoadEpisode(ctx, "p1", "e1")
	if err != nil {
		t.Fatalf("LoadEpisode: %v", err)
	}
	if got.Title != "Episode e1" || got.Board.Groups[0].Panels[0].Dialogues[0].Text != "hi" {
		t.Fatalf("unexpected episode: %+v", got)
	}
	if string(got.Extra["concept"]) != `{"theme":"loss"}` {
		t.Fatalf("expected extra field preserved; got %s", got.Extra["concept"])
	}

	got.Title = "Renamed"
	if _, err := s.SaveEpisode(ctx, got); err != nil {
		t.Fatalf("SaveEpisode replace: %v", err)
	}
	again, _ := s.LoadEpisode(ctx, "p1", "e1")
	if again.Title != "Renamed" {
		t.Fatalf("expected replace; got %q", again.Title)
	}

	if _, err := s.LoadEpisode(ctx, "p1", "missing"); !IsNotFound(err) {
		t.Fatalf("expected not found; got %v", err)
	}
	if _, err := s.SaveEpisode(ctx, model.Episode{ID: "x"}); err == nil {
		t.Fatalf("expected error for missing project id")
	}
}

func TestListAndDeleteEpisodes(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	old := sampleEpisode("p1", "old")
	old.LastEdited = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := sampleEpisode("p1", "new")
	recent.LastEdited = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	other := sampleEpisode("p2", "x")
	for _, ep := range []model.Episode{old, recent, other} {
		if _, err := s.SaveEpisode(ctx, ep); err != nil {
			t.Fatalf("SaveEpisode: %v", err)
		}
	}

	list, err := s.ListEpisodes(ctx, "p1")
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" || list[1].ID != "old" {
		t.Fatalf("expected [new old]; got %+v", list)
	}
	projects, err := s.ListProjects(ctx)
	if err != nil || len(projects) != 2 {
		t.Fatalf("expected two projects; got %v %v", projects, err)
	}

	if err := s.DeleteEpisode(ctx, "p1", "old"); err != nil {
		t.Fatalf("DeleteEpisode: %v", err)
	}
	if err := s.DeleteEpisode(ctx, "p1", "old"); !IsNotFound(err) {
		t.Fatalf("expected not found on second delete; got %v", err)
	}
}

func TestBoardWriter_ReplacesBoardOnly(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	base, _ := s.SaveEpisode(ctx, sampleEpisode("p1", "e1"))

	next := model.Board{Groups: []model.Group{}}
	if err := s.BoardWriter(base).Write(ctx, next); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.LoadEpisode(ctx, "p1", "e1")
	if len(got.Board.Groups) != 0 {
		t.Fatalf("expected board replaced")
	}
	if got.Title != base.Title || got.Extra["concept"] == nil {
		t.Fatalf("expected sibling fields preserved; got %+v", got)
	}
}

func TestLockEpisode_SecondEditorRejected(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	l, err := s.LockEpisode("p1", "e1")
	if err != nil {
		t.Fatalf("LockEpisode: %v", err)
	}
	if _, err := s.LockEpisode("p1", "e1"); !errors.Is(err, ErrEpisodeLocked) {
		t.Fatalf("expected ErrEpisodeLocked; got %v", err)
	}
	other, err := s.LockEpisode("p1", "e2")
	if err != nil {
		t.Fatalf("expected different episode to lock: %v", err)
	}
	_ = other.Unlock()
	if err := l.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	again, err := s.LockEpisode("p1", "e1")
	if err != nil {
		t.Fatalf("expected relock after unlock: %v", err)
	}
	_ = again.Unlock()
}

func TestDoctor(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if rep := s.Doctor(ctx); rep.HasErrors() || len(rep.Issues) != 1 || rep.Issues[0].Code != "workspace_missing" {
		t.Fatalf("expected workspace_missing warning; got %+v", rep)
	}

	if _, err := s.SaveEpisode(ctx, sampleEpisode("p1", "e1")); err != nil {
		t.Fatalf("SaveEpisode: %v", err)
	}
	bad := sampleEpisode("p1", "dup")
	bad.Board.Groups = append(bad.Board.Groups, bad.Board.Groups[0])
	if _, err := s.SaveEpisode(ctx, bad); err != nil {
		t.Fatalf("SaveEpisode: %v", err)
	}
	rep := s.Doctor(ctx)
	if rep.Episodes != 2 || !rep.HasErrors() {
		t.Fatalf("expected errors for duplicate ids; got %+v", rep)
	}
	for _, it := range rep.Issues {
		if it.EpisodeID != "dup" {
			t.Fatalf("unexpected issue on healthy episode: %+v", it)
		}
	}
}

func TestReplaceFileWithBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "roster.json")
	if err := ReplaceFileWithBackup(path, []byte("one"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Fatalf("expected no backup on first write, got %v", err)
	}
	if err := ReplaceFileWithBackup(path, []byte("two"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, _ := os.ReadFile(path)
	bak, _ := os.ReadFile(path + ".bak")
	if string(got) != "two" || string(bak) != "one" {
		t.Fatalf("expected two/one, got %q/%q", got, bak)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 2 {
		t.Fatalf("expected no temp files left, got %d entries", len(entries))
	}
}
