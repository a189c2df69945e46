// Package editor is the single owner of the committed Board. Every user intent passes through
// an Editor, which applies it with the mutate and drag packages and hands the result to the
// sync layer.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"nameboard/internal/drag"
	"nameboard/internal/logging"
	"nameboard/internal/model"
	"nameboard/internal/mutate"
	"nameboard/internal/roster"
)

// Syncer receives every committed Board. *autosave.Syncer implements it.
type Syncer interface {
	Notify(b model.Board)
	SaveNow(ctx context.Context) error
}

type Options struct {
	Roster roster.Lookup
	Sync   Syncer
	Logger *slog.Logger
}

type Editor struct {
	mu     sync.Mutex
	board  model.Board
	drag   *drag.Engine
	roster roster.Lookup
	sync   Syncer
	log    *slog.Logger
}

func New(b model.Board, opts Options) *Editor {
	return &Editor{
		board:  b.Normalize(),
		drag:   drag.New(),
		roster: opts.Roster,
		sync:   opts.Sync,
		log:    logging.OrNop(opts.Logger),
	}
}

// Board returns the committed Board.
func (e *Editor) Board() model.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// View returns what should be rendered: the speculative Board while dragging, otherwise the
// committed one.
func (e *Editor) View() model.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag.State() == drag.Dragging {
		return e.drag.Speculative()
	}
	return e.board
}

// commitLocked publishes next as the committed Board.
func (e *Editor) commitLocked(next model.Board) {
	e.board = next
	if e.sync != nil {
		e.sync.Notify(next)
	}
}

// apply runs fn against the committed Board and commits its result on success.
func (e *Editor) apply(op string, fn func(model.Board) (model.Board, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := fn(e.board)
	if err != nil {
		return err
	}
	e.commitLocked(next)
	e.log.Debug("board updated", "op", op)
	return nil
}

func (e *Editor) AddGroup(label, classification string) (model.Group, error) {
	var g model.Group
	err := e.apply("add-group", func(b model.Board) (model.Board, error) {
		next, created, err := mutate.AddGroup(b, label, classification)
		g = created
		return next, err
	})
	return g, err
}

func (e *Editor) AddPanel(groupID string) (model.Panel, error) {
	var p model.Panel
	err := e.apply("add-panel", func(b model.Board) (model.Board, error) {
		next, created, err := mutate.AddPanel(b, groupID)
		p = created
		return next, err
	})
	return p, err
}

func (e *Editor) AddDialogue(panelID string) (model.Dialogue, error) {
	var d model.Dialogue
	err := e.apply("add-dialogue", func(b model.Board) (model.Board, error) {
		next, created, err := mutate.AddDialogue(b, panelID)
		d = created
		return next, err
	})
	return d, err
}

func (e *Editor) Update(kind model.Kind, id string, patch mutate.Patch) error {
	return e.apply("update", func(b model.Board) (model.Board, error) {
		return mutate.UpdateItem(b, kind, id, patch)
	})
}

func (e *Editor) ToggleTag(groupID, tag string) error {
	return e.apply("toggle-tag", func(b model.Board) (model.Board, error) {
		return mutate.ToggleTag(b, groupID, tag)
	})
}

func (e *Editor) Delete(kind model.Kind, id string) error {
	return e.apply("delete", func(b model.Board) (model.Board, error) {
		return mutate.DeleteItem(b, kind, id)
	})
}

func (e *Editor) Reorder(kind model.Kind, parentID string, from, to int) error {
	return e.apply("reorder", func(b model.Board) (model.Board, error) {
		return mutate.Reorder(b, kind, parentID, from, to)
	})
}

func (e *Editor) Transfer(kind model.Kind, id, fromParentID, toParentID string, toIndex int) error {
	return e.apply("transfer", func(b model.Board) (model.Board, error) {
		return mutate.Transfer(b, kind, id, fromParentID, toParentID, toIndex)
	})
}

// SelectSpeaker links a dialogue to a roster character and prefills its speaker name.
// An empty ref clears the link and keeps the typed speaker.
func (e *Editor) SelectSpeaker(dialogueID, ref string) error {
	patch := mutate.Patch{SpeakerRef: &ref}
	if ref != "" {
		if e.roster == nil {
			return errors.New("no roster configured")
		}
		c, ok := e.roster.Lookup(ref)
		if !ok {
			return fmt.Errorf("character not found: %s", ref)
		}
		patch.Speaker = &c.Name
	}
	return e.Update(model.KindDialogue, dialogueID, patch)
}

// Dragging reports whether a drag is in progress.
func (e *Editor) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.State() == drag.Dragging
}

// DragTarget returns the item being dragged and the current target.
func (e *Editor) DragTarget() (model.Kind, string, drag.Target, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kind, id := e.drag.Item()
	t, ok := e.drag.Target()
	return kind, id, t, ok
}

func (e *Editor) BeginDrag(kind model.Kind, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Start(e.board, kind, id)
}

func (e *Editor) DragOver(candidates ...drag.Target) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Over(candidates...)
}

func (e *Editor) DragLeave() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Leave()
}

// Drop commits the drag against the current committed Board. An aborted drag leaves the
// committed Board as is and returns drag.ErrDragAborted.
func (e *Editor) Drop() (drag.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kind, id := e.drag.Item()
	out, err := e.drag.Drop(e.board)
	if err != nil {
		if errors.Is(err, drag.ErrDragAborted) {
			e.log.Debug("drag aborted", "kind", kind, "id", id)
		}
		return out, err
	}
	if out.Changed {
		e.commitLocked(out.Board)
		e.log.Debug("drag dropped", "kind", kind, "id", id, "to", out.Op.ToParentID, "index", out.Op.ToIndex)
	}
	return out, nil
}

func (e *Editor) CancelDrag() drag.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Cancel()
}

// Save flushes the committed Board immediately.
func (e *Editor) Save(ctx context.Context) error {
	if e.sync == nil {
		return nil
	}
	return e.sync.SaveNow(ctx)
}
