// Package drag implements drag-and-drop reordering and cross-parent transfer over a Board.
//
// While a drag is active the engine owns a speculative Board that reflects the item's
// tentative position; the committed Board is never touched until Drop.
package drag

import (
	"errors"
	"fmt"
	"slices"

	"nameboard/internal/model"
	"nameboard/internal/mutate"
)

type State int

const (
	Idle State = iota
	Dragging
	Cancelled
	Dropped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Cancelled:
		return "cancelled"
	case Dropped:
		return "dropped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrDragAborted means the dragged item or its destination disappeared before the drop.
	ErrDragAborted = errors.New("drag aborted: item or target no longer exists")
	ErrNotDragging = errors.New("no drag in progress")
	ErrDragging    = errors.New("a drag is already in progress")
)

// Op describes a committed drop.
type Op struct {
	Kind         model.Kind
	ID           string
	FromParentID string
	FromIndex    int
	ToParentID   string
	ToIndex      int
}

type Outcome struct {
	State   State
	Board   model.Board
	Changed bool
	Op      Op
}

// placement is a position expressed independently of indices: the parent and the sibling the
// item sits before ("" means last).
type placement struct {
	parentID string
	beforeID string
}

// Engine is a single drag session state machine. It is not safe for concurrent use;
// callers serialize access (see editor.Editor).
type Engine struct {
	state    State
	kind     model.Kind
	id       string
	originID string

	committed   model.Board
	speculative model.Board

	target    Target
	hasTarget bool
}

func New() *Engine { return &Engine{} }

func (e *Engine) State() State { return e.state }

// Item returns the kind and id being dragged.
func (e *Engine) Item() (model.Kind, string) { return e.kind, e.id }

// Origin returns the parent the item was dragged from.
func (e *Engine) Origin() string { return e.originID }

// Target returns the currently accepted target.
func (e *Engine) Target() (Target, bool) { return e.target, e.hasTarget }

// Speculative returns the Board as it would look if the item were dropped now.
// Outside a drag it is the zero Board.
func (e *Engine) Speculative() model.Board { return e.speculative }

// Start begins dragging the identified item from the committed Board.
func (e *Engine) Start(committed model.Board, kind model.Kind, id string) error {
	if e.state == Dragging {
		return ErrDragging
	}
	parentID, _, ok := committed.Locate(kind, id)
	if !ok {
		return mutate.ItemNotFoundError{Kind: kind, ID: id}
	}
	*e = Engine{
		state:       Dragging,
		kind:        kind,
		id:          id,
		originID:    parentID,
		committed:   committed,
		speculative: committed,
	}
	return nil
}

// Over reports the droppable regions currently under the pointer. The highest-precedence valid
// candidate becomes the target and the speculative Board is recomputed from it. When nothing
// is valid the target is cleared and the speculative Board returns to the committed one.
func (e *Engine) Over(candidates ...Target) error {
	if e.state != Dragging {
		return ErrNotDragging
	}
	t, ok := e.pick(candidates)
	if !ok {
		e.clearTarget()
		return nil
	}
	// Over fires continuously; the current target has already been applied.
	if e.hasTarget && t == e.target {
		return nil
	}
	next, err := e.apply(e.speculative, t)
	if err != nil {
		return err
	}
	e.speculative = next
	e.target = t
	e.hasTarget = true
	return nil
}

// Leave clears the target; a drop without a new Over cancels.
func (e *Engine) Leave() error {
	if e.state != Dragging {
		return ErrNotDragging
	}
	e.clearTarget()
	return nil
}

func (e *Engine) clearTarget() {
	e.target = Target{}
	e.hasTarget = false
	e.speculative = e.committed
}

// Cancel abandons the drag. The committed Board is unchanged.
func (e *Engine) Cancel() Outcome {
	if e.state != Dragging {
		return Outcome{State: Cancelled}
	}
	e.reset()
	return Outcome{State: Cancelled}
}

// Drop commits the speculative placement against current, which may differ from the Board the
// drag started with. Placement is carried as (parent, following sibling) and resolved to indices
// against current, so concurrent edits to siblings do not misplace the item.
func (e *Engine) Drop(current model.Board) (Outcome, error) {
	if e.state != Dragging {
		return Outcome{State: Cancelled}, ErrNotDragging
	}
	defer e.reset()

	if !e.hasTarget {
		return Outcome{State: Cancelled, Board: current}, nil
	}
	pl, ok := e.placementOf(e.speculative)
	if !ok {
		return Outcome{State: Cancelled, Board: current}, ErrDragAborted
	}
	fromParent, fromIndex, ok := current.Locate(e.kind, e.id)
	if !ok || !current.HasParent(e.kind, pl.parentID) {
		return Outcome{State: Cancelled, Board: current}, ErrDragAborted
	}

	siblings, _ := current.ChildIDs(e.kind, pl.parentID)
	siblings = slices.DeleteFunc(siblings, func(id string) bool { return id == e.id })
	toIndex := len(siblings)
	if pl.beforeID != "" {
		if i := slices.Index(siblings, pl.beforeID); i >= 0 {
			toIndex = i
		}
	}

	op := Op{
		Kind:         e.kind,
		ID:           e.id,
		FromParentID: fromParent,
		FromIndex:    fromIndex,
		ToParentID:   pl.parentID,
		ToIndex:      toIndex,
	}
	if fromParent == pl.parentID && fromIndex == toIndex {
		return Outcome{State: Dropped, Board: current, Op: op}, nil
	}
	next, err := mutate.Transfer(current, e.kind, e.id, fromParent, pl.parentID, toIndex)
	if err != nil {
		if mutate.IsNotFound(err) {
			return Outcome{State: Cancelled, Board: current}, ErrDragAborted
		}
		return Outcome{State: Cancelled, Board: current}, err
	}
	return Outcome{State: Dropped, Board: next, Changed: true, Op: op}, nil
}

func (e *Engine) reset() {
	*e = Engine{state: Idle}
}

// placementOf derives where the dragged item currently sits in b.
func (e *Engine) placementOf(b model.Board) (placement, bool) {
	parentID, idx, ok := b.Locate(e.kind, e.id)
	if !ok {
		return placement{}, false
	}
	siblings, _ := b.ChildIDs(e.kind, parentID)
	pl := placement{parentID: parentID}
	if idx+1 < len(siblings) {
		pl.beforeID = siblings[idx+1]
	}
	return pl, true
}

func (e *Engine) pick(candidates []Target) (Target, bool) {
	for _, want := range []TargetKind{TargetItem, TargetDropZone, TargetContainer} {
		for _, c := range candidates {
			if c.Kind == want && e.valid(c) {
				return c, true
			}
		}
	}
	return Target{}, false
}

func (e *Engine) valid(t Target) bool {
	switch t.Kind {
	case TargetItem:
		if t.ItemKind != e.kind {
			return false
		}
		_, _, ok := e.speculative.Locate(e.kind, t.ID)
		return ok
	case TargetDropZone, TargetContainer:
		return e.speculative.HasParent(e.kind, t.ID)
	}
	return false
}

// apply moves the dragged item within b according to t. The item's position is always looked
// up in b rather than tracked separately.
func (e *Engine) apply(b model.Board, t Target) (model.Board, error) {
	srcParent, srcIndex, ok := b.Locate(e.kind, e.id)
	if !ok {
		return b, mutate.ItemNotFoundError{Kind: e.kind, ID: e.id}
	}
	switch t.Kind {
	case TargetItem:
		if t.ID == e.id {
			return b, nil
		}
		overParent, overIndex, _ := b.Locate(e.kind, t.ID)
		if overParent == srcParent {
			return mutate.Reorder(b, e.kind, srcParent, srcIndex, overIndex)
		}
		return mutate.Transfer(b, e.kind, e.id, srcParent, overParent, overIndex)
	case TargetDropZone:
		ids, _ := b.ChildIDs(e.kind, t.ID)
		if t.ID == srcParent {
			return mutate.Reorder(b, e.kind, srcParent, srcIndex, len(ids)-1)
		}
		return mutate.Transfer(b, e.kind, e.id, srcParent, t.ID, len(ids))
	default:
		if t.ID == srcParent {
			return b, nil
		}
		ids, _ := b.ChildIDs(e.kind, t.ID)
		return mutate.Transfer(b, e.kind, e.id, srcParent, t.ID, len(ids))
	}
}
