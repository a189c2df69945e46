package drag

import (
	"fmt"
	"strings"

	"nameboard/internal/model"
)

// TargetKind orders candidate targets by precedence: items beat drop zones beat containers.
type TargetKind int

const (
	TargetItem TargetKind = iota
	TargetDropZone
	TargetContainer
)

func (k TargetKind) String() string {
	switch k {
	case TargetItem:
		return "item"
	case TargetDropZone:
		return "zone"
	case TargetContainer:
		return "container"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target is one droppable region under the pointer.
// For item targets ID is the hovered item; otherwise ID is the parent that would receive the item
// ("" is the board itself, valid only when dragging groups).
type Target struct {
	Kind     TargetKind
	ItemKind model.Kind
	ID       string
}

// ItemTarget is a hovered sibling of the same kind; the dragged item lands adjacent to it.
func ItemTarget(kind model.Kind, id string) Target {
	return Target{Kind: TargetItem, ItemKind: kind, ID: id}
}

// DropZoneTarget is the placeholder rendered inside a parent (typically an empty one).
func DropZoneTarget(parentID string) Target {
	return Target{Kind: TargetDropZone, ID: parentID}
}

// ContainerTarget is the body of a parent container.
func ContainerTarget(parentID string) Target {
	return Target{Kind: TargetContainer, ID: parentID}
}

func (t Target) String() string {
	if t.Kind == TargetItem {
		return fmt.Sprintf("item:%s:%s", t.ItemKind, t.ID)
	}
	return fmt.Sprintf("%s:%s", t.Kind, t.ID)
}

// ParseTarget reads the CLI form of a target: "item:<id>", "zone:<parentID>" or
// "container:<parentID>". Item targets take the kind of the dragged item.
func ParseTarget(kind model.Kind, s string) (Target, error) {
	prefix, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Target{}, fmt.Errorf("invalid target %q (expected item:<id>, zone:<parent> or container:<parent>)", s)
	}
	switch strings.ToLower(prefix) {
	case "item", "i":
		if id == "" {
			return Target{}, fmt.Errorf("invalid target %q: missing item id", s)
		}
		return ItemTarget(kind, id), nil
	case "zone", "dropzone", "z":
		return DropZoneTarget(id), nil
	case "container", "c":
		return ContainerTarget(id), nil
	default:
		return Target{}, fmt.Errorf("invalid target kind %q", prefix)
	}
}
