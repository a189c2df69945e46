package mutate

import "nameboard/internal/model"

// Copy-on-write helpers. Every helper returns a freshly allocated slice and never writes to its
// input, so slices reachable from a published Board can be shared by later Boards.

func replaceAt[T any](s []T, i int, v T) []T {
	out := make([]T, len(s))
	copy(out, s)
	out[i] = v
	return out
}

func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	out = append(out, s[i:]...)
	return out
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// moveWithin moves s[from] to position to (arrayMove semantics).
func moveWithin[T any](s []T, from, to int) []T {
	v := s[from]
	return insertAt(removeAt(s, from), to, v)
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

func withGroup(b model.Board, gi int, fn func(model.Group) model.Group) model.Board {
	return model.Board{Groups: replaceAt(b.Groups, gi, fn(b.Groups[gi]))}
}

func withPanels(b model.Board, gi int, fn func([]model.Panel) []model.Panel) model.Board {
	return withGroup(b, gi, func(g model.Group) model.Group {
		g.Panels = fn(g.Panels)
		return g
	})
}

func withPanel(b model.Board, gi, pi int, fn func(model.Panel) model.Panel) model.Board {
	return withPanels(b, gi, func(ps []model.Panel) []model.Panel {
		return replaceAt(ps, pi, fn(ps[pi]))
	})
}

func withDialogues(b model.Board, gi, pi int, fn func([]model.Dialogue) []model.Dialogue) model.Board {
	return withPanel(b, gi, pi, func(p model.Panel) model.Panel {
		p.Dialogues = fn(p.Dialogues)
		return p
	})
}
