package cli

import (
	"fmt"

	"nameboard/internal/model"

	"github.com/spf13/cobra"
)

// mutateEpisode applies fn to the episode's board in a locked session and prints its result.
func mutateEpisode(cmd *cobra.Command, app *App, push bool, fn func(*session) (any, error)) error {
	res, ep, err := withSession(cmd.Context(), app, push, fn)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeData(cmd, app, res, map[string]any{
		"projectId":  ep.ProjectID,
		"episodeId":  ep.ID,
		"lastEdited": ep.LastEdited,
	})
}

func addPushFlag(cmd *cobra.Command, push *bool) {
	cmd.PersistentFlags().BoolVar(push, "push", false, "Also write the episode to the configured document server")
}

// stringFlag returns a pointer to the flag's value when it was set on the command line.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// moveItem moves id under toParent at index; an empty toParent keeps the current parent and a
// negative index means last.
func moveItem(s *session, kind model.Kind, id, toParent string, index int) (map[string]any, error) {
	b := s.ed.Board()
	from, fromIndex, ok := b.Locate(kind, id)
	if !ok {
		return nil, fmt.Errorf("%s not found: %s", kind, id)
	}
	if toParent == "" {
		toParent = from
	}
	if index < 0 {
		ids, _ := b.ChildIDs(kind, toParent)
		index = len(ids)
	}
	if err := s.ed.Transfer(kind, id, from, toParent, index); err != nil {
		return nil, err
	}
	parent, at, _ := s.ed.Board().Locate(kind, id)
	return map[string]any{
		"kind":         kind,
		"id":           id,
		"fromParentId": from,
		"fromIndex":    fromIndex,
		"parentId":     parent,
		"index":        at,
	}, nil
}

func deleteItem(s *session, kind model.Kind, id string) (map[string]any, error) {
	if err := s.ed.Delete(kind, id); err != nil {
		return nil, err
	}
	return map[string]any{"kind": kind, "deleted": id}, nil
}
