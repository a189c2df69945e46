package cli

import (
	"nameboard/internal/model"
	"nameboard/internal/mutate"

	"github.com/spf13/cobra"
)

func newPanelsCmd(app *App) *cobra.Command {
	var push bool

	cmd := &cobra.Command{
		Use:     "panels",
		Aliases: []string{"panel", "p"},
		Short:   "Edit the panels of a group",
	}
	addPushFlag(cmd, &push)

	add := &cobra.Command{
		Use:   "add",
		Short: "Append a panel to a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, _ := cmd.Flags().GetString("group")
			attachment := stringFlag(cmd, "attachment")
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				p, err := s.ed.AddPanel(groupID)
				if err != nil || attachment == nil {
					return p, err
				}
				if err := s.ed.Update(model.KindPanel, p.ID, mutate.Patch{Attachment: attachment}); err != nil {
					return nil, err
				}
				updated, _ := s.ed.Board().FindPanel(p.ID)
				return updated, nil
			})
		},
	}
	add.Flags().String("group", "", "Parent group id")
	add.Flags().String("attachment", "", "Drawing reference (URL)")
	_ = add.MarkFlagRequired("group")

	update := &cobra.Command{
		Use:   "update <panelId>",
		Short: "Change a panel's attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := mutate.Patch{Attachment: stringFlag(cmd, "attachment")}
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				if err := s.ed.Update(model.KindPanel, args[0], patch); err != nil {
					return nil, err
				}
				p, _ := s.ed.Board().FindPanel(args[0])
				return p, nil
			})
		},
	}
	update.Flags().String("attachment", "", "Drawing reference (URL); empty clears it")

	del := &cobra.Command{
		Use:   "delete <panelId>",
		Short: "Delete a panel with its dialogues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				return deleteItem(s, model.KindPanel, args[0])
			})
		},
	}

	move := newMoveCmd(app, &push, model.KindPanel, "groupId")

	cmd.AddCommand(add, update, del, move)
	return cmd
}

func newMoveCmd(app *App, push *bool, kind model.Kind, parentName string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <" + string(kind) + "Id>",
		Short: "Move a " + string(kind) + " within its parent or to another " + string(kind.ParentKind()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetString("to")
			index, _ := cmd.Flags().GetInt("index")
			return mutateEpisode(cmd, app, *push, func(s *session) (any, error) {
				return moveItem(s, kind, args[0], to, index)
			})
		},
	}
	cmd.Flags().String("to", "", "Destination "+parentName+" (default: current parent)")
	cmd.Flags().Int("index", -1, "Target index (default: last)")
	return cmd
}
