package cli

import (
	"nameboard/internal/model"
	"nameboard/internal/mutate"

	"github.com/spf13/cobra"
)

func newGroupsCmd(app *App) *cobra.Command {
	var push bool

	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group", "g"},
		Short:   "Edit the scene groups of an episode",
	}
	addPushFlag(cmd, &push)

	add := &cobra.Command{
		Use:   "add",
		Short: "Append a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			label, _ := cmd.Flags().GetString("label")
			class, _ := cmd.Flags().GetString("classification")
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				return s.ed.AddGroup(label, class)
			})
		},
	}
	add.Flags().String("label", "", "Group label")
	add.Flags().String("classification", "", "Classification (e.g. Intro)")

	update := &cobra.Command{
		Use:   "update <groupId>",
		Short: "Change label, classification or tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := mutate.Patch{
				Label:          stringFlag(cmd, "label"),
				Classification: stringFlag(cmd, "classification"),
			}
			if cmd.Flags().Changed("tags") {
				tags, _ := cmd.Flags().GetStringSlice("tags")
				patch.Tags = &tags
			}
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				if err := s.ed.Update(model.KindGroup, args[0], patch); err != nil {
					return nil, err
				}
				g, _ := s.ed.Board().FindGroup(args[0])
				return g, nil
			})
		},
	}
	update.Flags().String("label", "", "Group label")
	update.Flags().String("classification", "", "Classification")
	update.Flags().StringSlice("tags", nil, "Replace tags (comma separated)")

	tag := &cobra.Command{
		Use:   "tag <groupId> <tag>",
		Short: "Toggle a tag on a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				if err := s.ed.ToggleTag(args[0], args[1]); err != nil {
					return nil, err
				}
				g, _ := s.ed.Board().FindGroup(args[0])
				return g, nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <groupId>",
		Short: "Delete a group with its panels and dialogues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				return deleteItem(s, model.KindGroup, args[0])
			})
		},
	}

	reorder := &cobra.Command{
		Use:   "reorder <groupId>",
		Short: "Move a group to another position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetInt("index")
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				return moveItem(s, model.KindGroup, args[0], "", index)
			})
		},
	}
	reorder.Flags().Int("index", -1, "Target index (default: last)")

	cmd.AddCommand(add, update, tag, del, reorder)
	return cmd
}
