package cli

import (
	"nameboard/internal/model"
	"nameboard/internal/mutate"

	"github.com/spf13/cobra"
)

func newDialoguesCmd(app *App) *cobra.Command {
	var push bool

	cmd := &cobra.Command{
		Use:     "dialogues",
		Aliases: []string{"dialogue", "d"},
		Short:   "Edit the dialogue lines of a panel",
	}
	addPushFlag(cmd, &push)

	contentPatch := func(cmd *cobra.Command) mutate.Patch {
		return mutate.Patch{
			Speaker: stringFlag(cmd, "speaker"),
			Text:    stringFlag(cmd, "text"),
			Note:    stringFlag(cmd, "note"),
		}
	}
	contentFlags := func(cmd *cobra.Command) {
		cmd.Flags().String("speaker", "", "Speaker name")
		cmd.Flags().String("text", "", "Dialogue line")
		cmd.Flags().String("note", "", "Direction note")
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Append a dialogue to a panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			panelID, _ := cmd.Flags().GetString("panel")
			patch := contentPatch(cmd)
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				d, err := s.ed.AddDialogue(panelID)
				if err != nil || patch.IsEmpty() {
					return d, err
				}
				if err := s.ed.Update(model.KindDialogue, d.ID, patch); err != nil {
					return nil, err
				}
				updated, _ := s.ed.Board().FindDialogue(d.ID)
				return updated, nil
			})
		},
	}
	add.Flags().String("panel", "", "Parent panel id")
	_ = add.MarkFlagRequired("panel")
	contentFlags(add)

	update := &cobra.Command{
		Use:   "update <dialogueId>",
		Short: "Change speaker, text or note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := contentPatch(cmd)
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				if err := s.ed.Update(model.KindDialogue, args[0], patch); err != nil {
					return nil, err
				}
				d, _ := s.ed.Board().FindDialogue(args[0])
				return d, nil
			})
		},
	}
	contentFlags(update)

	speaker := &cobra.Command{
		Use:   "speaker <dialogueId> [characterId]",
		Short: "Link a dialogue to a roster character (no id clears the link)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 2 {
				ref = args[1]
			}
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				if err := s.ed.SelectSpeaker(args[0], ref); err != nil {
					return nil, err
				}
				d, _ := s.ed.Board().FindDialogue(args[0])
				return d, nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <dialogueId>",
		Short: "Delete a dialogue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				return deleteItem(s, model.KindDialogue, args[0])
			})
		},
	}

	move := newMoveCmd(app, &push, model.KindDialogue, "panelId")

	cmd.AddCommand(add, update, speaker, del, move)
	return cmd
}
