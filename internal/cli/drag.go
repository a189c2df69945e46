package cli

import (
	"errors"
	"strings"

	"nameboard/internal/drag"
	"nameboard/internal/model"

	"github.com/spf13/cobra"
)

func newDragCmd(app *App) *cobra.Command {
	var (
		push   bool
		over   []string
		leave  bool
		cancel bool
	)

	cmd := &cobra.Command{
		Use:   "drag <kind> <id>",
		Short: "Replay a drag-and-drop of a group, panel or dialogue",
		Long: strings.TrimSpace(`
Each --over is one hover step; separate simultaneous candidates with commas.
Targets: item:<id>, zone:<parentId>, container:<parentId>.
Items win over zones, zones over containers. See: nameboard docs drag
`),
		Example: "  nameboard drag dialogue D2 --episode e1 --over item:D5 --over zone:P3",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			steps := make([][]drag.Target, 0, len(over))
			for _, step := range over {
				var candidates []drag.Target
				for _, raw := range strings.Split(step, ",") {
					if strings.TrimSpace(raw) == "" {
						continue
					}
					t, err := drag.ParseTarget(kind, raw)
					if err != nil {
						return writeErr(cmd, err)
					}
					candidates = append(candidates, t)
				}
				steps = append(steps, candidates)
			}

			return mutateEpisode(cmd, app, push, func(s *session) (any, error) {
				if err := s.ed.BeginDrag(kind, args[1]); err != nil {
					return nil, err
				}
				for _, candidates := range steps {
					if err := s.ed.DragOver(candidates...); err != nil {
						s.ed.CancelDrag()
						return nil, err
					}
				}
				if leave {
					if err := s.ed.DragLeave(); err != nil {
						return nil, err
					}
				}
				_, _, target, hasTarget := s.ed.DragTarget()
				if cancel {
					out := s.ed.CancelDrag()
					return dragResult(out, kind, args[1], target, hasTarget), nil
				}
				out, err := s.ed.Drop()
				if err != nil && !errors.Is(err, drag.ErrDragAborted) {
					return nil, err
				}
				res := dragResult(out, kind, args[1], target, hasTarget)
				if err != nil {
					res["error"] = err.Error()
				}
				return res, nil
			})
		},
	}
	addPushFlag(cmd, &push)
	cmd.Flags().StringArrayVar(&over, "over", nil, "Hover step: target[,target...] (repeatable)")
	cmd.Flags().BoolVar(&leave, "leave", false, "Leave all targets before dropping (the drop is then cancelled)")
	cmd.Flags().BoolVar(&cancel, "cancel", false, "Cancel instead of dropping")
	return cmd
}

func dragResult(out drag.Outcome, kind model.Kind, id string, target drag.Target, hasTarget bool) map[string]any {
	res := map[string]any{
		"kind":    kind,
		"id":      id,
		"state":   out.State.String(),
		"changed": out.Changed,
	}
	if hasTarget {
		res["target"] = target.String()
	}
	if out.State == drag.Dropped {
		res["from"] = map[string]any{"parentId": out.Op.FromParentID, "index": out.Op.FromIndex}
		res["to"] = map[string]any{"parentId": out.Op.ToParentID, "index": out.Op.ToIndex}
	}
	return res
}
