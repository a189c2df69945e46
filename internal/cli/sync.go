package cli

import (
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy episodes between the workspace and the document server",
	}

	push := &cobra.Command{
		Use:   "push",
		Short: "Replace the server's copy with the local episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.remoteClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			ep, err := loadEpisode(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			saved, err := c.PutEpisode(cmd.Context(), ep)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, saved.Summary(), map[string]any{"direction": "push"})
		},
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Replace the local episode with the server's copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.remoteClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			eid, err := app.requireEpisode()
			if err != nil {
				return writeErr(cmd, err)
			}
			s := app.store()
			lock, err := s.LockEpisode(app.ProjectID, eid)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer lock.Unlock()

			ep, err := c.GetEpisode(cmd.Context(), app.ProjectID, eid)
			if err != nil {
				return writeErr(cmd, err)
			}
			saved, err := s.SaveEpisode(cmd.Context(), ep)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, saved.Summary(), map[string]any{"direction": "pull"})
		},
	}

	cmd.AddCommand(push, pull)
	return cmd
}
