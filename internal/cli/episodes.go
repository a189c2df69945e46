package cli

import (
	"errors"
	"fmt"
	"strings"

	"nameboard/internal/model"
	"nameboard/internal/store"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newEpisodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "episodes",
		Aliases: []string{"episode", "ep"},
		Short:   "List, create and inspect episodes",
	}
	cmd.AddCommand(newEpisodesListCmd(app))
	cmd.AddCommand(newEpisodesCreateCmd(app))
	cmd.AddCommand(newEpisodesShowCmd(app))
	cmd.AddCommand(newEpisodesDeleteCmd(app))
	return cmd
}

func newEpisodesListCmd(app *App) *cobra.Command {
	var fromRemote bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List episodes of the project (most recently edited first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list []model.EpisodeSummary
				err  error
			)
			if fromRemote {
				c, cerr := app.remoteClient()
				if cerr != nil {
					return writeErr(cmd, cerr)
				}
				list, err = c.ListEpisodes(cmd.Context(), app.ProjectID)
			} else {
				list, err = app.store().ListEpisodes(cmd.Context(), app.ProjectID)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, episodeList(list), map[string]any{
				"projectId": app.ProjectID,
				"count":     len(list),
			})
		},
	}
	cmd.Flags().BoolVar(&fromRemote, "remote", false, "List from the configured document server")
	return cmd
}

func newEpisodesCreateCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty episode (uses --episode, or a new id)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(app.EpisodeID)
			if id == "" {
				id = uuid.NewString()
			}
			s := app.store()
			if _, err := s.LoadEpisode(cmd.Context(), app.ProjectID, id); err == nil {
				return writeErr(cmd, fmt.Errorf("episode exists: %s/%s", app.ProjectID, id))
			} else if !store.IsNotFound(err) {
				return writeErr(cmd, err)
			}
			ep, err := s.SaveEpisode(cmd.Context(), model.Episode{
				ID:        id,
				ProjectID: app.ProjectID,
				Title:     strings.TrimSpace(title),
				Board:     model.NewBoard(),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, ep, nil)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Episode title")
	return cmd
}

func newEpisodesShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [episodeId]",
		Short: "Show an episode and its board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				app.EpisodeID = args[0]
			}
			ep, err := loadEpisode(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			meta := map[string]any{
				"groups":    ep.Board.Count(model.KindGroup),
				"panels":    ep.Board.Count(model.KindPanel),
				"dialogues": ep.Board.Count(model.KindDialogue),
			}
			if strings.EqualFold(app.Format, "table") {
				return writeData(cmd, app, boardTable(ep.Board), meta)
			}
			return writeData(cmd, app, ep, meta)
		},
	}
	return cmd
}

func newEpisodesDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an episode from the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			eid, err := app.requireEpisode()
			if err != nil {
				return writeErr(cmd, err)
			}
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			s := app.store()
			lock, err := s.LockEpisode(app.ProjectID, eid)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer lock.Unlock()
			if err := s.DeleteEpisode(cmd.Context(), app.ProjectID, eid); err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, map[string]any{"deleted": eid}, nil)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func loadEpisode(cmd *cobra.Command, app *App) (model.Episode, error) {
	eid, err := app.requireEpisode()
	if err != nil {
		return model.Episode{}, err
	}
	return app.store().LoadEpisode(cmd.Context(), app.ProjectID, eid)
}
