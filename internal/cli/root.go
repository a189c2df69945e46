package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"nameboard/internal/config"
	"nameboard/internal/format"
	"nameboard/internal/logging"
	"nameboard/internal/remote"
	"nameboard/internal/store"

	"github.com/spf13/cobra"
)

const defaultProjectID = "default"

type App struct {
	Dir        string
	ConfigPath string
	ProjectID  string
	EpisodeID  string
	PrettyJSON bool
	Format     string

	cfg *config.Config
	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "nameboard",
		Short:        "Storyboard editor for episode scripts (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create an episode and open it in the editor
  nameboard episodes create --episode e1 --title "Pilot"
  nameboard edit --episode e1

  # Scriptable edits
  nameboard groups add --episode e1 --label "Cold open"
  nameboard dialogues move <dialogueId> --episode e1 --to <panelId> --index 0

  # Share a workspace over HTTP
  nameboard serve
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand with an episode selected => interactive editor.
			if len(args) == 0 && app.EpisodeID != "" {
				return runEdit(cmd, app, false)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("NAMEBOARD_DIR", ""), "Workspace directory (default: nearest .nameboard, then ~/.nameboard)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("NAMEBOARD_CONFIG", ""), "Config file (default: ./nameboard.toml, then ~/.config/nameboard/config.toml)")
	cmd.PersistentFlags().StringVar(&app.ProjectID, "project", "", "Project id (default: remote.project_id or \"default\")")
	cmd.PersistentFlags().StringVar(&app.EpisodeID, "episode", envOr("NAMEBOARD_EPISODE", ""), "Episode id")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("NAMEBOARD_FORMAT", "json"), "Output format (json|edn|table)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newEpisodesCmd(app))
	cmd.AddCommand(newGroupsCmd(app))
	cmd.AddCommand(newPanelsCmd(app))
	cmd.AddCommand(newDialoguesCmd(app))
	cmd.AddCommand(newDragCmd(app))
	cmd.AddCommand(newRosterCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newEditCmd(app))

	return cmd
}

// load resolves config, workspace and logger. Flags win over config, config over defaults.
func (app *App) load(cmd *cobra.Command) error {
	if !format.Valid(app.Format) {
		return writeErr(cmd, fmt.Errorf("unknown format: %s (expected json|edn|table)", app.Format))
	}
	cfg, _, _, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg

	if app.Dir == "" {
		app.Dir = cfg.Workspace.Dir
	}
	if app.Dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.Dir = d
	} else if app.Dir, err = config.ExpandPath(app.Dir); err != nil {
		return writeErr(cmd, err)
	}

	if app.ProjectID == "" {
		app.ProjectID = cfg.Remote.ProjectID
	}
	if app.ProjectID == "" {
		app.ProjectID = defaultProjectID
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = logger
	return nil
}

func (app *App) store() store.Store {
	return store.Store{Dir: app.Dir}
}

func (app *App) requireEpisode() (string, error) {
	id := strings.TrimSpace(app.EpisodeID)
	if id == "" {
		return "", errors.New("missing --episode")
	}
	return id, nil
}

// remoteClient returns the configured document server client.
func (app *App) remoteClient() (*remote.Client, error) {
	if app.cfg == nil || !app.cfg.RemoteConfigured() {
		return nil, errors.New("no remote configured (set remote.base_url or NAMEBOARD_REMOTE_URL)")
	}
	return remote.New(app.cfg.Remote.BaseURL, app.cfg.Remote.Token, app.cfg.RemoteTimeout()), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// writeData writes the {"data": ...} envelope. Table output renders data directly when it has
// a table form.
func writeData(cmd *cobra.Command, app *App, data any, meta map[string]any) error {
	if strings.EqualFold(app.Format, format.Table) {
		if _, ok := data.(format.Tabular); ok {
			return writeOut(cmd, app, data)
		}
	}
	env := map[string]any{"data": data}
	if len(meta) > 0 {
		env["meta"] = meta
	}
	return writeOut(cmd, app, env)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
