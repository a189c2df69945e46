package cli

import (
	"errors"
	"os"

	"nameboard/internal/config"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var sampleConfig bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the local workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.store()
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			// Opening the project list creates and migrates the database.
			projects, err := s.ListProjects(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			data := map[string]any{
				"dir":      app.Dir,
				"projects": projects,
			}
			if sampleConfig {
				path := app.ConfigPath
				if path == "" {
					if path, err = config.DefaultConfigPath(); err != nil {
						return writeErr(cmd, err)
					}
				}
				if _, err := os.Stat(path); err == nil {
					return writeErr(cmd, errors.New("config exists: "+path))
				}
				if err := config.CreateSample(path); err != nil {
					return writeErr(cmd, err)
				}
				data["config"] = path
			}
			return writeData(cmd, app, data, nil)
		},
	}
	cmd.Flags().BoolVar(&sampleConfig, "sample-config", false, "Also write a commented sample config file")
	return cmd
}
