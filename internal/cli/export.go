package cli

import (
	"fmt"
	"os"
	"strings"

	"nameboard/internal/format"
	"nameboard/internal/publish"
	"nameboard/internal/roster"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		toDir     string
		overwrite bool
		render    bool
		width     int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an episode as a markdown script",
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := loadEpisode(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			r, err := roster.Load(app.store().RosterPath(app.ProjectID))
			if err != nil {
				return writeErr(cmd, err)
			}

			if strings.TrimSpace(toDir) != "" {
				res, err := publish.WriteEpisode(ep, toDir, publish.WriteOptions{Overwrite: overwrite, Roster: r})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeData(cmd, app, res, nil)
			}

			md := publish.RenderEpisodeMarkdown(ep, r)
			out := cmd.OutOrStdout()
			if render || format.IsTerminal(out) {
				md = publish.RenderTerminal(md, width, exportStyle())
			}
			_, err = fmt.Fprint(out, md)
			return err
		},
	}
	cmd.Flags().StringVar(&toDir, "to", "", "Write <to>/<projectId>/<episodeId>.md instead of printing")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&render, "render", false, "Render markdown for the terminal even when not a TTY")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for rendered output")
	return cmd
}

// exportStyle picks the glamour style without querying the terminal.
func exportStyle() string {
	if termenv.EnvNoColor() {
		return "notty"
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("NAMEBOARD_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// COLORFGBG is "fg;bg"; backgrounds 7 and 15 are light.
	if v := os.Getenv("COLORFGBG"); v != "" {
		parts := strings.Split(v, ";")
		switch parts[len(parts)-1] {
		case "7", "15":
			return "light"
		}
	}
	return "dark"
}
