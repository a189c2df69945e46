package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"nameboard/internal/format"
	"nameboard/internal/logging"
	"nameboard/internal/tui"

	"github.com/spf13/cobra"
)

const closeTimeout = 30 * time.Second

func newEditCmd(app *App) *cobra.Command {
	var push bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the episode in the interactive board editor",
		Long: `Open the episode in the interactive board editor.

Edits are saved automatically shortly after you stop typing; ctrl+s saves at once.
Logs go to the workspace log file while the editor owns the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, push)
		},
	}
	cmd.Flags().BoolVar(&push, "push", false, "Also save every change to the configured document server")
	return cmd
}

func runEdit(cmd *cobra.Command, app *App, push bool) error {
	if !format.IsTerminal(cmd.OutOrStdout()) {
		return writeErr(cmd, errors.New("edit needs a terminal; use the groups/panels/dialogues commands for scripted edits"))
	}
	logger, err := logging.NewFromConfig(app.cfg, app.store().LogPath())
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = logger

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	sink := tui.NewStatusSink()
	s, err := openSession(ctx, app, sessionOptions{push: push, onStatus: sink.Report})
	if err != nil {
		return writeErr(cmd, err)
	}
	runErr := tui.Run(ctx, tui.Options{
		Editor: s.ed,
		Roster: s.roster,
		Status: sink,
		Title:  title(s),
	})

	// Flush pending edits even when the terminal went away.
	cctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := errors.Join(runErr, s.close(cctx)); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func title(s *session) string {
	t := s.base.Title
	if t == "" {
		t = s.base.ID
	}
	return fmt.Sprintf("%s / %s", s.base.ProjectID, t)
}
