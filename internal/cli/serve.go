package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"nameboard/internal/model"
	"nameboard/internal/web"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr    string
		dataDir string
		token   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve workspace episodes over HTTP and websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.cfg.Server.Addr
			}
			if dataDir == "" {
				dataDir = app.cfg.Server.DataDir
			}
			if dataDir == "" {
				dataDir = app.Dir
			}
			if token == "" {
				token = app.cfg.Server.Token
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:   addr,
				Dir:    dataDir,
				Token:  token,
				Logger: app.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := writeData(cmd, app, map[string]any{
				"addr":    ln.Addr().String(),
				"dir":     dataDir,
				"auth":    token != "",
				"healthz": "http://" + ln.Addr().String() + "/healthz",
			}, nil); err != nil {
				_ = ln.Close()
				return err
			}
			return runServer(ctx, srv, ln, app)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Workspace served (default: server.data_dir, then --dir)")
	cmd.Flags().StringVar(&token, "token", envOr("NAMEBOARD_SERVER_TOKEN", ""), "Require this bearer token")
	return cmd
}

// runServer serves until ctx is done or the server fails.
func runServer(ctx context.Context, srv *web.Server, ln net.Listener, app *App) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		app.log.Info("server stopping", "addr", ln.Addr().String())
		return nil
	})
	return g.Wait()
}

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print save events for an episode from the document server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.remoteClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			eid, err := app.requireEpisode()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var writeErrOnce error
			err = c.Watch(ctx, app.ProjectID, eid, func(ev model.EpisodeEvent) {
				if writeErrOnce != nil {
					return
				}
				if err := writeOut(cmd, app, ev); err != nil {
					writeErrOnce = err
					stop()
				}
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeErrOnce
		},
	}
	return cmd
}
