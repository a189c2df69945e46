package cli

import (
	"context"
	"errors"
	"fmt"

	"nameboard/internal/autosave"
	"nameboard/internal/editor"
	"nameboard/internal/model"
	"nameboard/internal/remote"
	"nameboard/internal/roster"
	"nameboard/internal/store"
)

type sessionOptions struct {
	// push also writes every save to the configured document server.
	push bool
	// onStatus is forwarded to the autosave syncer (the TUI status line).
	onStatus func(autosave.Status, error)
}

// session is one locked editing session over a stored episode.
type session struct {
	app    *App
	st     store.Store
	lock   *store.EpisodeLock
	roster *roster.Roster
	base   model.Episode
	sync   *autosave.Syncer
	ed     *editor.Editor
	pusher *remote.EpisodeWriter
}

func openSession(ctx context.Context, app *App, opt sessionOptions) (*session, error) {
	eid, err := app.requireEpisode()
	if err != nil {
		return nil, err
	}
	st := app.store()
	if err := st.Ensure(); err != nil {
		return nil, err
	}
	lock, err := st.LockEpisode(app.ProjectID, eid)
	if err != nil {
		return nil, err
	}
	s := &session{app: app, st: st, lock: lock}
	ok := false
	defer func() {
		if !ok {
			_ = lock.Unlock()
		}
	}()

	s.base, err = st.LoadEpisode(ctx, app.ProjectID, eid)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("%w (create it with `nameboard episodes create --episode %s`)", err, eid)
		}
		return nil, err
	}
	s.roster, err = roster.Load(st.RosterPath(app.ProjectID))
	if err != nil {
		return nil, err
	}

	local := st.BoardWriter(s.base)
	if opt.push {
		c, err := app.remoteClient()
		if err != nil {
			return nil, err
		}
		s.pusher = c.BoardWriter(s.base)
	}
	w := autosave.WriterFunc(func(ctx context.Context, b model.Board) error {
		if err := local.Write(ctx, b); err != nil {
			return err
		}
		if s.pusher != nil {
			return s.pusher.Write(ctx, b)
		}
		return nil
	})

	s.sync = autosave.New(w, s.base.Board, autosave.Options{
		Debounce:     app.cfg.DebounceInterval(),
		WriteTimeout: app.cfg.RemoteTimeout(),
		Logger:       app.log,
		OnStatus:     opt.onStatus,
	})
	s.ed = editor.New(s.base.Board, editor.Options{
		Roster: s.roster,
		Sync:   s.sync,
		Logger: app.log,
	})
	ok = true
	return s, nil
}

// commit saves the editor's Board and returns the stored episode.
func (s *session) commit(ctx context.Context) (model.Episode, error) {
	if err := s.ed.Save(ctx); err != nil {
		return model.Episode{}, err
	}
	ep, err := s.st.LoadEpisode(ctx, s.base.ProjectID, s.base.ID)
	if err != nil {
		return model.Episode{}, err
	}
	return ep, nil
}

func (s *session) close(ctx context.Context) error {
	var errs []error
	if s.sync != nil {
		errs = append(errs, s.sync.Close(ctx))
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}

// withSession runs fn inside a session and commits its changes.
func withSession(ctx context.Context, app *App, push bool, fn func(*session) (any, error)) (any, model.Episode, error) {
	s, err := openSession(ctx, app, sessionOptions{push: push})
	if err != nil {
		return nil, model.Episode{}, err
	}
	defer s.close(ctx)

	res, err := fn(s)
	if err != nil {
		return nil, model.Episode{}, err
	}
	ep, err := s.commit(ctx)
	if err != nil {
		return nil, model.Episode{}, err
	}
	return res, ep, nil
}
