// Package autosave mirrors the committed Board locally and flushes it to a Writer after a quiet
// period. Writes are serialized; edits made during an in-flight write are carried by exactly one
// follow-up write.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"nameboard/internal/logging"
	"nameboard/internal/model"
)

const DefaultDebounce = time.Second

// Writer persists a full Board. Implementations replace the remote document.
type Writer interface {
	Write(ctx context.Context, b model.Board) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, b model.Board) error

func (f WriterFunc) Write(ctx context.Context, b model.Board) error { return f(ctx, b) }

type timer interface {
	Stop() bool
}

type Options struct {
	Debounce time.Duration
	// WriteTimeout bounds each write, follow-ups included. Zero means no timeout.
	WriteTimeout time.Duration
	Logger       *slog.Logger
	// OnStatus is called after every status change, outside the syncer's lock.
	OnStatus func(Status, error)

	afterFunc func(time.Duration, func()) timer
}

type Syncer struct {
	writer       Writer
	debounce     time.Duration
	writeTimeout time.Duration
	log          *slog.Logger
	onStatus     func(Status, error)
	afterFunc    func(time.Duration, func()) timer

	mu      sync.Mutex
	settled *sync.Cond
	local   model.Board
	dirty   bool
	timer   timer
	gen     uint64
	running bool
	queued  bool
	closed  bool
	status  Status
	lastErr error
}

// New returns a Syncer whose local copy starts as initial, considered saved.
func New(w Writer, initial model.Board, opts Options) *Syncer {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	after := opts.afterFunc
	if after == nil {
		after = func(d time.Duration, f func()) timer { return time.AfterFunc(d, f) }
	}
	s := &Syncer{
		writer:       w,
		debounce:     debounce,
		writeTimeout: opts.WriteTimeout,
		log:          logging.OrNop(opts.Logger),
		onStatus:     opts.OnStatus,
		afterFunc:    after,
		local:        initial,
		status:       Saved,
	}
	s.settled = sync.NewCond(&s.mu)
	return s
}

// Local returns the latest Board handed to Notify.
func (s *Syncer) Local() model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the error of the last failed write, or nil once a later write succeeds.
func (s *Syncer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Notify records b as the latest local state and restarts the quiet-period timer.
func (s *Syncer) Notify(b model.Board) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.local = b
	s.dirty = true
	s.lastErr = nil
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !s.closed {
		g := s.gen
		s.timer = s.afterFunc(s.debounce, func() { s.onTimer(g) })
	}
	emit := s.setStatusLocked(s.currentStatusLocked(), nil)
	s.mu.Unlock()
	emit()
}

func (s *Syncer) onTimer(g uint64) {
	s.mu.Lock()
	if g != s.gen || s.closed {
		// Superseded by a later Notify or SaveNow.
		s.mu.Unlock()
		return
	}
	s.timer = nil
	if s.running {
		s.queued = true
		s.mu.Unlock()
		return
	}
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	_ = s.flushLocked(context.Background())
	s.mu.Unlock()
}

// SaveNow stops any pending timer and writes the current local state immediately, waiting for
// an in-flight write to settle first. It returns nil without writing when nothing is dirty.
func (s *Syncer) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.waitLocked()
	if !s.dirty {
		return nil
	}
	return s.flushLocked(ctx)
}

// Close stops the timer and flushes dirty state once. Later Notify calls only update Local.
func (s *Syncer) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimerLocked()
	s.waitLocked()
	if !s.dirty {
		return nil
	}
	return s.flushLocked(ctx)
}

func (s *Syncer) stopTimerLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Syncer) waitLocked() {
	for s.running {
		s.settled.Wait()
	}
}

// flushLocked writes the local Board, then keeps writing while a timer fired during the write.
// Called and returns with s.mu held; the lock is released around each Write. running stays set
// across follow-up writes so SaveNow and Close wait for the whole chain.
func (s *Syncer) flushLocked(ctx context.Context) error {
	s.running = true
	for {
		board := s.local
		s.dirty = false
		s.queued = false
		emit := s.setStatusLocked(Saving, nil)
		s.mu.Unlock()
		emit()

		wctx, cancel := s.writeContext(ctx)
		err := s.writer.Write(wctx, board)
		cancel()

		s.mu.Lock()
		if err != nil {
			s.dirty = true
			err = &SyncWriteFailedError{Err: err}
			s.lastErr = err
			s.log.Warn("autosave write failed", "error", err)
		} else {
			s.lastErr = nil
			s.log.Debug("autosave write ok")
		}
		again := s.queued && s.dirty
		if !again {
			s.running = false
			s.settled.Broadcast()
		}
		if err != nil {
			emit = s.setStatusLocked(Failed, err)
		} else {
			emit = s.setStatusLocked(s.currentStatusLocked(), nil)
		}
		s.mu.Unlock()
		emit()
		s.mu.Lock()
		if !again {
			return err
		}
	}
}

// writeContext bounds a single write by WriteTimeout.
func (s *Syncer) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.writeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.writeTimeout)
}

func (s *Syncer) currentStatusLocked() Status {
	switch {
	case s.running:
		return Saving
	case s.lastErr != nil:
		return Failed
	case s.dirty:
		return Unsaved
	default:
		return Saved
	}
}

// setStatusLocked records st and returns the callback invocation to run once unlocked.
func (s *Syncer) setStatusLocked(st Status, err error) func() {
	changed := st != s.status || err != nil
	s.status = st
	if !changed || s.onStatus == nil {
		return func() {}
	}
	cb := s.onStatus
	return func() { cb(st, err) }
}
