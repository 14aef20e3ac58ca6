package storage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harsh-0015/freelance-tracker/internal/models"
)

// Opener connects to a storage backend.
type Opener func(ctx context.Context) (Store, error)

// Ensure Supervisor implements Store
var _ Store = (*Supervisor)(nil)

// Supervisor is a Store that connects in the background. Until the first
// successful connection every operation fails with ErrUnavailable, so the
// HTTP server can start serving before the database is reachable.
//
// Failed attempts are retried after a fixed delay, without limit, until the
// context passed to Start is cancelled.
type Supervisor struct {
	open   Opener
	delay  time.Duration
	logger *slog.Logger

	current atomic.Pointer[backend]
	ready   chan struct{}

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

type backend struct {
	store Store
}

// NewSupervisor creates a Supervisor. Call Start to begin connecting.
func NewSupervisor(open Opener, delay time.Duration, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		open:   open,
		delay:  delay,
		logger: logger,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the connection loop. Calling it more than once has no effect.
func (s *Supervisor) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, s.cancel = context.WithCancel(ctx)
		go s.run(ctx)
	})
}

// Ready is closed once a backend has connected.
func (s *Supervisor) Ready() <-chan struct{} {
	return s.ready
}

// Connected reports whether a backend is available.
func (s *Supervisor) Connected() bool {
	return s.current.Load() != nil
}

func (s *Supervisor) run(ctx context.Context) {
	defer close(s.done)

	for attempt := 1; ; attempt++ {
		store, err := s.open(ctx)
		if err == nil {
			s.current.Store(&backend{store: store})
			close(s.ready)
			s.logger.Info("Storage connected", "attempt", attempt)
			return
		}

		s.logger.Error("Storage connection failed",
			"attempt", attempt,
			"retry_in", s.delay.String(),
			"error", err,
		)

		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Storage connection abandoned", "attempts", attempt)
			return
		case <-timer.C:
		}
	}
}

func (s *Supervisor) store() (Store, error) {
	b := s.current.Load()
	if b == nil {
		return nil, ErrUnavailable
	}
	return b.store, nil
}

// Close stops the connection loop and closes the backend if one connected.
func (s *Supervisor) Close() error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	b := s.current.Load()
	if b == nil {
		return nil
	}
	return b.store.Close()
}

func (s *Supervisor) Ping(ctx context.Context) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	return st.Ping(ctx)
}

func (s *Supervisor) CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	return st.CreateTimeEntry(ctx, entry)
}

func (s *Supervisor) GetTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.GetTimeEntry(ctx, id)
}

func (s *Supervisor) GetTimeEntries(ctx context.Context, ids []string) ([]*models.TimeEntry, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.GetTimeEntries(ctx, ids)
}

func (s *Supervisor) ListTimeEntries(ctx context.Context) ([]*models.TimeEntry, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.ListTimeEntries(ctx)
}

func (s *Supervisor) UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	return st.UpdateTimeEntry(ctx, entry)
}

func (s *Supervisor) DeleteTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.DeleteTimeEntry(ctx, id)
}

func (s *Supervisor) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	return st.CreateInvoice(ctx, invoice)
}

func (s *Supervisor) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.GetInvoice(ctx, id)
}

func (s *Supervisor) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.ListInvoices(ctx)
}

func (s *Supervisor) DeleteInvoice(ctx context.Context, id string) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	return st.DeleteInvoice(ctx, id)
}

func (s *Supervisor) CreateClient(ctx context.Context, client *models.Client) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	return st.CreateClient(ctx, client)
}

func (s *Supervisor) GetClient(ctx context.Context, id string) (*models.Client, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.GetClient(ctx, id)
}

func (s *Supervisor) ListClients(ctx context.Context) ([]*models.Client, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.ListClients(ctx)
}

func (s *Supervisor) DeleteClient(ctx context.Context, id string) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	return st.DeleteClient(ctx, id)
}
