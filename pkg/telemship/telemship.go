package telemship

import (
	"context"
	"fmt"
	"sync"
	"time"

	adapterfs "github.com/bft-labs/telemship/internal/adapters/fs"
	adapterhttp "github.com/bft-labs/telemship/internal/adapters/http"
	"github.com/bft-labs/telemship/internal/app"
	"github.com/bft-labs/telemship/internal/domain"
	"github.com/bft-labs/telemship/internal/ports"
	"github.com/bft-labs/telemship/pkg/log"
)

// DefaultEndpointURL is the default ingestion endpoint for telemetry batches.
const DefaultEndpointURL = adapterhttp.DefaultEndpointURL

// Shipper drains a local queue of serialized telemetry batches and delivers
// them to a remote ingestion endpoint. Use New() to create an instance, then
// Start() to begin shipping.
type Shipper struct {
	config     Config
	opts       options
	lifecycle  *lifecycle
	dispatcher *app.Dispatcher
	queue      ports.Queue
	spool      *adapterfs.Spool
	logger     log.Logger
	backoff    *backoff

	mu  sync.Mutex
	ctx context.Context
}

// New creates a new Shipper with the given configuration.
// The instance is created in StateStopped; call Start() to begin shipping.
// Returns an error if the configuration is invalid.
func New(cfg Config, opts ...Option) (*Shipper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	// Resolve the queue: caller-provided, or a file spool owned by us.
	queue := o.queue
	var spool *adapterfs.Spool
	if queue == nil {
		if cfg.SpoolDir == "" {
			return nil, fmt.Errorf("%w: spool dir is required without a custom queue", domain.ErrInvalidConfig)
		}
		var err error
		spool, err = adapterfs.NewSpool(cfg.SpoolDir, cfg.MaxSpoolFiles)
		if err != nil {
			return nil, err
		}
		queue = spool
	}

	back := newBackoff(cfg.SendInterval, cfg.BackoffMax)
	emitter := &sendEvents{handler: o.eventHandler, backoff: back}

	builder := adapterhttp.NewBuilder(adapterhttp.BuilderConfig{
		EndpointURL:    cfg.EndpointURL,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		Compress:       cfg.Compress,
	}, o.httpClient, logger)

	limiter := app.NewLimiter(cfg.MaxRequests)
	dispatcher := app.NewDispatcher(limiter, builder, logger, emitter, cfg.LogPayloads)
	dispatcher.SetQueue(queue)

	return &Shipper{
		config:     cfg,
		opts:       o,
		lifecycle:  newLifecycle(logger, o.eventHandler),
		dispatcher: dispatcher,
		queue:      queue,
		spool:      spool,
		logger:     logger,
		backoff:    back,
	}, nil
}

// Start begins shipping in the background. It attaches the queue, starts
// the periodic trigger loop and, when the built-in spool is used, the spool
// watcher. Returns ErrAlreadyRunning if the shipper is not stopped.
func (s *Shipper) Start(ctx context.Context) error {
	if err := s.lifecycle.TransitionTo(StateStarting, "start requested"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.SetCancel(cancel)

	s.mu.Lock()
	s.ctx = runCtx
	s.mu.Unlock()

	s.dispatcher.SetQueue(s.queue)

	s.lifecycle.AddWorker()
	go func() {
		defer s.lifecycle.WorkerDone()
		s.runLoop(runCtx)
	}()

	if s.spool != nil && s.config.WatchSpool {
		watcher := newSpoolWatcher(s.spool.Dir(), s.TriggerSending, s.logger)
		s.lifecycle.AddWorker()
		go func() {
			defer s.lifecycle.WorkerDone()
			watcher.Run(runCtx)
		}()
	}

	if err := s.lifecycle.TransitionTo(StateRunning, "startup complete"); err != nil {
		cancel()
		return err
	}

	// Ship whatever is already queued.
	s.dispatcher.TriggerSending(runCtx)

	return nil
}

// Stop shuts the shipper down gracefully: it detaches the queue so every
// pending trigger becomes a no-op, cancels background loops, and waits for
// in-flight sends bounded by ShutdownTimeout.
// Returns ErrNotRunning if the shipper is not running.
func (s *Shipper) Stop() error {
	if err := s.lifecycle.TransitionTo(StateStopping, "stop requested"); err != nil {
		return err
	}

	s.dispatcher.SetQueue(nil)
	s.lifecycle.Cancel()

	waitErr := s.lifecycle.WaitWithTimeout(ShutdownTimeout)

	done := make(chan struct{})
	go func() {
		s.dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(ShutdownTimeout):
		waitErr = domain.ErrShutdownTimeout
	}

	if waitErr != nil {
		if err := s.lifecycle.TransitionTo(StateCrashed, "shutdown timed out"); err != nil {
			return err
		}
		return waitErr
	}

	return s.lifecycle.TransitionTo(StateStopped, "shutdown complete")
}

// Status returns the current lifecycle state.
func (s *Shipper) Status() State {
	return s.lifecycle.State()
}

// TriggerSending starts one asynchronous send cycle, bounded by the
// concurrency cap. It never blocks and never returns an error; at capacity
// the trigger is dropped and a later trigger retries.
func (s *Shipper) TriggerSending() {
	s.dispatcher.TriggerSending(s.runContext())
}

// Enqueue spools a new batch payload and triggers sending. Only available
// with the built-in file spool; with a custom queue, write to the queue
// directly and call TriggerSending.
func (s *Shipper) Enqueue(payload string) (Handle, error) {
	if s.spool == nil {
		return "", fmt.Errorf("telemship: no spool configured, write to the custom queue instead")
	}
	h, err := s.spool.Write(payload)
	if err != nil {
		return "", err
	}
	s.TriggerSending()
	return h, nil
}

// Drain triggers one send cycle and blocks until it and every chained cycle
// has finished. Batches that fail recoverably stay queued.
// Returns the context error if ctx is canceled while waiting.
func (s *Shipper) Drain(ctx context.Context) error {
	s.dispatcher.TriggerSending(ctx)

	done := make(chan struct{})
	go func() {
		s.dispatcher.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight returns the number of transmission attempts currently running.
func (s *Shipper) InFlight() int {
	return s.dispatcher.InFlight()
}

// runLoop drives the periodic trigger. The wait between triggers follows
// the backoff: the configured send interval normally, widened while the
// endpoint keeps failing recoverably.
func (s *Shipper) runLoop(ctx context.Context) {
	timer := time.NewTimer(s.backoff.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.dispatcher.TriggerSending(ctx)
			timer.Reset(s.backoff.Interval())
		}
	}
}

func (s *Shipper) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}
