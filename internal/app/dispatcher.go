package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/telemship/internal/domain"
	"github.com/bft-labs/telemship/internal/ports"
	"github.com/bft-labs/telemship/pkg/log"
)

// Dispatcher drains the batch queue. Each trigger runs one fetch, send,
// classify, act cycle on its own goroutine; successful sends chain into a
// fresh trigger so one external trigger can drain an arbitrarily deep queue.
//
// The queue reference is optional: when it is absent (never set, or cleared
// because its owner shut down) every trigger degrades to a silent no-op.
// Nothing the dispatcher does ever surfaces an error to the trigger caller.
type Dispatcher struct {
	limiter     *Limiter
	builder     ports.ConnectionBuilder
	logger      log.Logger
	emitter     SendEventEmitter
	logPayloads bool

	mu    sync.RWMutex
	queue ports.Queue

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher. The queue is set separately via
// SetQueue because its lifetime is owned by the caller, not the dispatcher.
func NewDispatcher(limiter *Limiter, builder ports.ConnectionBuilder, logger log.Logger, emitter SendEventEmitter, logPayloads bool) *Dispatcher {
	return &Dispatcher{
		limiter:     limiter,
		builder:     builder,
		logger:      logger,
		emitter:     emitter,
		logPayloads: logPayloads,
	}
}

// SetQueue sets or replaces the queue reference. Passing nil detaches the
// dispatcher from the queue and turns subsequent triggers into no-ops.
func (d *Dispatcher) SetQueue(q ports.Queue) {
	d.mu.Lock()
	d.queue = q
	d.mu.Unlock()
}

// Queue returns the current queue reference, or nil when detached.
func (d *Dispatcher) Queue() ports.Queue {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.queue
}

// InFlight returns the number of transmission attempts currently reserved.
func (d *Dispatcher) InFlight() int {
	return d.limiter.Count()
}

// TriggerSending starts one asynchronous send cycle if the concurrency cap
// allows it. At capacity the trigger is dropped, not queued; the next
// external trigger will try again.
func (d *Dispatcher) TriggerSending(ctx context.Context) {
	if d.limiter.AtCapacity() {
		d.logger.Debug("concurrency cap reached, not sending",
			log.Int("in_flight", d.limiter.Count()),
			log.Int("cap", d.limiter.Capacity()),
		)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sendAvailable(ctx)
	}()
}

// Wait blocks until every send cycle spawned so far (including chained
// cycles) has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// sendAvailable runs one full cycle: claim the next batch, load its payload,
// build a connection, and send.
func (d *Dispatcher) sendAvailable(ctx context.Context) {
	q := d.Queue()
	if q == nil {
		return
	}

	handle, ok := q.NextAvailable()
	if !ok {
		return
	}

	payload, err := q.Load(handle)
	if err != nil {
		// Read failure may be transient; put the batch back.
		d.logger.Debug("failed to load batch, requeueing",
			log.String("batch", handle.String()),
			log.Err(err),
		)
		if err := q.MakeAvailable(handle); err != nil {
			d.logger.Debug("failed to requeue batch", log.Err(err))
		}
		return
	}

	if payload == "" {
		// Zero-length persisted data is corrupt or stale; retrying cannot
		// fix it.
		d.logger.Debug("deleting empty batch", log.String("batch", handle.String()))
		if err := q.Delete(handle); err != nil {
			d.logger.Debug("failed to delete batch", log.Err(err))
		}
		return
	}

	conn := d.builder.Build()
	if conn == nil {
		d.logger.Debug("could not build connection, leaving batch queued",
			log.String("batch", handle.String()),
		)
		if err := q.MakeAvailable(handle); err != nil {
			d.logger.Debug("failed to requeue batch", log.Err(err))
		}
		return
	}

	d.send(ctx, conn, handle, payload)
}

// send transmits one payload and routes the result. The concurrency slot is
// reserved here and released exactly once: either on transport failure or on
// entry to response handling.
func (d *Dispatcher) send(ctx context.Context, conn ports.Connection, handle domain.Handle, payload string) {
	if d.logPayloads {
		d.logger.Debug("sending payload", log.String("payload", payload))
	}

	d.limiter.Reserve()

	result, err := conn.Send(ctx, payload)
	if err != nil {
		d.limiter.Release()
		// Probably offline; resend on a future trigger.
		d.logger.Debug("transport failure, requeueing batch",
			log.String("batch", handle.String()),
			log.Err(err),
		)
		if q := d.Queue(); q != nil {
			if err := q.MakeAvailable(handle); err != nil {
				d.logger.Debug("failed to requeue batch", log.Err(err))
			}
		}
		if d.emitter != nil {
			d.emitter.OnSendError(err, true)
		}
		return
	}

	d.onResponse(ctx, handle, len(payload), result)
}

// onResponse applies the queue action for a classified response and chains
// into another cycle on success.
func (d *Dispatcher) onResponse(ctx context.Context, handle domain.Handle, bytesSent int, result ports.TransmitResult) {
	d.limiter.Release()

	outcome := domain.Classify(result.Status)
	d.logger.Debug("response received",
		log.Int("status", result.Status),
		log.String("outcome", outcome.String()),
	)

	q := d.Queue()
	if q == nil {
		return
	}

	switch outcome {
	case domain.OutcomeSuccess:
		if err := q.Delete(handle); err != nil {
			d.logger.Debug("failed to delete batch", log.Err(err))
		}
		if result.Body != "" {
			d.logger.Debug("server response", log.String("body", result.Body))
		}
		if d.emitter != nil {
			d.emitter.OnSendSuccess(result.Status, bytesSent)
		}
		// Keep draining until the queue is empty.
		d.TriggerSending(ctx)

	case domain.OutcomeRecoverable:
		d.logger.Debug("recoverable server condition, requeueing batch",
			log.Int("status", result.Status),
			log.String("batch", handle.String()),
		)
		if err := q.MakeAvailable(handle); err != nil {
			d.logger.Debug("failed to requeue batch", log.Err(err))
		}
		if d.emitter != nil {
			d.emitter.OnSendError(fmt.Errorf("server returned %d", result.Status), true)
		}

	case domain.OutcomeUnexpected:
		if err := q.Delete(handle); err != nil {
			d.logger.Debug("failed to delete batch", log.Err(err))
		}
		d.logger.Error("unexpected response, dropping batch",
			log.Int("status", result.Status),
			log.String("batch", handle.String()),
			log.String("body", result.Body),
		)
		if d.emitter != nil {
			d.emitter.OnSendError(fmt.Errorf("server returned %d: %s", result.Status, result.Body), false)
		}
	}
}
