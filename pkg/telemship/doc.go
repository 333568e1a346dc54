// Package telemship provides an embeddable transmission engine for queued
// telemetry batches.
//
// Telemship drains a local spool of serialized telemetry batches and
// delivers them to a remote ingestion endpoint over HTTP, with bounded
// concurrency and retry on transient failure. It runs inside a host
// application and never blocks the caller: every transmission attempt runs
// on its own goroutine.
//
// # Basic Usage
//
// To embed telemship in your application:
//
//	cfg := telemship.DefaultConfig()
//	cfg.SpoolDir = "/var/lib/myapp/telemetry"
//
//	shipper, err := telemship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := shipper.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Producers hand over serialized batches:
//	shipper.Enqueue(`{"name":"startup","time":"..."}` + "\n")
//
//	// ... run until shutdown signal ...
//
//	if err := shipper.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Delivery Semantics
//
// A batch is deleted after the endpoint accepts it (status 200-203) or
// rejects it permanently (any status outside the success and recoverable
// sets). It is returned to the queue after a transport failure or a
// recoverable server condition (408, 429, 500, 503, 511) and resent on a
// later trigger. Delivery is at-least-once and unordered: two in-flight
// batches may complete in either order.
//
// # Triggers
//
// Sending is triggered by the periodic loop, by the spool watcher when a
// new batch file appears, by Enqueue, or manually via
// [Shipper.TriggerSending]. A successful send chains into the next batch,
// so one trigger drains the whole queue. Triggers beyond the concurrency
// cap (default 10) are dropped, not queued.
//
// # Dependency Injection
//
// For testing or custom storage, inject implementations of the external
// dependencies:
//
//	shipper, err := telemship.New(cfg,
//	    telemship.WithHTTPClient(mockClient),
//	    telemship.WithLogger(customLogger),
//	    telemship.WithQueue(myQueue),
//	)
//
// # Lifecycle States
//
// A Shipper can be in one of five states: [StateStopped], [StateStarting],
// [StateRunning], [StateStopping], or [StateCrashed]. Use [Shipper.Status]
// to query the current state.
package telemship
