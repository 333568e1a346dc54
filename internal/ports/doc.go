// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the application core and the outside
// world. They define what the transmission engine needs from external
// systems without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [Queue]: The durable store of pending telemetry batches
//   - [ConnectionBuilder]: Produces single-use connections to the ingestion endpoint
//   - [Connection]: Transmits one payload and reports the response
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (file system spool, net/http, zerolog, etc.).
package ports
