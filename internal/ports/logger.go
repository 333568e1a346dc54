package ports

import "github.com/bft-labs/telemship/pkg/log"

// Logger is the structured logging abstraction used across the module.
type Logger = log.Logger

// Field is a key-value pair for structured logging.
type Field = log.Field
