// Package queries contains read operations for retrieving order state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models for specific use cases and never write.
package queries

import (
	"cardorders/internal/core/ports"
)

type (
	// Reader exposes repositories outside of any transaction. Every query
	// re-reads the store; nothing is cached.
	Reader interface {
		OrderRepository() ports.OrderRepository
		OrderEventRepository() ports.OrderEventRepository
	}

	// ReaderFactory creates a Reader per query.
	ReaderFactory interface {
		Create() Reader
	}
)
