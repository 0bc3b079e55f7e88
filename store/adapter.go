// Package store provides persistence backends for conversation transcripts.
package store

import (
	"context"

	"github.com/troupe-dev/troupe"
)

// Adapter is the persistence boundary for recorded messages.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Append adds messages to the end of the transcript.
	Append(ctx context.Context, msgs ...troupe.Message) error

	// Load returns the full transcript in insertion order.
	Load(ctx context.Context) ([]troupe.Message, error)

	// Len reports the number of stored messages.
	Len(ctx context.Context) (int, error)

	// Clear removes the whole transcript.
	Clear(ctx context.Context) error
}
