package db

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CopyRow is a row that knows its own COPY column values for a run.
type CopyRow interface {
	CopyValues(runID uuid.UUID) []any
}

// ChannelSource implements pgx.CopyFromSource by reading rows from a channel.
// This provides natural backpressure between the producer and the COPY writer.
type ChannelSource[T CopyRow] struct {
	runID   uuid.UUID
	ch      <-chan T
	current T
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource[T CopyRow](runID uuid.UUID, ch <-chan T) *ChannelSource[T] {
	return &ChannelSource[T]{runID: runID, ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[T]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[T]) Values() ([]any, error) {
	return s.current.CopyValues(s.runID), nil
}

// Err returns any error encountered during iteration.
func (s *ChannelSource[T]) Err() error {
	return s.err
}

var _ pgx.CopyFromSource = (*ChannelSource[*llmRow])(nil)
