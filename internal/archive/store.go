package archive

import (
	"context"
	"fmt"
)

// Store is the durable sequence of finished or loaded games, addressed by
// 1-based position. Implementations are single-writer; a write must never be
// observable half-applied by a reader.
type Store interface {
	// Len is the number of archived records.
	Len(ctx context.Context) (int, error)

	// Append adds r at the end and returns the new length.
	Append(ctx context.Context, r Record) (int, error)

	// OverwriteAt replaces the record at index in place.
	OverwriteAt(ctx context.Context, index int, r Record) error

	// ReadAt returns the record at index, or ErrNotFound.
	ReadAt(ctx context.Context, index int) (Record, error)

	// ReadLast returns the newest record, or ErrEmpty.
	ReadLast(ctx context.Context) (Record, error)
}

// Save stores r at its game number: overwriting an existing entry, or
// appending when it is exactly one beyond the end.
func Save(ctx context.Context, s Store, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	n, err := s.Len(ctx)
	if err != nil {
		return err
	}
	switch {
	case r.GameNumber <= n:
		return s.OverwriteAt(ctx, r.GameNumber, r)
	case r.GameNumber == n+1:
		_, err := s.Append(ctx, r)
		return err
	default:
		return fmt.Errorf("archive: game %d would leave a gap after %d records", r.GameNumber, n)
	}
}
