// internal/players/sql.go
//
// SQLite implementation of the player Store.
// Round word sets are stored as JSON arrays; every Upsert runs in its own
// transaction so a read-modify-write never interleaves with another writer.

package players

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLStore keeps player stats in the players table.
type SQLStore struct{ db *sql.DB }

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q querier, id string) (Stat, error) {
	var (
		s            = Stat{ID: id}
		found, hints string
	)
	err := q.QueryRowContext(ctx,
		`SELECT role, found_words, used_hints, all_time_found, all_time_approved
		 FROM players WHERE id=?`, id,
	).Scan(&s.Role, &found, &hints, &s.AllTimeFound, &s.AllTimeApproved)
	if errors.Is(err, sql.ErrNoRows) {
		return zero(id), nil
	}
	if err != nil {
		return Stat{}, fmt.Errorf("get player %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(found), &s.FoundWords); err != nil {
		return Stat{}, fmt.Errorf("player %s found_words: %w", id, err)
	}
	if err := json.Unmarshal([]byte(hints), &s.UsedHints); err != nil {
		return Stat{}, fmt.Errorf("player %s used_hints: %w", id, err)
	}
	if s.FoundWords == nil {
		s.FoundWords = []string{}
	}
	if s.UsedHints == nil {
		s.UsedHints = []string{}
	}
	return s, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Stat, error) {
	return get(ctx, s.db, id)
}

func (s *SQLStore) Upsert(ctx context.Context, id string, p Patch) (Stat, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Stat{}, err
	}
	defer func() { _ = tx.Rollback() }()

	st, err := get(ctx, tx, id)
	if err != nil {
		return Stat{}, err
	}
	p.apply(&st)
	if err := put(ctx, tx, st); err != nil {
		return Stat{}, err
	}
	if err := tx.Commit(); err != nil {
		return Stat{}, err
	}
	return st, nil
}

func put(ctx context.Context, tx *sql.Tx, st Stat) error {
	found, err := json.Marshal(st.FoundWords)
	if err != nil {
		return err
	}
	hints, err := json.Marshal(st.UsedHints)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (id, role, found_words, used_hints, all_time_found, all_time_approved)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			role=excluded.role,
			found_words=excluded.found_words,
			used_hints=excluded.used_hints,
			all_time_found=excluded.all_time_found,
			all_time_approved=excluded.all_time_approved,
			updated_at=strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
		st.ID, st.Role, string(found), string(hints), st.AllTimeFound, st.AllTimeApproved,
	)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", st.ID, err)
	}
	return nil
}

func (s *SQLStore) ResetRound(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE players SET found_words='[]', used_hints='[]' WHERE id=?`, id)
	return err
}

func (s *SQLStore) ResetAllRounds(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `UPDATE players SET found_words='[]', used_hints='[]'`)
	return err
}

func (s *SQLStore) Snapshot(ctx context.Context) (map[string]Stat, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM players`)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	out := make(map[string]Stat, len(ids))
	for _, id := range ids {
		st, err := get(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		out[id] = st
	}
	return out, nil
}

func (s *SQLStore) SetRole(ctx context.Context, id, role string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, role) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET role=excluded.role`, id, role)
	return err
}
