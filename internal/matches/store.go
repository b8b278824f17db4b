// internal/matches/store.go
//
// SQL-backed store for authored match definitions.
// A definition is stored as one row keyed by its public match ID, with the
// options and pairs kept as JSON documents (the authored game is a document,
// not a relational shape; only the key is queried).
//
// Not-found is a distinct state, not an error: Get returns (nil, nil) so the
// API layer can serve its empty-object sentinel.

package matches

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/babalugats76/quizdini-2.0-learn/internal/match"
)

// Reader is the read path consumed by the HTTP layer.
type Reader interface {
	// Get loads a definition by public ID. Returns (nil, nil) when no such
	// game exists.
	Get(ctx context.Context, id string) (*match.Definition, error)
}

// Backend is the full definition store surface (used by the cache wrapper).
type Backend interface {
	Reader

	// Upsert inserts or replaces a definition.
	Upsert(ctx context.Context, def *match.Definition) error
}

// Store implements Backend on database/sql.
type Store struct {
	db *sql.DB
}

// NewStore wraps a database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Get(ctx context.Context, id string) (*match.Definition, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT match_id, title, author, instructions, options, pairs
        FROM matches WHERE match_id=?`, id)

	var def match.Definition
	var optionsJSON, pairsJSON string
	err := row.Scan(&def.ID, &def.Title, &def.Author, &def.Instructions, &optionsJSON, &pairsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(optionsJSON), &def.Options); err != nil {
		return nil, fmt.Errorf("decode options for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(pairsJSON), &def.Pairs); err != nil {
		return nil, fmt.Errorf("decode pairs for %s: %w", id, err)
	}
	return &def, nil
}

func (s *Store) Upsert(ctx context.Context, def *match.Definition) error {
	optionsJSON, err := json.Marshal(def.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	pairsJSON, err := json.Marshal(def.Pairs)
	if err != nil {
		return fmt.Errorf("encode pairs: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO matches (match_id, title, author, instructions, options, pairs)
        VALUES (?,?,?,?,?,?)
        ON CONFLICT(match_id) DO UPDATE SET
            title=excluded.title,
            author=excluded.author,
            instructions=excluded.instructions,
            options=excluded.options,
            pairs=excluded.pairs,
            updated_at=datetime('now')`,
		def.ID, def.Title, def.Author, def.Instructions, string(optionsJSON), string(pairsJSON))
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", def.ID, err)
	}
	return nil
}
