// internal/pings/store.go
//
// Telemetry ("ping") persistence. A ping is one session's final results,
// delivered at most once per completed session by the reporting collaborator.
// Delivery is best-effort: a failed insert is the caller's problem to log,
// never to retry.

package pings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ping is one stored telemetry record.
type Ping struct {
	ID         string          `json:"id"`
	IPAddress  string          `json:"ipAddress"`
	GameID     string          `json:"gameId"`
	GameType   string          `json:"gameType"`
	Results    json.RawMessage `json:"results"`
	CreateDate time.Time       `json:"createDate"`
}

// Writer is the insert surface consumed by the HTTP layer.
type Writer interface {
	Insert(ctx context.Context, p Ping) (*Ping, error)
}

// Store implements Writer on database/sql.
type Store struct {
	db *sql.DB
}

// NewStore wraps a database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert persists a ping and returns the stored record with its assigned ID
// and timestamp. IPv4-mapped addresses lose their "::ffff:" prefix before
// storage.
func (s *Store) Insert(ctx context.Context, p Ping) (*Ping, error) {
	p.ID = uuid.NewString()
	p.IPAddress = strings.TrimPrefix(p.IPAddress, "::ffff:")
	p.CreateDate = time.Now().UTC()
	if p.GameType == "" {
		p.GameType = "M"
	}
	if len(p.Results) == 0 {
		p.Results = json.RawMessage(`{}`)
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO pings (id, ip_address, game_id, game_type, results, create_date)
        VALUES (?,?,?,?,?,?)`,
		p.ID, p.IPAddress, p.GameID, p.GameType, string(p.Results),
		p.CreateDate.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert ping for %s: %w", p.GameID, err)
	}
	return &p, nil
}
