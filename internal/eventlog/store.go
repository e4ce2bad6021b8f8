// Package eventlog is the best-effort event logger collaborator:
// log(user_id, event_type, chain, target?, tx_hash?, risk?, trust?,
// result?), persisted to Postgres via pgx. A logging failure never
// fails the analysis that triggered it — callers fire-and-forget.
package eventlog

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

// Connect opens the connection pool. A nil Store (returned alongside a
// non-nil error) is always safe to pass to Log: it is a no-op.
func Connect(connStr string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	log.Println("Successfully connected to PostgreSQL for the shield event log")
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema loads and executes schema.sql.
func (s *Store) InitSchema() error {
	schemaBytes, err := os.ReadFile("internal/eventlog/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := s.pool.Exec(context.Background(), string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %w", err)
	}
	log.Println("Shield event log schema initialized")
	return nil
}

// Event is one best-effort log entry. Optional fields use pointers so a
// caller can omit them entirely rather than encode a sentinel zero value.
type Event struct {
	UserID    string
	EventType string
	Chain     string
	Target    *string
	TxHash    *string
	Risk      *int
	Trust     *int
	Result    *string
}

// Log persists one event. On a nil Store it does nothing; on a database
// error it logs at warning level and returns — callers are not expected to
// check the error since this is explicitly best-effort.
func (s *Store) Log(ctx context.Context, e Event) {
	if s == nil || s.pool == nil {
		return
	}
	const q = `
		INSERT INTO shield_events (user_id, event_type, chain, target, tx_hash, risk_score, trust_score, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.pool.Exec(ctx, q, e.UserID, e.EventType, e.Chain, e.Target, e.TxHash, e.Risk, e.Trust, e.Result)
	if err != nil {
		log.Printf("Warning: failed to persist shield event (%s/%s): %v", e.UserID, e.EventType, err)
	}
}

func (s *Store) Pool() *pgxpool.Pool { return s.pool }
