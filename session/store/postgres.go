package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/sweetpotato0/slidecraft/errors"
	"github.com/sweetpotato0/slidecraft/session"
)

// PostgresStore implements session storage using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

var _ session.Store = (*PostgresStore)(nil)

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultPostgresConfig returns default PostgreSQL configuration.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "slidecraft",
		SSLMode:  "disable",
	}
}

// NewPostgresStore connects to PostgreSQL and prepares the sessions table.
func NewPostgresStore(config *PostgresConfig) (*PostgresStore, error) {
	if config == nil {
		config = DefaultPostgresConfig()
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.createTable(context.Background()); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) createTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS slide_sessions (
		id VARCHAR(32) PRIMARY KEY,
		topic TEXT NOT NULL DEFAULT '',
		style TEXT NOT NULL DEFAULT '',
		slide_count INT NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL DEFAULT '',
		payload JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_slide_sessions_updated_at ON slide_sessions(updated_at);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresStore) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if err := session.ValidateID(sess.ID); err != nil {
		return err
	}
	sess.Touch()

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	query := `
	INSERT INTO slide_sessions (id, topic, style, slide_count, updated_at, payload)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		topic = EXCLUDED.topic,
		style = EXCLUDED.style,
		slide_count = EXCLUDED.slide_count,
		updated_at = EXCLUDED.updated_at,
		payload = EXCLUDED.payload
	`
	_, err = s.db.ExecContext(ctx, query,
		sess.ID, sess.Topic, sess.StyleName, len(sess.Slides), sess.UpdatedAt, payload)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*session.Session, error) {
	if err := session.ValidateID(id); err != nil {
		return nil, err
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM slide_sessions WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", id, errors.ErrNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var sess session.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]session.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, style, slide_count, updated_at
		FROM slide_sessions
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []session.Summary
	for rows.Next() {
		var sum session.Summary
		if err := rows.Scan(&sum.ID, &sum.Topic, &sum.Style, &sum.Slides, &sum.Updated); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Latest(ctx context.Context) (*session.Session, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return s.Load(ctx, summaries[0].ID)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := session.ValidateID(id); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM slide_sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	return affected > 0, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks if the PostgreSQL connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
