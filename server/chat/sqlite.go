package chat

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteDSN opens a private in-memory database, so the sqlite backend
// keeps the same no-persistence-across-restarts behavior as MemoryStore.
const DefaultSQLiteDSN = "file:refineforge?mode=memory&cache=shared"

// SQLiteStore implements Store on a sqlite database. Mostly useful as a
// drop-in durable backend when pointed at a file DSN.
type SQLiteStore struct {
	db *sql.DB

	mu     sync.Mutex
	lastTS time.Time
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A shared-cache in-memory database vanishes when its last connection
	// closes; a single connection keeps it alive and serializes writes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS messages (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		persona TEXT NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL
	);`

	if _, err := s.db.Exec(query); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages (timestamp);`)
	return err
}

func (s *SQLiteStore) Append(ctx context.Context, content string, role Role, persona Persona) (Message, error) {
	msg := Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		Persona:   persona,
		Timestamp: s.nextTimestamp(),
	}

	query := `
	INSERT INTO messages (id, content, role, persona, timestamp)
	VALUES (?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query, msg.ID, msg.Content, string(msg.Role), string(msg.Persona), msg.Timestamp); err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Message, error) {
	query := `
	SELECT id, content, role, persona, timestamp
	FROM messages
	ORDER BY timestamp, seq`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []Message
	for rows.Next() {
		var msg Message
		var role, persona string
		if err := rows.Scan(&msg.ID, &msg.Content, &role, &persona, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = Role(role)
		msg.Persona = Persona(persona)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) nextTimestamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(s.lastTS) {
		now = s.lastTS.Add(time.Nanosecond)
	}
	s.lastTS = now
	return now
}
