package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/compress/zstd"
)

// Message roles in a transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompressionAlgo specifies the compression algorithm used for a message body.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// SessionRecord is one chat session row.
type SessionRecord struct {
	ID        string    `db:"id"`
	ClientID  string    `db:"client_id"`
	State     string    `db:"state"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MessageRecord is one transcript message row.
type MessageRecord struct {
	ID              string          `db:"id"`
	SessionID       string          `db:"session_id"`
	Role            string          `db:"role"`
	Body            string          `db:"body"`
	BodyCompressed  []byte          `db:"body_compressed"`
	CompressionAlgo CompressionAlgo `db:"compression_algo"`
	CreatedAt       time.Time       `db:"created_at"`
}

// SubmissionRecord journals one ERP submission attempt.
type SubmissionRecord struct {
	ID        string          `db:"id"`
	SessionID string          `db:"session_id"`
	Action    string          `db:"action"`
	Payload   json.RawMessage `db:"payload"`
	Outcome   string          `db:"outcome"`
	CreatedAt time.Time       `db:"created_at"`
}

// TranscriptStore persists dialogue transcripts and the submission journal.
// Large message bodies are zstd-compressed before storage.
type TranscriptStore struct {
	pool              *pgxpool.Pool
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewTranscriptStore creates a transcript store over the given pool.
func NewTranscriptStore(pool *pgxpool.Pool) (*TranscriptStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &TranscriptStore{
		pool:              pool,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// builder returns a squirrel builder with PostgreSQL placeholder format.
func (s *TranscriptStore) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// UpsertSession inserts or updates the session row.
func (s *TranscriptStore) UpsertSession(ctx context.Context, rec SessionRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	q := s.builder().
		Insert("chat_sessions").
		Columns("id", "client_id", "state", "created_at", "updated_at").
		Values(rec.ID, rec.ClientID, rec.State, rec.CreatedAt, rec.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert chat_sessions: %w", err)
	}
	return nil
}

// AppendMessage stores one transcript message, compressing large bodies.
func (s *TranscriptStore) AppendMessage(ctx context.Context, sessionID, role, body string) error {
	rec := MessageRecord{
		ID:              uuid.New().String(),
		SessionID:       sessionID,
		Role:            role,
		Body:            body,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(body) > s.compressThreshold {
		rec.BodyCompressed = s.encoder.EncodeAll([]byte(body), nil)
		rec.Body = ""
		rec.CompressionAlgo = CompressionZstd
	}

	q := s.builder().
		Insert("chat_messages").
		Columns("id", "session_id", "role", "body", "body_compressed", "compression_algo", "created_at").
		Values(rec.ID, rec.SessionID, rec.Role, rec.Body, rec.BodyCompressed, rec.CompressionAlgo, rec.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert chat_messages: %w", err)
	}
	return nil
}

// RecordSubmission journals an ERP submission attempt and its outcome.
func (s *TranscriptStore) RecordSubmission(ctx context.Context, sessionID, action string, payload any, outcome string) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	q := s.builder().
		Insert("chat_submissions").
		Columns("id", "session_id", "action", "payload", "outcome", "created_at").
		Values(uuid.New().String(), sessionID, action, payloadJSON, outcome, time.Now().UTC())

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert chat_submissions: %w", err)
	}
	return nil
}

// ListSessions returns the most recently updated sessions.
func (s *TranscriptStore) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	q := s.builder().
		Select("id", "client_id", "state", "created_at", "updated_at").
		From("chat_sessions").
		OrderBy("updated_at DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var sessions []SessionRecord
	if err := pgxscan.Select(ctx, s.pool, &sessions, sql, args...); err != nil {
		return nil, fmt.Errorf("select chat_sessions: %w", err)
	}
	return sessions, nil
}

// ListMessages returns a session's transcript in chronological order,
// decompressing bodies as needed.
func (s *TranscriptStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]MessageRecord, error) {
	q := s.builder().
		Select("id", "session_id", "role", "body", "body_compressed", "compression_algo", "created_at").
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var messages []MessageRecord
	if err := pgxscan.Select(ctx, s.pool, &messages, sql, args...); err != nil {
		return nil, fmt.Errorf("select chat_messages: %w", err)
	}

	for i := range messages {
		if messages[i].CompressionAlgo == CompressionZstd && len(messages[i].BodyCompressed) > 0 {
			body, err := s.decoder.DecodeAll(messages[i].BodyCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress message %s: %w", messages[i].ID, err)
			}
			messages[i].Body = string(body)
			messages[i].BodyCompressed = nil
		}
	}
	return messages, nil
}
