// Package session persists chat history in a local sqlite database. One
// session owns an ordered, append-only log of messages; sessions can be
// exported to JSON and deleted together with their export artifact.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	// RoleUser marks a message written by the human side of the chat.
	RoleUser = "user"
	// RoleAssistant marks a message written by the model side of the chat.
	RoleAssistant = "assistant"
)

// ErrInvalidRole is returned when appending a message with a role outside
// the fixed role set.
var ErrInvalidRole = errors.New("role must be one of: user, assistant")

// Message is one chat message. Messages are immutable once written.
type Message struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"index" json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName keeps the historical table name.
func (Message) TableName() string {
	return "messages"
}

// Store owns the sqlite connection and the export directory. Writes are
// serialized through a mutex so the store can be shared across handler
// invocations within one process.
type Store struct {
	db        *gorm.DB
	exportDir string
	mu        sync.Mutex
}

// NewStore opens (creating if needed) the sqlite database at dbPath,
// migrates the messages table, and ensures the export directory exists.
func NewStore(dbPath, exportDir string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	if err := db.AutoMigrate(&Message{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Store{db: db, exportDir: exportDir}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewSession generates a fresh session id. Nothing is persisted until the
// first Append; a session with no messages loads as empty.
func (s *Store) NewSession() string {
	return uuid.New().String()
}

// Append durably appends one message to a session. Prior messages are
// never mutated or reordered.
func (s *Store) Append(sessionID, role, content string) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w, got %q", ErrInvalidRole, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	return s.db.Create(&msg).Error
}

// Load returns a session's messages in ascending creation order, with
// timestamp ties broken by insertion order.
func (s *Store) Load(sessionID string) ([]Message, error) {
	var msgs []Message
	err := s.db.
		Where("session_id = ?", sessionID).
		Order("created_at ASC, rowid ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListSessions returns up to limit session ids ordered by most recent
// activity first.
func (s *Store) ListSessions(limit int) ([]string, error) {
	var ids []string
	err := s.db.Model(&Message{}).
		Group("session_id").
		Order("MAX(created_at) DESC").
		Limit(limit).
		Pluck("session_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

type sessionExport struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// ExportPath returns the deterministic export file path for a session.
func (s *Store) ExportPath(sessionID string) string {
	return filepath.Join(s.exportDir, fmt.Sprintf("session_%s.json", sessionID))
}

// Export serializes the full message log of a session to its export file
// and returns the path. Repeated exports overwrite the same file.
func (s *Store) Export(sessionID string) (string, error) {
	msgs, err := s.Load(sessionID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(sessionExport{SessionID: sessionID, Messages: msgs}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize session: %w", err)
	}

	path := s.ExportPath(sessionID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// Delete removes all of a session's messages and its export artifact.
// Loading a deleted session returns an empty log; the id is never reused
// implicitly because new ids come from a fresh generator.
func (s *Store) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Where("session_id = ?", sessionID).Delete(&Message{}).Error; err != nil {
		return err
	}

	path := s.ExportPath(sessionID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove export file: %w", err)
	}
	return nil
}
