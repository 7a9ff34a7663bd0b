// Package kv is the persistence choke point for Axis: a small JSON
// document store over SQLite. Every durable write in the system goes
// through Put, so durability semantics live in one auditable place and
// the backing store can be swapped without touching domain logic.
package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB  *sql.DB
	Now func() time.Time
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns the raw document stored under key.
func (s Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc string
	err := s.DB.QueryRowContext(ctx, `SELECT doc FROM documents WHERE key=?`, key).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

// Put stores doc under key, replacing any previous value.
func (s Store) Put(ctx context.Context, key string, doc []byte) error {
	now := s.now().UTC().Format(time.RFC3339)
	_, err := s.DB.ExecContext(ctx, `INSERT INTO documents(key,doc,updated_at) VALUES (?,?,?)
ON CONFLICT(key) DO UPDATE SET doc=excluded.doc, updated_at=excluded.updated_at`, key, string(doc), now)
	return err
}

// GetJSON decodes the document under key into v. A missing key returns
// ErrNotFound; a corrupt document returns the decode error so callers
// can choose to fall back to defaults.
func (s Store) GetJSON(ctx context.Context, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes v and stores it under key.
func (s Store) PutJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
