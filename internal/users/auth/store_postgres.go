// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/database/schema"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/dberr"
)

// dbtx is the subset of *pgxpool.Pool the store needs.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// # PostgreSQL Session Store

// PostgresSessionStore implements SessionStore on the portal.session_entry table.
//
// Expired rows are invisible to reads and are purged by [PostgresSessionStore.RunJanitor].
type PostgresSessionStore struct {
	db  dbtx
	ttl time.Duration
	now func() time.Time
}

// NewPostgresSessionStore creates a new PostgreSQL-backed SessionStore.
func NewPostgresSessionStore(db dbtx, ttl time.Duration) *PostgresSessionStore {
	return &PostgresSessionStore{db: db, ttl: ttl, now: time.Now}
}

// Scope implements SessionStore.
func (store *PostgresSessionStore) Scope(sessionID string) Storage {
	return &postgresStorage{store: store, sessionID: sessionID}
}

// Ping implements SessionStore.
func (store *PostgresSessionStore) Ping(context context.Context) error {
	if err := store.db.Ping(context); err != nil {
		return fmt.Errorf("postgres_session_ping_failed: %w", err)
	}
	return nil
}

/*
DeleteExpired purges every entry whose expiry has passed.

Returns:
  - int64: Rows removed
  - error: Execution failures
*/
func (store *PostgresSessionStore) DeleteExpired(context context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s <= $1`,
		schema.PortalSessionEntry.Table, schema.PortalSessionEntry.ExpiresAt,
	)

	tag, err := store.db.Exec(context, query, store.now())
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_session_purge_failed")
	}
	return tag.RowsAffected(), nil
}

// RunJanitor calls DeleteExpired every interval until the context ends.
func (store *PostgresSessionStore) RunJanitor(context context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case <-ticker.C:
			removed, err := store.DeleteExpired(context)
			if err != nil {
				logger.Error("session_janitor_failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				logger.Info("session_janitor_purged", slog.Int64("removed", removed))
			}
		}
	}
}

// postgresStorage is one session's rows.
type postgresStorage struct {
	store     *PostgresSessionStore
	sessionID string
}

// GetItem implements Storage.
func (storage *postgresStorage) GetItem(context context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s > $3
	`,
		schema.PortalSessionEntry.EntryValue,
		schema.PortalSessionEntry.Table,
		schema.PortalSessionEntry.SessionID, schema.PortalSessionEntry.EntryKey, schema.PortalSessionEntry.ExpiresAt,
	)

	var value string
	err := storage.store.db.QueryRow(context, query, storage.sessionID, key, storage.store.now()).Scan(&value)
	if err != nil {
		if dberr.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, dberr.Wrap(err, "postgres_session_get_failed")
	}

	return value, true, nil
}

// SetItem implements Storage. The row is upserted and its expiry pushed forward.
func (storage *postgresStorage) SetItem(context context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
	`,
		schema.PortalSessionEntry.Table,
		schema.PortalSessionEntry.SessionID, schema.PortalSessionEntry.EntryKey, schema.PortalSessionEntry.EntryValue,
		schema.PortalSessionEntry.ExpiresAt, schema.PortalSessionEntry.UpdatedAt,
		schema.PortalSessionEntry.SessionID, schema.PortalSessionEntry.EntryKey,
		schema.PortalSessionEntry.EntryValue, schema.PortalSessionEntry.EntryValue,
		schema.PortalSessionEntry.ExpiresAt, schema.PortalSessionEntry.ExpiresAt,
		schema.PortalSessionEntry.UpdatedAt, schema.PortalSessionEntry.UpdatedAt,
	)

	now := storage.store.now()
	_, err := storage.store.db.Exec(context, query, storage.sessionID, key, value, now.Add(storage.store.ttl), now)
	return dberr.Wrap(err, "postgres_session_set_failed")
}

// RemoveItem implements Storage.
func (storage *postgresStorage) RemoveItem(context context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PortalSessionEntry.Table, schema.PortalSessionEntry.SessionID, schema.PortalSessionEntry.EntryKey,
	)

	_, err := storage.store.db.Exec(context, query, storage.sessionID, key)
	return dberr.Wrap(err, "postgres_session_delete_failed")
}
