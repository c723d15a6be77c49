// Package docstore implements the document store backing the three record
// collections: JSON documents keyed by generated string ids, one SQLite
// table per collection.
package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Update and Delete when the id matches no document.
var ErrNotFound = errors.New("document not found")

// Collections known to the store. Table names are fixed here so collection
// names arriving from callers never reach SQL directly.
const (
	CollectionProcurements   = "procurements"
	CollectionHonoraria      = "honoraria"
	CollectionTravelVouchers = "travel_vouchers"
)

var validCollections = map[string]bool{
	CollectionProcurements:   true,
	CollectionHonoraria:      true,
	CollectionTravelVouchers: true,
}

// Document is one stored record: its id, raw JSON body, and store-managed
// timestamps. Date values inside Data are RFC3339 strings by construction
// (encoding/json time.Time), not inferred by pattern matching.
type Document struct {
	ID        string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a SQLite-backed document store.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New creates a Store over an open database.
func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func table(collection string) (string, error) {
	if !validCollections[collection] {
		return "", fmt.Errorf("unknown collection: %s", collection)
	}
	return collection, nil
}

// List returns all documents in a collection, newest first.
func (s *Store) List(ctx context.Context, collection string) ([]Document, error) {
	tbl, err := table(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT id, data, created_at, updated_at FROM %s ORDER BY created_at DESC, id",
		tbl,
	)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("Failed to list documents", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Get returns one document, or (nil, nil) when the id matches nothing.
func (s *Store) Get(ctx context.Context, collection, id string) (*Document, error) {
	tbl, err := table(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT id, data, created_at, updated_at FROM %s WHERE id = ?", tbl)
	var doc Document
	err = s.db.QueryRowContext(ctx, query, id).Scan(&doc.ID, &doc.Data, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to get document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// Insert stores a new document.
func (s *Store) Insert(ctx context.Context, collection string, doc Document) error {
	tbl, err := table(collection)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (id, data, created_at, updated_at) VALUES (?, ?, ?, ?)",
		tbl,
	)
	if _, err := s.db.ExecContext(ctx, query, doc.ID, doc.Data, doc.CreatedAt, doc.UpdatedAt); err != nil {
		s.logger.Error("Failed to insert document",
			zap.String("collection", collection),
			zap.String("id", doc.ID),
			zap.Error(err))
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// Update overwrites a document body. The last writer wins; there is no
// version token.
func (s *Store) Update(ctx context.Context, collection string, doc Document) error {
	tbl, err := table(collection)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET data = ?, updated_at = ? WHERE id = ?", tbl)
	result, err := s.db.ExecContext(ctx, query, doc.Data, doc.UpdatedAt, doc.ID)
	if err != nil {
		s.logger.Error("Failed to update document",
			zap.String("collection", collection),
			zap.String("id", doc.ID),
			zap.Error(err))
		return fmt.Errorf("failed to update document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, doc.ID)
	}
	return nil
}

// Delete permanently removes a document.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tbl, err := table(collection)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", tbl)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		s.logger.Error("Failed to delete document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err))
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}
