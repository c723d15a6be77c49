// Package repository adapts the document store to the typed record
// repositories the application services consume.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ilcdb/record-management/internal/application/port"
	"github.com/ilcdb/record-management/internal/domain/entity"
	"github.com/ilcdb/record-management/internal/infrastructure/persistence/docstore"
)

// RecordRepository implements port.RecordRepository over one document-store
// collection. Records marshal to JSON documents; createdAt/updatedAt are
// mirrored into store columns so listing can order without parsing bodies.
type RecordRepository struct {
	store      *docstore.Store
	collection string
	logger     *zap.Logger
}

// NewRecordRepository creates a repository bound to a collection.
func NewRecordRepository(store *docstore.Store, collection string, logger *zap.Logger) port.RecordRepository {
	return &RecordRepository{
		store:      store,
		collection: collection,
		logger:     logger,
	}
}

// List returns every record in the collection, newest first.
func (r *RecordRepository) List(ctx context.Context) ([]*entity.Record, error) {
	docs, err := r.store.List(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	records := make([]*entity.Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := decode(doc)
		if err != nil {
			r.logger.Error("Skipping undecodable document",
				zap.String("collection", r.collection),
				zap.String("id", doc.ID),
				zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetByID returns the record, or (nil, nil) when it does not exist.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*entity.Record, error) {
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return decode(*doc)
}

// Insert stores a new record.
func (r *RecordRepository) Insert(ctx context.Context, rec *entity.Record) error {
	doc, err := encode(rec)
	if err != nil {
		return err
	}
	return r.store.Insert(ctx, r.collection, doc)
}

// Update overwrites the stored record with the given one.
func (r *RecordRepository) Update(ctx context.Context, rec *entity.Record) error {
	doc, err := encode(rec)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, r.collection, doc)
}

// Delete permanently removes the record.
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.collection, id)
}

func encode(rec *entity.Record) (docstore.Document, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return docstore.Document{}, fmt.Errorf("failed to marshal record %s: %w", rec.ID, err)
	}
	return docstore.Document{
		ID:        rec.ID,
		Data:      data,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func decode(doc docstore.Document) (*entity.Record, error) {
	var rec entity.Record
	if err := json.Unmarshal(doc.Data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", doc.ID, err)
	}
	return &rec, nil
}

// Verify interface compliance
var _ port.RecordRepository = (*RecordRepository)(nil)
