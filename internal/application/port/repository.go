// Package port defines the interfaces the application layer depends on.
// Infrastructure adapters implement them; services consume them.
package port

import (
	"context"

	"github.com/ilcdb/record-management/internal/domain/entity"
)

// RecordRepository is the typed view of one document-store collection.
// GetByID returns (nil, nil) when no record exists with the given id.
type RecordRepository interface {
	List(ctx context.Context) ([]*entity.Record, error)
	GetByID(ctx context.Context, id string) (*entity.Record, error)
	Insert(ctx context.Context, rec *entity.Record) error
	Update(ctx context.Context, rec *entity.Record) error
	Delete(ctx context.Context, id string) error
}
