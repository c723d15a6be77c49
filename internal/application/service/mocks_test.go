package service

import (
	"context"
	"fmt"

	"github.com/ilcdb/record-management/internal/application/port"
	"github.com/ilcdb/record-management/internal/domain/entity"
)

// mockRecordRepo is an in-memory port.RecordRepository with overridable
// behavior per method.
type mockRecordRepo struct {
	records    map[string]*entity.Record
	order      []string
	listFunc   func(ctx context.Context) ([]*entity.Record, error)
	getFunc    func(ctx context.Context, id string) (*entity.Record, error)
	insertFunc func(ctx context.Context, rec *entity.Record) error
	updateFunc func(ctx context.Context, rec *entity.Record) error
	deleteFunc func(ctx context.Context, id string) error
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[string]*entity.Record)}
}

func (m *mockRecordRepo) List(ctx context.Context) ([]*entity.Record, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	out := make([]*entity.Record, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out, nil
}

func (m *mockRecordRepo) GetByID(ctx context.Context, id string) (*entity.Record, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return m.records[id], nil
}

func (m *mockRecordRepo) Insert(ctx context.Context, rec *entity.Record) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, rec)
	}
	m.records[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *mockRecordRepo) Update(ctx context.Context, rec *entity.Record) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, rec)
	}
	if _, ok := m.records[rec.ID]; !ok {
		return fmt.Errorf("record %s does not exist", rec.ID)
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *mockRecordRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	delete(m.records, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// mockCorrector returns a canned correction result.
type mockCorrector struct {
	correctFunc func(ctx context.Context, rawValue string, candidates []string) (*port.CorrectionResult, error)
}

func (m *mockCorrector) Correct(ctx context.Context, rawValue string, candidates []string) (*port.CorrectionResult, error) {
	if m.correctFunc != nil {
		return m.correctFunc(ctx, rawValue, candidates)
	}
	return nil, nil
}

// nopLogger discards log output in tests.
type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
