package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ilcdb/record-management/internal/application/port"
	"github.com/ilcdb/record-management/internal/domain/entity"
	"github.com/ilcdb/record-management/pkg/utils"
)

// ExportResult describes a generated phase-summary document.
type ExportResult struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	Content  []byte `json:"-"`
}

// ExportService produces downloadable phase-summary documents for records.
type ExportService interface {
	ExportSummary(ctx context.Context, records RecordService, id string) (*ExportResult, error)
}

type exportServiceImpl struct {
	exporter port.SummaryExporter
	storage  port.FileStorage
	retry    *utils.RetryStrategy
	logger   Logger
}

// NewExportService creates an ExportService writing rendered documents
// through the given file storage.
func NewExportService(exporter port.SummaryExporter, storage port.FileStorage, logger Logger) ExportService {
	return &exportServiceImpl{
		exporter: exporter,
		storage:  storage,
		retry:    utils.NewRetryStrategy(),
		logger:   logger,
	}
}

// ExportSummary loads the record (with a bounded retry on the read), renders
// its phase summary, and saves the document under the collection directory.
func (s *exportServiceImpl) ExportSummary(ctx context.Context, records RecordService, id string) (*ExportResult, error) {
	var rec *entity.Record
	var notFound error
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var getErr error
		rec, getErr = records.Get(ctx, id)
		if errors.Is(getErr, ErrRecordNotFound) {
			// Missing records are not transient; do not burn retries on them.
			notFound = getErr
			return nil
		}
		return getErr
	})
	if err != nil {
		return nil, err
	}
	if notFound != nil {
		return nil, notFound
	}

	content, err := s.exporter.Render(rec)
	if err != nil {
		s.logger.Error("Failed to render phase summary", "id", id, "error", err)
		return nil, fmt.Errorf("failed to render phase summary: %w", err)
	}

	fileName := fmt.Sprintf("%s-%s%s", records.Spec().Collection, rec.ID, s.exporter.Extension())
	fullPath, err := s.storage.Save(filepath.Join(records.Spec().Collection, fileName), content)
	if err != nil {
		s.logger.Error("Failed to save phase summary", "id", id, "error", err)
		return nil, fmt.Errorf("failed to save phase summary: %w", err)
	}

	s.logger.Info("Phase summary exported", "id", id, "path", fullPath)
	return &ExportResult{
		FileName: fileName,
		FilePath: fullPath,
		Content:  content,
	}, nil
}
