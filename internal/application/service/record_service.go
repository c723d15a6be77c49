package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ilcdb/record-management/internal/application/port"
	"github.com/ilcdb/record-management/internal/domain/entity"
	"github.com/ilcdb/record-management/internal/domain/lifecycle"
	"github.com/ilcdb/record-management/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateRecordInput carries the user-supplied fields for a new record.
// Fields irrelevant to the workflow type are ignored.
type CreateRecordInput struct {
	Amount           float64            `json:"amount"`
	ProjectType      entity.ProjectType `json:"project_type"`
	OtherProjectType string             `json:"other_project_type"`
	Title            string             `json:"title"`
	PRNumber         string             `json:"pr_number"`
	SpeakerName      string             `json:"speaker_name"`
	ActivityTitle    string             `json:"activity_title"`
}

// UpdateRecordInput carries a partial update; nil fields are left untouched.
// Phases and status are not editable through field updates.
type UpdateRecordInput struct {
	Amount           *float64            `json:"amount"`
	ProjectType      *entity.ProjectType `json:"project_type"`
	OtherProjectType *string             `json:"other_project_type"`
	Title            *string             `json:"title"`
	PRNumber         *string             `json:"pr_number"`
	SpeakerName      *string             `json:"speaker_name"`
	ActivityTitle    *string             `json:"activity_title"`
}

// RecordService manages the records of one workflow collection: CRUD,
// phase updates, and explicit status actions.
type RecordService interface {
	List(ctx context.Context) ([]*entity.Record, error)
	Get(ctx context.Context, id string) (*entity.Record, error)
	Create(ctx context.Context, input CreateRecordInput) (*entity.Record, error)
	Update(ctx context.Context, id string, input UpdateRecordInput) (*entity.Record, error)
	Delete(ctx context.Context, id string) error
	UpdatePhase(ctx context.Context, id string, phase entity.Phase) (*entity.Record, error)
	Archive(ctx context.Context, id string) (*entity.Record, error)
	Unarchive(ctx context.Context, id string) (*entity.Record, error)
	MarkCompleted(ctx context.Context, id string) (*entity.Record, error)
	Spec() lifecycle.TypeSpec
}

type recordServiceImpl struct {
	spec     lifecycle.TypeSpec
	engine   *lifecycle.Engine
	repo     port.RecordRepository
	prNumber PRNumberService
	logger   Logger
}

// NewRecordService creates a RecordService for one workflow type. prNumber
// is required for procurement and ignored for the other workflows.
func NewRecordService(
	spec lifecycle.TypeSpec,
	repo port.RecordRepository,
	prNumber PRNumberService,
	logger Logger,
) RecordService {
	return &recordServiceImpl{
		spec:     spec,
		engine:   lifecycle.NewEngine(spec),
		repo:     repo,
		prNumber: prNumber,
		logger:   logger,
	}
}

func (s *recordServiceImpl) Spec() lifecycle.TypeSpec {
	return s.spec
}

// List returns every record in the collection, newest first.
func (s *recordServiceImpl) List(ctx context.Context) ([]*entity.Record, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.spec.Collection, err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *recordServiceImpl) Get(ctx context.Context, id string) (*entity.Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return rec, nil
}

// Create validates the input and inserts a record with a generated id, a
// fresh phase template, and the active status.
func (s *recordServiceImpl) Create(ctx context.Context, input CreateRecordInput) (*entity.Record, error) {
	if err := s.validateShared(input.Amount, input.ProjectType, input.OtherProjectType); err != nil {
		return nil, err
	}
	if err := s.validateTyped(ctx, input, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &entity.Record{
		ID:               uuid.NewString(),
		Type:             s.spec.Type,
		Amount:           input.Amount,
		ProjectType:      input.ProjectType,
		OtherProjectType: input.OtherProjectType,
		Status:           entity.StatusActive,
		Title:            strings.TrimSpace(input.Title),
		PRNumber:         strings.TrimSpace(input.PRNumber),
		SpeakerName:      strings.TrimSpace(input.SpeakerName),
		ActivityTitle:    strings.TrimSpace(input.ActivityTitle),
		Phases:           s.spec.NewPhases(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.clearForeignFields(rec)

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	s.logger.Info("Record created",
		"collection", s.spec.Collection,
		"id", rec.ID,
		"amount", rec.Amount)
	return rec, nil
}

// Update merges the provided fields into the record and bumps updatedAt.
// Later updates overwrite earlier ones; there is no version check.
func (s *recordServiceImpl) Update(ctx context.Context, id string, input UpdateRecordInput) (*entity.Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		rec.Amount = *input.Amount
	}
	if input.ProjectType != nil {
		rec.ProjectType = *input.ProjectType
	}
	if input.OtherProjectType != nil {
		rec.OtherProjectType = *input.OtherProjectType
	}
	if input.Title != nil {
		rec.Title = strings.TrimSpace(*input.Title)
	}
	if input.PRNumber != nil {
		rec.PRNumber = strings.TrimSpace(*input.PRNumber)
	}
	if input.SpeakerName != nil {
		rec.SpeakerName = strings.TrimSpace(*input.SpeakerName)
	}
	if input.ActivityTitle != nil {
		rec.ActivityTitle = strings.TrimSpace(*input.ActivityTitle)
	}

	if err := s.validateShared(rec.Amount, rec.ProjectType, rec.OtherProjectType); err != nil {
		return nil, err
	}
	merged := CreateRecordInput{
		Title:         rec.Title,
		PRNumber:      rec.PRNumber,
		SpeakerName:   rec.SpeakerName,
		ActivityTitle: rec.ActivityTitle,
	}
	if err := s.validateTyped(ctx, merged, rec.ID); err != nil {
		return nil, err
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return rec, nil
}

// Delete permanently removes the record. There is no soft delete or undo.
func (s *recordServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	s.logger.Info("Record deleted", "collection", s.spec.Collection, "id", id)
	return nil
}

// UpdatePhase applies a proposed phase through the lifecycle engine and
// persists the result.
func (s *recordServiceImpl) UpdatePhase(ctx context.Context, id string, phase entity.Phase) (*entity.Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged, err := s.engine.ApplyPhaseUpdate(rec, phase)
	if err != nil {
		return nil, err
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist phase update: %w", err)
	}

	if statusChanged {
		s.logger.Info("Record status changed on phase completion",
			"collection", s.spec.Collection,
			"id", rec.ID,
			"status", rec.Status.String())
	}
	return rec, nil
}

func (s *recordServiceImpl) Archive(ctx context.Context, id string) (*entity.Record, error) {
	return s.applyStatusAction(ctx, id, s.engine.Archive)
}

func (s *recordServiceImpl) Unarchive(ctx context.Context, id string) (*entity.Record, error) {
	return s.applyStatusAction(ctx, id, s.engine.Unarchive)
}

func (s *recordServiceImpl) MarkCompleted(ctx context.Context, id string) (*entity.Record, error) {
	return s.applyStatusAction(ctx, id, s.engine.MarkCompleted)
}

func (s *recordServiceImpl) applyStatusAction(ctx context.Context, id string, action func(*entity.Record) error) (*entity.Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := action(rec); err != nil {
		return nil, err
	}
	rec.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}
	return rec, nil
}

func (s *recordServiceImpl) validateShared(amount float64, projectType entity.ProjectType, other string) error {
	if err := utils.ValidateAmount(amount); err != nil {
		return invalidField("amount", err.Error())
	}
	if !projectType.IsValid() {
		return invalidField("project_type", fmt.Sprintf("unknown project type %q", projectType))
	}
	if projectType == entity.ProjectTypeOthers && strings.TrimSpace(other) == "" {
		return invalidField("other_project_type", "required when project type is OTHERS")
	}
	return nil
}

func (s *recordServiceImpl) validateTyped(ctx context.Context, input CreateRecordInput, excludeID string) error {
	switch s.spec.Type {
	case entity.RecordTypeProcurement:
		if strings.TrimSpace(input.Title) == "" {
			return invalidField("title", "required")
		}
		if s.prNumber == nil {
			return fmt.Errorf("procurement service misconfigured: no PR number validator")
		}
		return s.prNumber.Validate(ctx, strings.TrimSpace(input.PRNumber), excludeID)
	case entity.RecordTypeHonoraria:
		if strings.TrimSpace(input.SpeakerName) == "" {
			return invalidField("speaker_name", "required")
		}
		if strings.TrimSpace(input.ActivityTitle) == "" {
			return invalidField("activity_title", "required")
		}
	case entity.RecordTypeTravelVoucher:
		if strings.TrimSpace(input.ActivityTitle) == "" {
			return invalidField("activity_title", "required")
		}
	}
	return nil
}

// clearForeignFields zeroes fields that do not belong to the workflow type
// so a stray payload field never leaks into the stored document.
func (s *recordServiceImpl) clearForeignFields(rec *entity.Record) {
	switch s.spec.Type {
	case entity.RecordTypeProcurement:
		rec.SpeakerName = ""
		rec.ActivityTitle = ""
	case entity.RecordTypeHonoraria:
		rec.Title = ""
		rec.PRNumber = ""
	case entity.RecordTypeTravelVoucher:
		rec.Title = ""
		rec.PRNumber = ""
		rec.SpeakerName = ""
	}
}
