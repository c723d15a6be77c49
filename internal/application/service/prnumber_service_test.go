package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilcdb/record-management/internal/application/port"
	"github.com/ilcdb/record-management/internal/domain/entity"
)

func procurementRecord(id, prNumber string) *entity.Record {
	return &entity.Record{
		ID:       id,
		Type:     entity.RecordTypeProcurement,
		PRNumber: prNumber,
		Status:   entity.StatusActive,
	}
}

func TestPRNumberService_Validate_Format(t *testing.T) {
	svc := NewPRNumberService(newMockRecordRepo(), nil, nopLogger{})

	tests := []struct {
		name     string
		prNumber string
		valid    bool
	}{
		{"canonical", "2024-01-01", true},
		{"arbitrary digits", "9999-99-99", true},
		{"misplaced dash", "202-4-01-01", false},
		{"too few digits", "2024-1-01", false},
		{"letters", "2O24-01-01", false},
		{"empty", "", false},
		{"trailing garbage", "2024-01-013", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(context.Background(), tt.prNumber, "")
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
			}
		})
	}
}

func TestPRNumberService_Validate_Duplicate(t *testing.T) {
	repo := newMockRecordRepo()
	require.NoError(t, repo.Insert(context.Background(), procurementRecord("rec-1", "2024-03-15")))
	svc := NewPRNumberService(repo, nil, nopLogger{})

	err := svc.Validate(context.Background(), "2024-03-15", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicatePRNumber)

	// Editing the owning record keeps its own value valid.
	assert.NoError(t, svc.Validate(context.Background(), "2024-03-15", "rec-1"))

	// A different record still collides even when an excludeID is set.
	err = svc.Validate(context.Background(), "2024-03-15", "rec-2")
	assert.ErrorIs(t, err, ErrDuplicatePRNumber)
}

func TestPRNumberService_Validate_ArchivedRecordsCount(t *testing.T) {
	repo := newMockRecordRepo()
	archived := procurementRecord("rec-1", "2023-11-02")
	archived.Status = entity.StatusArchived
	require.NoError(t, repo.Insert(context.Background(), archived))
	svc := NewPRNumberService(repo, nil, nopLogger{})

	err := svc.Validate(context.Background(), "2023-11-02", "")
	assert.ErrorIs(t, err, ErrDuplicatePRNumber)
}

func TestPRNumberService_Suggest(t *testing.T) {
	tests := []struct {
		name       string
		result     *port.CorrectionResult
		correctErr error
		rawValue   string
		want       *PRSuggestion
	}{
		{
			name:     "confident differing suggestion surfaces",
			result:   &port.CorrectionResult{Suggestion: "2024-01-01", Confidence: 0.92},
			rawValue: "2024-1-01",
			want:     &PRSuggestion{Suggestion: "2024-01-01", Confidence: 0.92},
		},
		{
			name:     "confidence at threshold is dropped",
			result:   &port.CorrectionResult{Suggestion: "2024-01-01", Confidence: 0.7},
			rawValue: "2024-1-01",
			want:     nil,
		},
		{
			name:     "suggestion equal to input is dropped",
			result:   &port.CorrectionResult{Suggestion: "2024-1-01", Confidence: 0.95},
			rawValue: "2024-1-01",
			want:     nil,
		},
		{
			name:     "malformed suggestion is dropped",
			result:   &port.CorrectionResult{Suggestion: "not-a-number", Confidence: 0.95},
			rawValue: "2024-1-01",
			want:     nil,
		},
		{
			name:       "corrector failure is swallowed",
			correctErr: errors.New("upstream timeout"),
			rawValue:   "2024-1-01",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corrector := &mockCorrector{
				correctFunc: func(ctx context.Context, rawValue string, candidates []string) (*port.CorrectionResult, error) {
					return tt.result, tt.correctErr
				},
			}
			svc := NewPRNumberService(newMockRecordRepo(), corrector, nopLogger{})

			got, err := svc.Suggest(context.Background(), tt.rawValue)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPRNumberService_SuggestWithoutCorrector(t *testing.T) {
	svc := NewPRNumberService(newMockRecordRepo(), nil, nopLogger{})

	got, err := svc.Suggest(context.Background(), "2024-1-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPRNumberService_SuggestPassesCandidates(t *testing.T) {
	repo := newMockRecordRepo()
	require.NoError(t, repo.Insert(context.Background(), procurementRecord("rec-1", "2024-05-01")))
	require.NoError(t, repo.Insert(context.Background(), procurementRecord("rec-2", "2024-05-02")))

	var seen []string
	corrector := &mockCorrector{
		correctFunc: func(ctx context.Context, rawValue string, candidates []string) (*port.CorrectionResult, error) {
			seen = candidates
			return nil, nil
		},
	}
	svc := NewPRNumberService(repo, corrector, nopLogger{})

	_, err := svc.Suggest(context.Background(), "2024-5-01")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2024-05-01", "2024-05-02"}, seen)
}
