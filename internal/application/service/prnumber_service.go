package service

import (
	"context"
	"fmt"

	"github.com/ilcdb/record-management/internal/application/port"
	"github.com/ilcdb/record-management/internal/domain/entity"
	"github.com/ilcdb/record-management/pkg/utils"
)

// SuggestionThreshold is the minimum corrector confidence required before a
// PR number suggestion is surfaced to the user.
const SuggestionThreshold = 0.7

// PRSuggestion is an advisory correction for a malformed PR number. It is
// never applied automatically.
type PRSuggestion struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// PRNumberService validates procurement PR numbers and, for malformed input,
// asks the text-correction collaborator for a best-matching valid value.
type PRNumberService interface {
	// Validate checks format and uniqueness. excludeID names the record being
	// edited so its own prior value does not count as a duplicate.
	Validate(ctx context.Context, prNumber, excludeID string) error

	// Suggest returns an advisory correction for a malformed PR number, or
	// nil when no suggestion clears the confidence gate. Corrector failures
	// are logged and swallowed; they never block the submit flow.
	Suggest(ctx context.Context, rawValue string) (*PRSuggestion, error)
}

type prNumberServiceImpl struct {
	procurements port.RecordRepository
	corrector    port.Corrector
	logger       Logger
}

// NewPRNumberService creates a PRNumberService. corrector may be nil, in
// which case Suggest always returns no suggestion.
func NewPRNumberService(procurements port.RecordRepository, corrector port.Corrector, logger Logger) PRNumberService {
	return &prNumberServiceImpl{
		procurements: procurements,
		corrector:    corrector,
		logger:       logger,
	}
}

// Validate checks the PR number format and its uniqueness across all
// procurement records, active and archived alike.
func (s *prNumberServiceImpl) Validate(ctx context.Context, prNumber, excludeID string) error {
	if err := utils.ValidatePRNumber(prNumber); err != nil {
		return invalidField("pr_number", err.Error())
	}

	records, err := s.procurements.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list procurements: %w", err)
	}
	for _, rec := range records {
		if rec.ID == excludeID {
			continue
		}
		if rec.PRNumber == prNumber {
			return fmt.Errorf("%w: %s already used by record %s", ErrDuplicatePRNumber, prNumber, rec.ID)
		}
	}
	return nil
}

func (s *prNumberServiceImpl) Suggest(ctx context.Context, rawValue string) (*PRSuggestion, error) {
	if s.corrector == nil {
		return nil, nil
	}

	candidates, err := s.existingPRNumbers(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.corrector.Correct(ctx, rawValue, candidates)
	if err != nil {
		// Advisory path only: log and carry on without a suggestion.
		s.logger.Error("PR number correction failed", "raw_value", rawValue, "error", err)
		return nil, nil
	}

	if result == nil || result.Confidence <= SuggestionThreshold {
		return nil, nil
	}
	if result.Suggestion == rawValue {
		return nil, nil
	}
	if utils.ValidatePRNumber(result.Suggestion) != nil {
		s.logger.Error("Corrector returned malformed suggestion", "suggestion", result.Suggestion)
		return nil, nil
	}

	return &PRSuggestion{Suggestion: result.Suggestion, Confidence: result.Confidence}, nil
}

func (s *prNumberServiceImpl) existingPRNumbers(ctx context.Context) ([]string, error) {
	records, err := s.procurements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list procurements: %w", err)
	}
	numbers := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Type == entity.RecordTypeProcurement && rec.PRNumber != "" {
			numbers = append(numbers, rec.PRNumber)
		}
	}
	return numbers, nil
}
