// Package lifecycle implements the record lifecycle engine: the phase,
// checklist, and signature rules that govern how Procurement, Honoraria,
// and Travel Voucher records progress toward completion.
package lifecycle

import (
	"fmt"

	"github.com/ilcdb/record-management/internal/domain/entity"
)

// Engine applies phase updates and explicit status actions to records of a
// single workflow type. It mutates the record in place and reports whether
// the record-level status changed as a result.
type Engine struct {
	spec TypeSpec
}

// NewEngine creates a lifecycle engine for the given workflow type spec.
func NewEngine(spec TypeSpec) *Engine {
	return &Engine{spec: spec}
}

// Spec returns the workflow type spec the engine was built with.
func (e *Engine) Spec() TypeSpec {
	return e.spec
}

// ApplyPhaseUpdate replaces the checklist and signature data of the phase
// named by proposed.ID and recomputes the phase completion flag and, where
// the workflow defines one, the record-level completion status.
//
// A proposed phase whose id matches no phase on the record is rejected with
// ErrPhaseNotFound; the record is left untouched.
func (e *Engine) ApplyPhaseUpdate(rec *entity.Record, proposed entity.Phase) (statusChanged bool, err error) {
	phase := rec.PhaseByID(proposed.ID)
	if phase == nil {
		return false, fmt.Errorf("%w: record %s has no phase %d", ErrPhaseNotFound, rec.ID, proposed.ID)
	}

	phase.Checklist = mergeChecklist(phase.Checklist, proposed.Checklist)
	phase.SubmittedBy = proposed.SubmittedBy.Normalize()
	phase.ReceivedBy = proposed.ReceivedBy.Normalize()
	phase.IsCompleted = e.phaseComplete(phase)

	if e.spec.CompletionStatus == "" {
		return false, nil
	}
	if rec.Status == entity.StatusActive && rec.AllPhasesCompleted() {
		rec.Status = e.spec.CompletionStatus
		return true, nil
	}
	return false, nil
}

// phaseComplete evaluates the completion rule for a phase. Both signatures
// are always required; the checklist condition applies only to workflows
// that enforce it.
func (e *Engine) phaseComplete(p *entity.Phase) bool {
	if !p.HasSignatures() {
		return false
	}
	if e.spec.RequireChecklist && !p.AllChecked() {
		return false
	}
	return true
}

// mergeChecklist applies the checked flags of the proposed checklist onto the
// record's own checklist, matching items by id. Items the proposal does not
// name keep their current state; items the template does not know are dropped.
func mergeChecklist(current, proposed []entity.ChecklistItem) []entity.ChecklistItem {
	checked := make(map[string]bool, len(proposed))
	for _, item := range proposed {
		checked[item.ID] = item.Checked
	}
	merged := make([]entity.ChecklistItem, len(current))
	copy(merged, current)
	for i := range merged {
		if v, ok := checked[merged[i].ID]; ok {
			merged[i].Checked = v
		}
	}
	return merged
}

// Archive sets the record status to archived. Allowed from any non-archived
// status in every workflow.
func (e *Engine) Archive(rec *entity.Record) error {
	if rec.Status == entity.StatusArchived {
		return fmt.Errorf("%w: record %s is already archived", ErrInvalidStatusTransition, rec.ID)
	}
	rec.Status = entity.StatusArchived
	return nil
}

// Unarchive returns an archived record to the active status.
func (e *Engine) Unarchive(rec *entity.Record) error {
	if rec.Status != entity.StatusArchived {
		return fmt.Errorf("%w: record %s is not archived", ErrInvalidStatusTransition, rec.ID)
	}
	rec.Status = entity.StatusActive
	return nil
}

// MarkCompleted sets the record status to completed via explicit user action.
// Only workflows whose status set includes completed permit this.
func (e *Engine) MarkCompleted(rec *entity.Record) error {
	if !e.spec.HasStatus(entity.StatusCompleted) {
		return fmt.Errorf("%w: %s records do not use the completed status", ErrInvalidStatusTransition, e.spec.Type)
	}
	if rec.Status != entity.StatusActive {
		return fmt.Errorf("%w: record %s is not active", ErrInvalidStatusTransition, rec.ID)
	}
	rec.Status = entity.StatusCompleted
	return nil
}

// Progress returns the record's completion percentage in [0,100]. Multi-phase
// workflows report completed/total; single-phase workflows are binary.
func Progress(rec *entity.Record) float64 {
	if len(rec.Phases) == 0 {
		return 0
	}
	return float64(rec.CompletedPhases()) / float64(len(rec.Phases)) * 100
}
