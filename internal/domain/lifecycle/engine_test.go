package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/ilcdb/record-management/internal/domain/entity"
)

func signature(name string) *entity.Signature {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	return &entity.Signature{
		Name:           name,
		Date:           &now,
		Remarks:        "noted",
		SignatureImage: "data:image/png;base64,iVBOR",
	}
}

func newRecord(spec TypeSpec) *entity.Record {
	return &entity.Record{
		ID:          "rec-1",
		Type:        spec.Type,
		Amount:      1500,
		ProjectType: entity.ProjectTypeSPARK,
		Status:      entity.StatusActive,
		Phases:      spec.NewPhases(),
	}
}

// checkedPhase returns a copy of the record's phase with every checklist
// item flagged per checked and the given signatures attached.
func checkedPhase(rec *entity.Record, phaseID int, checked bool, submitted, received *entity.Signature) entity.Phase {
	src := rec.PhaseByID(phaseID)
	proposed := entity.Phase{
		ID:          phaseID,
		Name:        src.Name,
		SubmittedBy: submitted,
		ReceivedBy:  received,
	}
	for _, item := range src.Checklist {
		item.Checked = checked
		proposed.Checklist = append(proposed.Checklist, item)
	}
	return proposed
}

func TestProcurementPhaseCompletion(t *testing.T) {
	tests := []struct {
		name          string
		allChecked    bool
		submitted     *entity.Signature
		received      *entity.Signature
		wantCompleted bool
	}{
		{"all checked and both signatures", true, signature("J. Cruz"), signature("M. Reyes"), true},
		{"all checked but missing received", true, signature("J. Cruz"), nil, false},
		{"all checked but missing submitted", true, nil, signature("M. Reyes"), false},
		{"signatures without checklist", false, signature("J. Cruz"), signature("M. Reyes"), false},
		{"nothing filled", false, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(Procurement)
			rec := newRecord(Procurement)

			proposed := checkedPhase(rec, 1, tt.allChecked, tt.submitted, tt.received)
			if _, err := engine.ApplyPhaseUpdate(rec, proposed); err != nil {
				t.Fatalf("ApplyPhaseUpdate() error = %v", err)
			}

			if got := rec.PhaseByID(1).IsCompleted; got != tt.wantCompleted {
				t.Errorf("IsCompleted = %v, want %v", got, tt.wantCompleted)
			}
			if rec.Status != entity.StatusActive {
				t.Errorf("status = %s, procurement phase completion must not change status", rec.Status)
			}
		})
	}
}

func TestProcurementUncheckingItemFlipsCompletion(t *testing.T) {
	engine := NewEngine(Procurement)
	rec := newRecord(Procurement)

	proposed := checkedPhase(rec, 2, true, signature("J. Cruz"), signature("M. Reyes"))
	if _, err := engine.ApplyPhaseUpdate(rec, proposed); err != nil {
		t.Fatalf("ApplyPhaseUpdate() error = %v", err)
	}
	if !rec.PhaseByID(2).IsCompleted {
		t.Fatal("phase should be completed after full checklist and signatures")
	}

	// Uncheck a single item and recompute.
	proposed = checkedPhase(rec, 2, true, signature("J. Cruz"), signature("M. Reyes"))
	proposed.Checklist[0].Checked = false
	if _, err := engine.ApplyPhaseUpdate(rec, proposed); err != nil {
		t.Fatalf("ApplyPhaseUpdate() error = %v", err)
	}
	if rec.PhaseByID(2).IsCompleted {
		t.Error("unchecking one item must flip IsCompleted back to false")
	}
}

func TestSinglePhaseCompletionIgnoresChecklist(t *testing.T) {
	for _, spec := range []TypeSpec{Honoraria, TravelVoucher} {
		t.Run(string(spec.Type), func(t *testing.T) {
			engine := NewEngine(spec)
			rec := newRecord(spec)

			// Checklist fully unchecked, both signatures present.
			proposed := checkedPhase(rec, 1, false, signature("J. Cruz"), signature("M. Reyes"))
			if _, err := engine.ApplyPhaseUpdate(rec, proposed); err != nil {
				t.Fatalf("ApplyPhaseUpdate() error = %v", err)
			}
			if !rec.PhaseByID(1).IsCompleted {
				t.Error("single-phase workflows complete on signatures alone")
			}
		})
	}
}

func TestCompletionStatusPerType(t *testing.T) {
	tests := []struct {
		spec       TypeSpec
		wantStatus entity.Status
		wantChange bool
	}{
		{Honoraria, entity.StatusArchived, true},
		{TravelVoucher, entity.StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.spec.Type), func(t *testing.T) {
			engine := NewEngine(tt.spec)
			rec := newRecord(tt.spec)

			proposed := checkedPhase(rec, 1, true, signature("J. Cruz"), signature("M. Reyes"))
			changed, err := engine.ApplyPhaseUpdate(rec, proposed)
			if err != nil {
				t.Fatalf("ApplyPhaseUpdate() error = %v", err)
			}
			if changed != tt.wantChange {
				t.Errorf("statusChanged = %v, want %v", changed, tt.wantChange)
			}
			if rec.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", rec.Status, tt.wantStatus)
			}
		})
	}
}

func TestProcurementStatusUnchangedByFullCompletion(t *testing.T) {
	engine := NewEngine(Procurement)
	rec := newRecord(Procurement)

	for _, phase := range rec.Phases {
		proposed := checkedPhase(rec, phase.ID, true, signature("J. Cruz"), signature("M. Reyes"))
		changed, err := engine.ApplyPhaseUpdate(rec, proposed)
		if err != nil {
			t.Fatalf("phase %d: ApplyPhaseUpdate() error = %v", phase.ID, err)
		}
		if changed {
			t.Errorf("phase %d: procurement completion must never change status", phase.ID)
		}
	}

	if !rec.AllPhasesCompleted() {
		t.Fatal("all phases should be completed")
	}
	if rec.Status != entity.StatusActive {
		t.Errorf("status = %s, want active", rec.Status)
	}
}

func TestApplyPhaseUpdateUnknownPhase(t *testing.T) {
	engine := NewEngine(Procurement)
	rec := newRecord(Procurement)

	_, err := engine.ApplyPhaseUpdate(rec, entity.Phase{ID: 99})
	if !errors.Is(err, ErrPhaseNotFound) {
		t.Fatalf("error = %v, want ErrPhaseNotFound", err)
	}
}

func TestEmptySignatureDoesNotCount(t *testing.T) {
	engine := NewEngine(Honoraria)
	rec := newRecord(Honoraria)

	// A signature object with no data is the UI's transient blank form; it
	// must normalize to nil and never satisfy the completion rule.
	proposed := checkedPhase(rec, 1, true, &entity.Signature{}, signature("M. Reyes"))
	if _, err := engine.ApplyPhaseUpdate(rec, proposed); err != nil {
		t.Fatalf("ApplyPhaseUpdate() error = %v", err)
	}

	phase := rec.PhaseByID(1)
	if phase.SubmittedBy != nil {
		t.Error("empty signature should be normalized to nil")
	}
	if phase.IsCompleted {
		t.Error("phase must not complete with an empty submitted-by signature")
	}
}

func TestArchiveUnarchive(t *testing.T) {
	engine := NewEngine(Procurement)
	rec := newRecord(Procurement)

	if err := engine.Archive(rec); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if rec.Status != entity.StatusArchived {
		t.Fatalf("status = %s, want archived", rec.Status)
	}
	if err := engine.Archive(rec); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("double archive error = %v, want ErrInvalidStatusTransition", err)
	}

	if err := engine.Unarchive(rec); err != nil {
		t.Fatalf("Unarchive() error = %v", err)
	}
	if rec.Status != entity.StatusActive {
		t.Errorf("status = %s, want active", rec.Status)
	}
	if err := engine.Unarchive(rec); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("unarchive active record error = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	// Procurement does not use the completed status.
	engine := NewEngine(Procurement)
	rec := newRecord(Procurement)
	if err := engine.MarkCompleted(rec); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("procurement MarkCompleted error = %v, want ErrInvalidStatusTransition", err)
	}

	engine = NewEngine(Honoraria)
	rec = newRecord(Honoraria)
	if err := engine.MarkCompleted(rec); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}
	if rec.Status != entity.StatusCompleted {
		t.Errorf("status = %s, want completed", rec.Status)
	}
}

func TestProgress(t *testing.T) {
	rec := newRecord(Procurement)
	if got := Progress(rec); got != 0 {
		t.Errorf("fresh record progress = %v, want 0", got)
	}

	// Three of six procurement phases completed: exactly 50.0.
	for i := 0; i < 3; i++ {
		rec.Phases[i].IsCompleted = true
	}
	if got := Progress(rec); got != 50.0 {
		t.Errorf("progress = %v, want 50.0", got)
	}

	single := newRecord(TravelVoucher)
	if got := Progress(single); got != 0 {
		t.Errorf("single-phase progress = %v, want 0", got)
	}
	single.Phases[0].IsCompleted = true
	if got := Progress(single); got != 100 {
		t.Errorf("single-phase progress = %v, want 100", got)
	}
}

func TestNewPhasesTemplate(t *testing.T) {
	phases := Procurement.NewPhases()
	if len(phases) != 6 {
		t.Fatalf("procurement template has %d phases, want 6", len(phases))
	}
	for i, p := range phases {
		if p.ID != i+1 {
			t.Errorf("phase %d has id %d, want %d", i, p.ID, i+1)
		}
		if p.IsCompleted || p.SubmittedBy != nil || p.ReceivedBy != nil {
			t.Errorf("phase %d: fresh template must be untouched", p.ID)
		}
		for _, item := range p.Checklist {
			if item.Checked {
				t.Errorf("phase %d item %s: fresh checklist must be unchecked", p.ID, item.ID)
			}
			if item.ID != entity.ChecklistItemID(item.Label) {
				t.Errorf("phase %d item %q: id %q not derived from label", p.ID, item.Label, item.ID)
			}
		}
	}

	if n := len(Honoraria.NewPhases()); n != 1 {
		t.Errorf("honoraria template has %d phases, want 1", n)
	}
	if n := len(TravelVoucher.NewPhases()); n != 1 {
		t.Errorf("travel voucher template has %d phases, want 1", n)
	}
}

func TestChecklistItemID(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Purchase Request Form", "purchaserequestform"},
		{"RFQ & Abstract of Quotation", "rfqabstractofquotation"},
		{"Price Quotations from Three Suppliers", "pricequotationsfromthreesuppliers"},
	}
	for _, tt := range tests {
		if got := entity.ChecklistItemID(tt.label); got != tt.want {
			t.Errorf("ChecklistItemID(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
