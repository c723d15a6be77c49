package lifecycle

import "github.com/ilcdb/record-management/internal/domain/entity"

// PhaseDef describes one phase of a workflow template: its display name and
// the labels of its required checklist documents.
type PhaseDef struct {
	Name      string
	Checklist []string
}

// TypeSpec is the per-workflow configuration driving the generic lifecycle
// engine. The three workflows are structurally identical; their behavioral
// differences are captured entirely by these fields.
type TypeSpec struct {
	Type       entity.RecordType
	Collection string

	// RequireChecklist gates phase completion on every checklist item being
	// checked. Procurement enforces this; the single-phase workflows complete
	// on signatures alone.
	RequireChecklist bool

	// CompletionStatus is applied to the record when its last phase completes.
	// Empty means phase completion never changes record status on its own.
	CompletionStatus entity.Status

	// Statuses lists the statuses this workflow can resolve to.
	Statuses []entity.Status

	PhaseTemplate []PhaseDef
}

// HasStatus returns true if the workflow can resolve to the given status.
func (s TypeSpec) HasStatus(status entity.Status) bool {
	for _, st := range s.Statuses {
		if st == status {
			return true
		}
	}
	return false
}

// NewPhases builds a fresh phase sequence from the template: all checklist
// items unchecked, both signature slots empty, completion flag down.
func (s TypeSpec) NewPhases() []entity.Phase {
	phases := make([]entity.Phase, 0, len(s.PhaseTemplate))
	for i, def := range s.PhaseTemplate {
		checklist := make([]entity.ChecklistItem, 0, len(def.Checklist))
		for _, label := range def.Checklist {
			checklist = append(checklist, entity.ChecklistItem{
				ID:    entity.ChecklistItemID(label),
				Label: label,
			})
		}
		phases = append(phases, entity.Phase{
			ID:        i + 1,
			Name:      def.Name,
			Checklist: checklist,
		})
	}
	return phases
}

// Procurement tracks a purchase through the six-step government procurement
// paper trail. Completion of a phase requires the full checklist and both
// signatures; completing all phases does not change the record status, only
// the explicit archive action does.
var Procurement = TypeSpec{
	Type:             entity.RecordTypeProcurement,
	Collection:       "procurements",
	RequireChecklist: true,
	CompletionStatus: "",
	Statuses:         []entity.Status{entity.StatusActive, entity.StatusArchived},
	PhaseTemplate: []PhaseDef{
		{
			Name: "Purchase Request",
			Checklist: []string{
				"Purchase Request Form",
				"Certificate of Availability of Funds",
				"Market Study",
				"Approved Annual Procurement Plan Reference",
			},
		},
		{
			Name: "RFQ & Abstract of Quotation",
			Checklist: []string{
				"Request for Quotation",
				"Price Quotations from Three Suppliers",
				"Abstract of Quotation",
			},
		},
		{
			Name: "Purchase Order",
			Checklist: []string{
				"Purchase Order Form",
				"Supplier Conforme",
				"Notice to Proceed",
			},
		},
		{
			Name: "Inspection & Acceptance",
			Checklist: []string{
				"Inspection and Acceptance Report",
				"Delivery Receipt",
				"Property Acknowledgement Receipt",
			},
		},
		{
			Name: "Disbursement Voucher",
			Checklist: []string{
				"Disbursement Voucher",
				"Obligation Request and Status",
				"Official Receipt",
			},
		},
		{
			Name: "Archiving",
			Checklist: []string{
				"Complete Document Compilation",
				"Scanned Copies Uploaded",
			},
		},
	},
}

// Honoraria tracks speaker honoraria through a single requirements phase.
// The phase completes on signatures alone, and completion archives the record.
var Honoraria = TypeSpec{
	Type:             entity.RecordTypeHonoraria,
	Collection:       "honoraria",
	RequireChecklist: false,
	CompletionStatus: entity.StatusArchived,
	Statuses:         []entity.Status{entity.StatusActive, entity.StatusCompleted, entity.StatusArchived},
	PhaseTemplate: []PhaseDef{
		{
			Name: "Honoraria Requirements",
			Checklist: []string{
				"Office Order",
				"Attendance Sheet",
				"Certificate of Service Rendered",
				"Speaker Resume",
				"Payroll and Disbursement Voucher",
			},
		},
	},
}

// TravelVoucher tracks travel reimbursements through a single requirements
// phase. The phase completes on signatures alone, and completion marks the
// record completed.
var TravelVoucher = TypeSpec{
	Type:             entity.RecordTypeTravelVoucher,
	Collection:       "travel_vouchers",
	RequireChecklist: false,
	CompletionStatus: entity.StatusCompleted,
	Statuses:         []entity.Status{entity.StatusActive, entity.StatusCompleted, entity.StatusArchived},
	PhaseTemplate: []PhaseDef{
		{
			Name: "Travel Voucher Requirements",
			Checklist: []string{
				"Travel Order",
				"Itinerary of Travel",
				"Certificate of Appearance",
				"Certificate of Travel Completed",
				"Boarding Pass and Tickets",
			},
		},
	},
}

// Specs lists all workflow type specs in collection order.
var Specs = []TypeSpec{Procurement, Honoraria, TravelVoucher}

// SpecFor returns the type spec for a record type.
func SpecFor(t entity.RecordType) (TypeSpec, error) {
	for _, s := range Specs {
		if s.Type == t {
			return s, nil
		}
	}
	return TypeSpec{}, ErrUnknownRecordType
}
