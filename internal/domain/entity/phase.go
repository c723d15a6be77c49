package entity

import "strings"

// ChecklistItem is a named boolean task within a phase.
type ChecklistItem struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Phase is an ordered stage of a record's workflow containing a checklist
// and two signature slots. Phase IDs are 1-based sequence positions and are
// stable for the life of the record.
type Phase struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Checklist   []ChecklistItem `json:"checklist"`
	SubmittedBy *Signature     `json:"submitted_by"`
	ReceivedBy  *Signature     `json:"received_by"`
	IsCompleted bool           `json:"is_completed"`
}

// AllChecked returns true if every checklist item is checked.
// An empty checklist counts as fully checked.
func (p *Phase) AllChecked() bool {
	for _, item := range p.Checklist {
		if !item.Checked {
			return false
		}
	}
	return true
}

// HasSignatures returns true if both sign-off slots are filled.
func (p *Phase) HasSignatures() bool {
	return !p.SubmittedBy.IsEmpty() && !p.ReceivedBy.IsEmpty()
}

// ChecklistItemID derives a stable checklist item identifier from its label:
// lower-cased with punctuation and spaces stripped. Identifiers are assigned
// once at phase-template creation and never change afterwards.
func ChecklistItemID(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
