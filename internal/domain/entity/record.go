package entity

import "time"

// Record is a Procurement, Honoraria, or Travel Voucher document tracked
// through its phases. All three workflows share one shape; type-specific
// fields are populated according to Type. Phases are embedded, not
// separately addressable: single-phase workflows carry a one-element slice.
type Record struct {
	ID               string      `json:"id"`
	Type             RecordType  `json:"type"`
	Amount           float64     `json:"amount"`
	ProjectType      ProjectType `json:"project_type"`
	OtherProjectType string      `json:"other_project_type,omitempty"`
	Status           Status      `json:"status"`

	// Procurement fields.
	Title    string `json:"title,omitempty"`
	PRNumber string `json:"pr_number,omitempty"`

	// Honoraria fields.
	SpeakerName string `json:"speaker_name,omitempty"`

	// Honoraria and Travel Voucher fields.
	ActivityTitle string `json:"activity_title,omitempty"`

	Phases []Phase `json:"phases"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhaseByID returns the embedded phase with the given 1-based id, or nil.
func (r *Record) PhaseByID(id int) *Phase {
	for i := range r.Phases {
		if r.Phases[i].ID == id {
			return &r.Phases[i]
		}
	}
	return nil
}

// CompletedPhases counts the phases whose completion flag is set.
func (r *Record) CompletedPhases() int {
	n := 0
	for i := range r.Phases {
		if r.Phases[i].IsCompleted {
			n++
		}
	}
	return n
}

// AllPhasesCompleted returns true if every phase of the record is completed.
func (r *Record) AllPhasesCompleted() bool {
	return len(r.Phases) > 0 && r.CompletedPhases() == len(r.Phases)
}
