package entity

import (
	"strings"
	"time"
)

// Signature represents a captured sign-off by a submitting or receiving party.
// A phase stores signatures as pointers: nil means no sign-off has been captured.
type Signature struct {
	Name           string     `json:"name"`
	Date           *time.Time `json:"date"`
	Remarks        string     `json:"remarks"`
	SignatureImage string     `json:"signature_image"`
}

// IsEmpty returns true if no field of the signature carries data.
// Empty signatures are normalized to nil before persistence so that a
// cleared sign-off never counts toward phase completion.
func (s *Signature) IsEmpty() bool {
	if s == nil {
		return true
	}
	return strings.TrimSpace(s.Name) == "" &&
		s.Date == nil &&
		strings.TrimSpace(s.Remarks) == "" &&
		s.SignatureImage == ""
}

// Normalize returns nil for empty signatures, otherwise the signature itself.
func (s *Signature) Normalize() *Signature {
	if s.IsEmpty() {
		return nil
	}
	return s
}
