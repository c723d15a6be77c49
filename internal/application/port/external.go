package port

import (
	"context"

	"github.com/ilcdb/record-management/internal/domain/entity"
)

// CorrectionResult is the text-correction collaborator's answer for a
// malformed PR number.
type CorrectionResult struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Corrector proposes a best-matching valid PR number for a malformed input,
// given the set of PR numbers already on file.
type Corrector interface {
	Correct(ctx context.Context, rawValue string, candidates []string) (*CorrectionResult, error)
}

// SummaryExporter renders a record's phase summary into a downloadable
// document and reports the file extension it produces.
type SummaryExporter interface {
	Render(rec *entity.Record) ([]byte, error)
	Extension() string
}

// SignatureDecoder converts uploaded sign-off material (PNG/JPEG image data
// or a scanned PDF page) into the image string stored on a signature.
type SignatureDecoder interface {
	Decode(content []byte, filename string) (string, error)
}

// FileStorage persists generated files under a managed base directory.
type FileStorage interface {
	Save(relPath string, content []byte) (string, error)
}
