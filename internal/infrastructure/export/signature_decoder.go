package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/ilcdb/record-management/internal/application/port"
)

// SignatureDecoder converts uploaded sign-off files into the image string
// persisted on a signature. PNG and JPEG uploads are stored as-is; PDF
// sign-off sheets are rasterized to the first page via mupdf.
type SignatureDecoder struct {
	logger *zap.Logger
}

// NewSignatureDecoder creates a SignatureDecoder.
func NewSignatureDecoder(logger *zap.Logger) *SignatureDecoder {
	return &SignatureDecoder{logger: logger}
}

// Decode returns a data-URL image string for the uploaded file.
func (d *SignatureDecoder) Decode(content []byte, filename string) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty upload")
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png":
		return dataURL("image/png", content), nil
	case ".jpg", ".jpeg":
		return dataURL("image/jpeg", content), nil
	case ".pdf":
		return d.rasterizePDF(content)
	default:
		return "", fmt.Errorf("unsupported signature file type: %s", ext)
	}
}

// rasterizePDF renders the first page of a scanned sign-off sheet to PNG.
func (d *SignatureDecoder) rasterizePDF(content []byte) (string, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	img, err := doc.Image(0)
	if err != nil {
		return "", fmt.Errorf("failed to render PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode page image: %w", err)
	}

	d.logger.Debug("Rasterized PDF signature sheet",
		zap.Int("pages", doc.NumPage()),
		zap.Int("png_bytes", buf.Len()))
	return dataURL("image/png", buf.Bytes()), nil
}

func dataURL(mime string, content []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(content))
}

// Verify interface compliance
var _ port.SignatureDecoder = (*SignatureDecoder)(nil)
