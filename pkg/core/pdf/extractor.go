// Package pdf turns uploaded PDF bytes into plain text. The extraction
// library is hidden behind TextExtractor so the pipeline treats it as an
// opaque dependency.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxUploadBytes bounds accepted uploads. Larger statements exceed any
// provider context window anyway.
const MaxUploadBytes = 50 << 20

// TextExtractor converts PDF bytes into text.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdfBytes []byte) (string, error)
}

// CpuExtractor implements TextExtractor with pdfcpu. pdfcpu works on
// files, so input bytes round-trip through a temp directory.
type CpuExtractor struct {
	tempDir string
}

var _ TextExtractor = (*CpuExtractor)(nil)

func NewCpuExtractor() *CpuExtractor {
	tempDir := filepath.Join(os.TempDir(), "ma-diligence-pdf")
	os.MkdirAll(tempDir, 0o755)
	return &CpuExtractor{tempDir: tempDir}
}

// workPaths returns a fresh temp PDF path and page directory for one
// extraction. Paths are unique per call, not per process, so concurrent
// uploads never share files.
func (e *CpuExtractor) workPaths() (tempFile, outDir string) {
	id := uuid.NewString()
	return filepath.Join(e.tempDir, "upload_"+id+".pdf"),
		filepath.Join(e.tempDir, "pages_"+id)
}

func (e *CpuExtractor) ExtractText(ctx context.Context, pdfBytes []byte) (string, error) {
	if len(pdfBytes) == 0 {
		return "", fmt.Errorf("empty PDF input")
	}
	if len(pdfBytes) > MaxUploadBytes {
		return "", fmt.Errorf("PDF exceeds %d byte limit", MaxUploadBytes)
	}

	tempFile, outDir := e.workPaths()
	if err := os.WriteFile(tempFile, pdfBytes, 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	pageCount := pdfCtx.PageCount

	os.MkdirAll(outDir, 0o755)
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to list extracted pages: %w", err)
	}

	pageTexts := make(map[int]string)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err != nil {
				continue
			}
		}
		pageTexts[pageNum] = string(content)
	}

	var builder strings.Builder
	for i := 1; i <= pageCount; i++ {
		if i > 1 {
			builder.WriteString(fmt.Sprintf("\n\n--- Page %d ---\n\n", i))
		}
		builder.WriteString(pageTexts[i])
	}
	return builder.String(), nil
}
