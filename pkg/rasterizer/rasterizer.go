package rasterizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrNotFound is returned when the source PDF path does not exist.
var ErrNotFound = errors.New("pdf file does not exist")

// PageImage is one rendered page. Number is 1-based and follows
// rasterization order; downstream stages key every artifact of the page
// on it rather than re-deriving order from file names.
type PageImage struct {
	Number int
	Path   string
}

// PageRasterizer converts a PDF into an ordered sequence of page images.
type PageRasterizer interface {
	Rasterize(ctx context.Context, pdfPath, outputDir string) ([]PageImage, error)
}

// PopplerRasterizer renders pages with poppler's pdftoppm, one page per
// invocation so artifact names stay under our control. pdfcpu validates
// the document and supplies the page count up front.
type PopplerRasterizer struct {
	DPI int
}

func New(dpi int) *PopplerRasterizer {
	if dpi <= 0 {
		dpi = 300
	}
	return &PopplerRasterizer{DPI: dpi}
}

// Rasterize renders every page of the PDF into outputDir as JPEG at the
// configured DPI. Any rendering fault fails the whole document: no
// partial sequence is returned.
func (r *PopplerRasterizer) Rasterize(ctx context.Context, pdfPath, outputDir string) ([]PageImage, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, pdfPath)
		}
		return nil, err
	}

	pageCount, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	pages := make([]PageImage, 0, pageCount)
	for number := 1; number <= pageCount; number++ {
		target := filepath.Join(outputDir, strings.TrimSuffix(PageImageName(number), ".jpg"))
		cmd := exec.CommandContext(ctx, "pdftoppm",
			"-jpeg",
			"-r", strconv.Itoa(r.DPI),
			"-f", strconv.Itoa(number),
			"-l", strconv.Itoa(number),
			"-singlefile",
			pdfPath,
			target,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("rendering page %d failed: %v: %s", number, err, strings.TrimSpace(string(out)))
		}
		pages = append(pages, PageImage{Number: number, Path: target + ".jpg"})
	}

	return pages, nil
}

// PageImageName returns the zero-padded image artifact name for a page,
// so natural sort order equals page order.
func PageImageName(number int) string {
	return fmt.Sprintf("page_%03d.jpg", number)
}

// PageTextName returns the text artifact name paired with a page image.
func PageTextName(number int) string {
	return fmt.Sprintf("page_%03d_text.txt", number)
}

// ParsePageNumber recovers the page number from an image artifact name
// produced by PageImageName. Used by reprocessing, which starts from a
// bucket listing instead of a live rasterization run.
func ParsePageNumber(name string) (int, bool) {
	var number int
	if _, err := fmt.Sscanf(filepath.Base(name), "page_%d", &number); err != nil {
		return 0, false
	}
	return number, true
}
