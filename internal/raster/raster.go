package raster

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/gen2brain/go-fitz"

	verrors "github.com/pagevault/pagevault/internal/errors"
	"github.com/pagevault/pagevault/internal/identity"
)

// Converter renders document pages to watermarked JPEG rasters.
type Converter struct {
	dpi     int
	quality int
	mark    *Watermarker
}

// NewConverter builds a Converter rendering at the given DPI and JPEG
// quality, stamping pages with the given watermarker.
func NewConverter(dpi, quality int, mark *Watermarker) *Converter {
	return &Converter{
		dpi:     dpi,
		quality: quality,
		mark:    mark,
	}
}

// PageCount parses the document and returns its page count.
// Returns ErrFormat if the bytes are unparsable or the document is empty.
func (c *Converter) PageCount(data []byte) (int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", verrors.ErrFormat, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages <= 0 {
		return 0, fmt.Errorf("%w: document has no pages", verrors.ErrFormat)
	}

	return pages, nil
}

// RenderPage renders one zero-indexed page as an RGB raster at the
// converter's DPI.
func (c *Converter) RenderPage(data []byte, pageIndex int) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrFormat, err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return nil, fmt.Errorf("%w: page %d out of range", verrors.ErrFormat, pageIndex)
	}

	img, err := doc.ImageDPI(pageIndex, float64(c.dpi))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex, err)
	}

	return img, nil
}

// ConvertAll renders and stamps every page in order, writing JPEG files
// named page_001.jpg, page_002.jpg, ... into destDir. The viewer identity
// and the stamp timestamp are fixed once for the whole conversion, so every
// page of a document carries the same label.
//
// Returns the page filenames in order. Pages are rendered sequentially; the
// underlying document handle is not safe for concurrent use.
func (c *Converter) ConvertAll(ctx context.Context, data []byte, viewer identity.Identity, destDir string) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrFormat, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages <= 0 {
		return nil, fmt.Errorf("%w: document has no pages", verrors.ErrFormat)
	}

	if err := os.MkdirAll(destDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create raster directory %s: %w", destDir, err)
	}

	stampedAt := time.Now()
	files := make([]string, 0, pages)

	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(page, float64(c.dpi))
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", page+1, err)
		}

		stamped, err := c.mark.Stamp(img, viewer, stampedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to watermark page %d: %w", page+1, err)
		}

		fileName := PageFileName(page + 1)
		if err := c.writeJPEG(filepath.Join(destDir, fileName), stamped); err != nil {
			return nil, err
		}

		files = append(files, fileName)
	}

	return files, nil
}

// PageFileName returns the raster file name for a 1-based page number.
func PageFileName(pageNumber int) string {
	return fmt.Sprintf("page_%03d.jpg", pageNumber)
}

func (c *Converter) writeJPEG(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create page image %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close page image: %w", closeErr)
		}
	}()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return fmt.Errorf("failed to encode page image %s: %w", path, err)
	}

	return nil
}
