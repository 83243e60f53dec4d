package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFProcessor exposes the per-page document operations the pipeline needs.
// Pages are numbered from 1.
type PDFProcessor interface {
	PageCount(pdfData []byte) (int, error)
	PageText(pdfData []byte, page int) (string, error)
	FirstImage(pdfData []byte, page int) (image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) PageCount(pdfData []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

func (p *pdfProcessor) PageText(pdfData []byte, page int) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", err
	}

	if page < 1 || page > r.NumPage() {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", page, r.NumPage())
	}

	pg := r.Page(page)
	if pg.V.IsNull() {
		return "", nil
	}

	var textBuilder strings.Builder
	rows, err := pg.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("failed to read text of page %d: %w", page, err)
	}
	for _, row := range rows {
		for i, word := range row.Content {
			if i > 0 {
				textBuilder.WriteString(" ")
			}
			textBuilder.WriteString(word.S)
		}
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

// FirstImage extracts the first embedded image of the given page. pdfcpu's
// extraction API works on files, so the document is staged through temp
// files and cleaned up before returning.
func (p *pdfProcessor) FirstImage(pdfData []byte, page int) (image.Image, error) {
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "doc-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	selected := []string{strconv.Itoa(page)}
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, selected, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images from page %d: %w", page, err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		f, err := os.Open(filepath.Join(tempDir, name))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			continue
		}
		return img, nil
	}

	return nil, fmt.Errorf("no image found on page %d", page)
}
