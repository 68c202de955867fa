package assembler

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/cbrief/chain-daily/internal/model"
)

const (
	pageMargin  = 15.0
	imageWidth  = 170.0
	imageHeight = imageWidth * 9 / 16
)

type pdfRenderer struct{}

// NewPDFRenderer returns the default document renderer.
func NewPDFRenderer() Renderer {
	return pdfRenderer{}
}

// Render lays out a cover page, then the sections in article order with
// their illustrations inline, then a closing index of included images.
func (pdfRenderer) Render(article model.Article, illustrations []model.Illustration) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	bySection := make(map[int]model.Illustration)
	for _, il := range illustrations {
		if !il.Usable() {
			continue
		}
		tpe := imageType(il.Payload)
		if tpe == "" {
			// An undecodable payload never fails the document; the
			// section just renders text-only.
			log.Printf("⚠️ Skipping illustration with unrecognized image format: %s", il.Title)
			continue
		}
		pdf.RegisterImageOptionsReader(imageName(il), fpdf.ImageOptions{ImageType: tpe}, bytes.NewReader(il.Payload))
		bySection[il.Section] = il
	}

	renderCover(pdf, tr, article, bySection)

	for i, section := range article.Sections {
		pdf.AddPage()
		if section.Heading != "" {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.MultiCell(0, 8, tr(section.Heading), "", "L", false)
			pdf.Ln(2)
		}
		if il, ok := bySection[i]; ok {
			placeImage(pdf, imageName(il))
			pdf.Ln(4)
		}
		renderBody(pdf, tr, section.Body)
	}

	renderImageIndex(pdf, tr, illustrations)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCover(pdf *fpdf.Fpdf, tr func(string) string, article model.Article, bySection map[int]model.Illustration) {
	pdf.AddPage()
	pdf.Ln(30)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.MultiCell(0, 12, tr(article.Title), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, article.Date.Format("2006-01-02"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	if cover, ok := bySection[model.CoverSection]; ok {
		placeImage(pdf, imageName(cover))
		pdf.Ln(8)
	}

	if article.Description != "" {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, tr(article.Description), "", "C", false)
	}

	if len(article.Tags) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, tr(strings.Join(article.Tags, " · ")), "", 1, "C", false, 0, "")
	}
}

// renderBody walks the markdown-lite body line by line: "###" story
// headings, "-" bullets, bold markers stripped, everything else prose.
func renderBody(pdf *fpdf.Fpdf, tr func(string) string, body string) {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "### "):
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 7, tr(strings.TrimPrefix(trimmed, "### ")), "", "L", false)
		case strings.HasPrefix(trimmed, "- "):
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr("  •  "+stripEmphasis(strings.TrimPrefix(trimmed, "- "))), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(stripEmphasis(trimmed)), "", "L", false)
		}
	}
}

// renderImageIndex closes the document with a one-page accounting of
// every illustration request, including the ones that failed.
func renderImageIndex(pdf *fpdf.Fpdf, tr func(string) string, illustrations []model.Illustration) {
	if len(illustrations) == 0 {
		return
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Illustrations", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	for _, il := range illustrations {
		label := fmt.Sprintf("section %d", il.Section)
		if il.IsCover() {
			label = "cover"
		}
		line := fmt.Sprintf("%s: %s (%s)", label, il.Title, il.Status)
		if il.Status == model.IllustrationFailed && il.Reason != "" {
			line += ": " + il.Reason
		}
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}
}

// imageType maps a sniffed payload to the matching fpdf image type.
// The generation API may hand back PNG, JPEG, or GIF.
func imageType(payload []byte) string {
	switch http.DetectContentType(payload) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

// placeImage draws an already-registered image; fpdf looks the format
// up from registration.
func placeImage(pdf *fpdf.Fpdf, name string) {
	pdf.ImageOptions(name, pageMargin+(210-2*pageMargin-imageWidth)/2, pdf.GetY(),
		imageWidth, imageHeight, true, fpdf.ImageOptions{}, 0, "")
}

func imageName(il model.Illustration) string {
	return fmt.Sprintf("illustration-%d", il.Section)
}

func stripEmphasis(text string) string {
	return strings.ReplaceAll(text, "**", "")
}
