package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Disclaimer is printed at the foot of every page.
const Disclaimer = "DISCLAIMER: This report is generated by an AI system and is for informational purposes only. " +
	"It is not a substitute for professional medical advice, diagnosis, or treatment. " +
	"Always seek the advice of your physician or other qualified health provider with any questions " +
	"you may have regarding a medical condition."

const (
	reportTitle  = "MedGuard AI Health Report"
	pageMargin   = 20.0
	footerHeight = 35.0
	contentWidth = 210.0 - 2*pageMargin
)

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{41, 98, 255}
	colorMuted   = rgb{100, 100, 100}
	colorText    = rgb{0, 0, 0}
	colorGreen   = rgb{39, 174, 96}
	colorYellow  = rgb{241, 196, 15}
	colorOrange  = rgb{230, 126, 34}
	colorRed     = rgb{231, 76, 60}
	colorGray    = rgb{149, 165, 166}
)

func riskColor(level string) rgb {
	switch level {
	case "Low":
		return colorGreen
	case "Medium":
		return colorYellow
	case "High":
		return colorRed
	}
	return colorGray
}

func wellnessColor(score int) rgb {
	switch {
	case score >= 80:
		return colorGreen
	case score >= 60:
		return colorYellow
	case score >= 40:
		return colorOrange
	}
	return colorRed
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the time source used for the generation date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// WithCompression toggles stream compression. Uncompressed output is
// useful for inspecting the generated document.
func WithCompression(enabled bool) Option {
	return func(r *Renderer) {
		r.compress = enabled
	}
}

// Renderer produces PDF reports. It holds no state between calls and is
// safe for concurrent use.
type Renderer struct {
	now      func() time.Time
	compress bool
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		now:      time.Now,
		compress: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays out d on A4 pages and returns the PDF bytes.
func (r *Renderer) Render(d Data) ([]byte, error) {
	d.normalize()
	generated := r.now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(generated)
	pdf.SetTitle(reportTitle, false)
	pdf.SetCreator("MedGuard AI", false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, footerHeight)
	pdf.AliasNbPages("")

	// Core fonts are cp1252; the translator maps UTF-8 input onto it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	setColor := func(c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }

	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerHeight + 5)
		pdf.SetFont("Helvetica", "", 8)
		setColor(colorMuted)
		pdf.MultiCell(contentWidth, 4, tr(Disclaimer), "", "C", false)
		pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 22)
	setColor(colorPrimary)
	pdf.CellFormat(contentWidth, 10, reportTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	setColor(colorMuted)
	pdf.CellFormat(contentWidth, 6, "Generated on: "+generated.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	if d.Title != "" {
		pdf.CellFormat(contentWidth, 6, tr(d.Title), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	heading := func(text string) {
		pdf.SetFont("Helvetica", "B", 14)
		setColor(colorText)
		pdf.CellFormat(contentWidth, 8, text, "", 1, "L", false, 0, "")
	}
	body := func() {
		pdf.SetFont("Helvetica", "", 12)
		setColor(colorText)
	}
	bullets := func(items []string) {
		body()
		if len(items) == 0 {
			pdf.CellFormat(contentWidth, 7, tr("None listed"), "", 1, "L", false, 0, "")
			return
		}
		for _, item := range items {
			pdf.SetX(pageMargin + 5)
			pdf.MultiCell(contentWidth-5, 7, tr("• "+item), "", "L", false)
		}
	}

	heading("Diagnosis")
	body()
	pdf.MultiCell(contentWidth, 7, tr(d.Diagnosis), "", "L", false)
	pdf.Ln(4)

	// Risk badge and wellness score share a row.
	pdf.SetFont("Helvetica", "B", 14)
	setColor(colorText)
	pdf.CellFormat(30, 8, "Risk Level:", "", 0, "L", false, 0, "")
	risk := riskColor(d.RiskLevel)
	pdf.SetFillColor(risk.r, risk.g, risk.b)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(35, 8, d.RiskLevel, "", 0, "C", true, 0, "")

	if d.WellnessScore > 0 {
		pdf.SetX(pageMargin + 90)
		pdf.SetFont("Helvetica", "B", 14)
		setColor(colorText)
		pdf.CellFormat(40, 8, "Wellness Score:", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 12)
		setColor(wellnessColor(d.WellnessScore))
		pdf.CellFormat(25, 8, fmt.Sprintf("%d/100", d.WellnessScore), "", 0, "L", false, 0, "")
	}
	pdf.Ln(14)

	heading("Possible Causes:")
	bullets(d.Causes)
	pdf.Ln(4)

	heading("Recommendations:")
	bullets(d.Suggestions)
	pdf.Ln(4)

	if d.FollowupNeeded != nil {
		pdf.SetFont("Helvetica", "B", 14)
		setColor(colorText)
		pdf.CellFormat(50, 8, "Follow-up Needed:", "", 0, "L", false, 0, "")
		body()
		answer := "No"
		if *d.FollowupNeeded {
			answer = "Yes"
		}
		pdf.CellFormat(20, 8, answer, "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	if d.AdditionalNotes != "" {
		heading("Additional Notes:")
		body()
		pdf.MultiCell(contentWidth, 7, tr(d.AdditionalNotes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
