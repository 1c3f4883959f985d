// Package export writes a rendered list as JSON, CSV or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want json, csv or pdf)", s)
	}
}

// Sheet is the exported data. Records is encoded as-is for JSON; the other
// formats use Headers and Rows.
type Sheet struct {
	Title       string
	Headers     []string
	Rows        [][]string
	Widths      []int
	Records     any
	GeneratedAt time.Time
}

type options struct {
	fontFile string
}

type Option func(*options)

// WithFontFile embeds a UTF-8 TrueType font in PDF output
func WithFontFile(path string) Option {
	return func(o *options) {
		o.fontFile = path
	}
}

func Write(w io.Writer, format Format, sheet Sheet, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, sheet)
	case FormatCSV:
		return writeCSV(w, sheet)
	case FormatPDF:
		return writePDF(w, sheet, o)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeJSON(w io.Writer, sheet Sheet) error {
	records := sheet.Records
	if records == nil {
		rows := make([]map[string]string, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			m := make(map[string]string, len(sheet.Headers))
			for i, h := range sheet.Headers {
				if i < len(row) {
					m[h] = row[i]
				}
			}
			rows = append(rows, m)
		}
		records = rows
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON export: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(sheet.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 6.0
	pdfFontSize   = 8.0
	pdfTitleSize  = 13.0
	pdfFontFamily = "body"
)

func writePDF(w io.Writer, sheet Sheet, o options) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	family, tr := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if o.fontFile != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", o.fontFile)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("failed to load PDF font %s: %w", o.fontFile, err)
		}
		family, tr = pdfFontFamily, func(s string) string { return s }
	}
	widths := columnWidths(pdf, sheet)
	header := func() {
		pdf.SetFont(family, "", pdfFontSize)
		pdf.SetFillColor(240, 228, 236)
		for i, h := range sheet.Headers {
			pdf.CellFormat(widths[i], pdfRowHeight, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont(family, "", pdfFontSize)
		pdf.CellFormat(0, pdfRowHeight, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	pdf.SetFont(family, "", pdfTitleSize)
	pdf.CellFormat(0, 8, tr(sheet.Title), "", 1, "L", false, 0, "")
	if !sheet.GeneratedAt.IsZero() {
		pdf.SetFont(family, "", pdfFontSize)
		pdf.CellFormat(0, pdfRowHeight, sheet.GeneratedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	header()
	for _, row := range sheet.Rows {
		for i := range sheet.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, cell, widths[i], tr), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF export: %w", err)
	}
	return nil
}

// columnWidths splits the printable width by Sheet.Widths or evenly
func columnWidths(pdf *gofpdf.Fpdf, sheet Sheet) []float64 {
	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pdfMargin
	out := make([]float64, len(sheet.Headers))
	total := 0
	for i := range sheet.Headers {
		if i < len(sheet.Widths) && sheet.Widths[i] > 0 {
			total += sheet.Widths[i]
		} else {
			total += 10
		}
	}
	for i := range sheet.Headers {
		weight := 10
		if i < len(sheet.Widths) && sheet.Widths[i] > 0 {
			weight = sheet.Widths[i]
		}
		out[i] = usable * float64(weight) / float64(total)
	}
	return out
}

// fit translates s and truncates it to the cell width
func fit(pdf *gofpdf.Fpdf, s string, width float64, tr func(string) string) string {
	limit := width - 2
	if pdf.GetStringWidth(tr(s)) <= limit {
		return tr(s)
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(tr(string(runes)+"...")) > limit {
		runes = runes[:len(runes)-1]
	}
	return tr(string(runes) + "...")
}
