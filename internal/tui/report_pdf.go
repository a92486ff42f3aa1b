package tui

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/util"
	"github.com/go-pdf/fpdf"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// GenerateRecordSheet writes a one-page PDF of rec into dir and returns
// the file path.
func GenerateRecordSheet(rec models.Record, officer *models.Unit, dir string, now time.Time) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("%s Record: %s", kindTitle(rec.RecordKind()), rec.Label())))
	pdf.Ln(12)

	for _, f := range recordFields(rec) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(45, 8, tr(f.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.MultiCell(0, 8, tr(f.Value), "", "L", false)
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 10)
	footer := "Printed " + now.Format("2006-01-02 15:04")
	if officer != nil {
		footer += " by " + officer.Label()
	}
	pdf.Cell(0, 8, tr(footer))

	id := unsafeFileChars.ReplaceAllString(rec.SuggestionID(), "_")
	name := fmt.Sprintf("%s_%s_%s.pdf", rec.RecordKind(), strings.Trim(id, "_"), now.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write record sheet: %w", err)
	}
	return path, nil
}
