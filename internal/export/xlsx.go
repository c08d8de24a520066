// Package export writes the scan report as an .xlsx workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alanyoungcy/polyscan/internal/domain"
	"github.com/alanyoungcy/polyscan/internal/scanner"
)

// ContentType is the MIME type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Result says whether a report file was produced.
type Result int

const (
	// ResultEmpty means there were no rows, so no file was written.
	ResultEmpty Result = iota
	// ResultWritten means the workbook was saved.
	ResultWritten
)

func (r Result) String() string {
	switch r {
	case ResultWritten:
		return "written"
	default:
		return "empty"
	}
}

// urlColumn is the 1-based column holding the market link.
const urlColumn = 13

// Options controls where and how the workbook is written.
type Options struct {
	Dir        string
	FilePrefix string
	SheetName  string
}

// FileName returns the report file name for a run started at t.
func FileName(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = "near_certain_markets"
	}
	return fmt.Sprintf("%s_%s.xlsx", prefix, t.UTC().Format("20060102_150405"))
}

// WriteReport saves records as a workbook under opts.Dir and returns its path.
// With no records nothing is written and ResultEmpty is returned.
func WriteReport(opts Options, startedAt time.Time, records []domain.ReportRecord) (string, Result, error) {
	if len(records) == 0 {
		return "", ResultEmpty, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ResultEmpty, fmt.Errorf("export: create dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(opts.FilePrefix, startedAt))

	if err := writeWorkbook(path, opts.SheetName, records); err != nil {
		return "", ResultEmpty, err
	}
	return path, ResultWritten, nil
}

func writeWorkbook(path, sheet string, records []domain.ReportRecord) error {
	if sheet == "" {
		sheet = "Markets"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	linkStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "0563C1", Underline: "single"}})
	if err != nil {
		return fmt.Errorf("export: link style: %w", err)
	}

	header := make([]interface{}, len(scanner.Columns))
	for i, c := range scanner.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(scanner.Columns), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, r := range records {
		rowNum := i + 2
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		values := recordValues(r)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return fmt.Errorf("export: row %d: %w", rowNum, err)
		}
		if r.URL == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(urlColumn, rowNum)
		if err := f.SetCellHyperLink(sheet, cell, r.URL, "External"); err != nil {
			return fmt.Errorf("export: link row %d: %w", rowNum, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, linkStyle); err != nil {
			return fmt.Errorf("export: link style row %d: %w", rowNum, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: freeze header: %w", err)
	}
	_ = f.SetColWidth(sheet, "A", "B", 48)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

// recordValues lays a record out in column order.
func recordValues(r domain.ReportRecord) []interface{} {
	var noPrice interface{} = ""
	if r.NoPrice != nil {
		noPrice = *r.NoPrice
	}
	return []interface{}{
		r.EventTitle,
		r.Question,
		r.Outcome,
		r.YesPrice,
		noPrice,
		r.CertaintySide,
		r.Category,
		r.Subcategory,
		r.Volume,
		r.Liquidity,
		r.ResolveTime,
		r.HoursRemaining,
		r.LinkText,
		r.AIConfidence,
		r.AIRationale,
	}
}
