// Package export renders shortlisted applicants as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"go-jobboard-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	ShortlistSheet = "Shortlisted Applicants"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
)

var shortlistHeaders = []string{"Name", "Email", "Resume Link"}

var shortlistWidths = []float64{30, 30, 50}

// XLSXWriter writes the shortlist as an Excel workbook with one sheet.
type XLSXWriter struct{}

func (XLSXWriter) Extension() string   { return "xlsx" }
func (XLSXWriter) ContentType() string { return ContentTypeXLSX }

func (XLSXWriter) WriteShortlist(rows []domain.ShortlistRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ShortlistSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range shortlistHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ShortlistSheet, cell, h); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ShortlistSheet, col, col, shortlistWidths[i]); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(ShortlistSheet, "A1", "C1", headerStyle); err != nil {
		return nil, err
	}

	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#1265BE", Underline: "single"},
	})
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		r := i + 2
		if err := f.SetSheetRow(ShortlistSheet, fmt.Sprintf("A%d", r), &[]interface{}{row.Name, row.Email, row.ResumeURL}); err != nil {
			return nil, err
		}
		if row.ResumeURL == "" {
			continue
		}
		cell := fmt.Sprintf("C%d", r)
		if err := f.SetCellHyperLink(ShortlistSheet, cell, row.ResumeURL, "External"); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(ShortlistSheet, cell, cell, linkStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVWriter writes the same three columns as comma-separated text.
type CSVWriter struct{}

func (CSVWriter) Extension() string   { return "csv" }
func (CSVWriter) ContentType() string { return ContentTypeCSV }

func (CSVWriter) WriteShortlist(rows []domain.ShortlistRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(shortlistHeaders); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Name, row.Email, row.ResumeURL}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Writers returns the supported writers keyed by format name.
func Writers() map[string]domain.ShortlistWriter {
	return map[string]domain.ShortlistWriter{
		"xlsx": XLSXWriter{},
		"csv":  CSVWriter{},
	}
}
