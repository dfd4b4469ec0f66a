package parsers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParsedScorecard is the raw content of an imported scorecard workbook:
// per-hole strokes in hole order, with optional putts.
type ParsedScorecard struct {
	Strokes []int
	Putts   []int // nil when the workbook has no putts row
}

// ScorecardParser parses an exported scorecard file into hole scores.
type ScorecardParser interface {
	Parse(data []byte) (*ParsedScorecard, error)
}

// XLSXParser parses XLSX scorecard workbooks. Expected layout: one row
// labeled "Score" (or "Strokes") with one numeric cell per hole, and an
// optional row labeled "Putts".
type XLSXParser struct{}

var _ ScorecardParser = (*XLSXParser)(nil)

// NewXLSXParser creates a new XLSX scorecard parser.
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse reads the first sheet of the workbook.
func (p *XLSXParser) Parse(data []byte) (*ParsedScorecard, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	strokes, err := findLabeledRow(rows, "Score", "Strokes")
	if err != nil {
		return nil, err
	}
	if strokes == nil {
		return nil, fmt.Errorf("no score row found in workbook")
	}
	if len(strokes) != 9 && len(strokes) != 18 {
		return nil, fmt.Errorf("score row has %d holes, expected 9 or 18", len(strokes))
	}

	putts, err := findLabeledRow(rows, "Putts")
	if err != nil {
		return nil, err
	}
	if putts != nil && len(putts) != len(strokes) {
		return nil, fmt.Errorf("putts row has %d holes, score row has %d", len(putts), len(strokes))
	}

	return &ParsedScorecard{Strokes: strokes, Putts: putts}, nil
}

// findLabeledRow returns the numeric cells of the first row whose first cell
// matches one of the labels (case-insensitive). Returns nil when no row
// matches.
func findLabeledRow(rows [][]string, labels ...string) ([]int, error) {
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		first := strings.TrimSpace(row[0])
		for _, label := range labels {
			if strings.EqualFold(first, label) {
				values, err := parseScoreRow(row[1:])
				if err != nil {
					return nil, fmt.Errorf("invalid %s row at line %d: %w", label, i+1, err)
				}
				return values, nil
			}
		}
	}
	return nil, nil
}

// parseScoreRow converts cell values to integers, stopping at the first
// empty cell so trailing totals columns are ignored only if blank-separated.
func parseScoreRow(cells []string) ([]int, error) {
	values := make([]int, 0, len(cells))
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			break
		}
		v, err := strconv.Atoi(cell)
		if err != nil {
			return nil, fmt.Errorf("non-numeric cell %q", cell)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no numeric cells")
	}
	return values, nil
}
