package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	enc "github.com/MrJamesThe3rd/rentledger/internal/encoding"
)

// separators are tried in order until one yields a known header.
var separators = []rune{';', ','}

// Parser reads charge sheets. The format is picked by matching the header
// row against the known profiles; rows above the header are ignored.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Sheet, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &Sheet{}, nil
	}

	for _, sep := range separators {
		rows, err := readRows(data, sep)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		sheet := &Sheet{Profile: profile.Name, Target: profile.Target}
		parseRows(sheet, profile, cols, rows[headerIdx+1:])

		return sheet, nil
	}

	return nil, fmt.Errorf("%w: expected bill_id or tenancy_id, charge and amount columns", ErrUnknownFormat)
}

// record is a csv row with the source line it started on.
type record struct {
	line  int
	cells []string
}

func readRows(data []byte, sep rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []record

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, record{line: line, cells: cells})
	}
}

type colIndex map[string]int

func detectProfile(rows []record) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row.cells {
			if name := headerName(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// headerName folds "Bill ID" and "bill_id" onto the same key.
func headerName(cell string) string {
	name := strings.ToLower(strings.TrimSpace(cell))
	return strings.Join(strings.Fields(name), "_")
}

// parseRows appends valid rows and per-line errors to the sheet.
func parseRows(sheet *Sheet, p *Profile, cols colIndex, rows []record) {
	noteIdx, hasNote := cols[p.NoteCol]
	if !hasNote {
		noteIdx = -1
	}

	for _, row := range rows {
		if blank(row.cells) {
			continue
		}

		parsed, err := parseRow(row.cells, cols[p.TargetCol], cols[p.ChargeCol], cols[p.AmountCol], noteIdx)
		if err != nil {
			sheet.Errors = append(sheet.Errors, RowError{Line: row.line, Err: err})
			continue
		}

		parsed.Line = row.line
		sheet.Rows = append(sheet.Rows, parsed)
	}
}

func parseRow(row []string, targetIdx, chargeIdx, amountIdx, noteIdx int) (Row, error) {
	target, err := uuid.Parse(cellValue(row, targetIdx))
	if err != nil {
		return Row{}, fmt.Errorf("%w: %q", ErrInvalidTarget, cellValue(row, targetIdx))
	}

	charge := cellValue(row, chargeIdx)
	if charge == "" {
		return Row{}, bill.ErrInvalidChargeName
	}

	amount, err := parseAmount(cellValue(row, amountIdx))
	if err != nil {
		return Row{}, err
	}

	if _, err := bill.ParseAmount(amount); err != nil {
		return Row{}, err
	}

	return Row{
		Target: target,
		Charge: charge,
		Amount: amount,
		Note:   cellValue(row, noteIdx),
	}, nil
}

// parseAmount accepts "1500", "1,500", "1.500,00" and "1,500.00". When both
// separators appear the last one is the decimal mark. A lone comma followed
// by exactly three digits groups thousands.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	case lastComma >= 0:
		if strings.Count(clean, ",") == 1 && len(clean)-lastComma-1 != 3 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return d, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
