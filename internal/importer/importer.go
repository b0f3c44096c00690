package importer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownFormat = errors.New("no matching charge sheet format")
	ErrInvalidTarget = errors.New("invalid target id")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoBill        = errors.New("tenancy has no bill")
)

// Target says which entity the id column of a sheet refers to.
type Target string

const (
	TargetBill    Target = "bill"
	TargetTenancy Target = "tenancy"
)

// Row is one parsed charge line. Line is the 1-based line number in the
// source file.
type Row struct {
	Line   int
	Target uuid.UUID
	Charge string
	Amount decimal.Decimal
	Note   string
}

// RowError reports a sheet line that was not applied.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Sheet is the parsed content of a charge sheet.
type Sheet struct {
	Profile string
	Target  Target
	Rows    []Row
	Errors  []RowError
}
