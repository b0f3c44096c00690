package importer

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer

// Biller is the part of the bill service a charge import needs.
type Biller interface {
	List(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error)
	AddCharges(ctx context.Context, ids []uuid.UUID, lines []bill.ChargeLine) (*bill.BulkResult, error)
}

type Service struct {
	parser *Parser
	bills  Biller
	log    *zap.Logger
}

func NewService(bills Biller, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		parser: NewParser(),
		bills:  bills,
		log:    log,
	}
}

// Report summarises an import run. Errors are ordered by line.
type Report struct {
	Profile string
	Rows    int
	Updated []*bill.Bill
	Errors  []RowError
}

// Parse reads a sheet without applying it.
func (s *Service) Parse(r io.Reader) (*Sheet, error) {
	return s.parser.Parse(r)
}

// Import parses the sheet and applies each bill's rows as one bulk charge.
// Lines that fail to parse, resolve or apply are reported, not fatal.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Report, error) {
	sheet, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Profile: sheet.Profile,
		Rows:    len(sheet.Rows) + len(sheet.Errors),
		Errors:  slices.Clone(sheet.Errors),
	}

	groups, unresolved, err := s.group(ctx, sheet)
	if err != nil {
		return nil, err
	}

	report.Errors = append(report.Errors, unresolved...)

	for _, g := range groups {
		res, err := s.bills.AddCharges(ctx, []uuid.UUID{g.billID}, g.lines())
		if err != nil {
			return nil, fmt.Errorf("adding charges to bill %s: %w", g.billID, err)
		}

		for _, rej := range res.Rejected {
			report.Errors = append(report.Errors, RowError{Line: g.rows[rej.Index].Line, Err: rej.Err})
		}

		for _, skipped := range res.Skipped {
			for _, row := range g.rows {
				report.Errors = append(report.Errors, RowError{Line: row.Line, Err: skipped})
			}
		}

		report.Updated = append(report.Updated, res.Updated...)
	}

	slices.SortStableFunc(report.Errors, func(a, b RowError) int { return cmp.Compare(a.Line, b.Line) })

	s.log.Info("charge sheet imported",
		zap.String("profile", report.Profile),
		zap.Int("rows", report.Rows),
		zap.Int("bills_updated", len(report.Updated)),
		zap.Int("errors", len(report.Errors)),
	)

	return report, nil
}

type billRows struct {
	billID uuid.UUID
	rows   []Row
}

func (g billRows) lines() []bill.ChargeLine {
	lines := make([]bill.ChargeLine, len(g.rows))
	for i, r := range g.rows {
		lines[i] = bill.ChargeLine{Name: r.Charge, Amount: r.Amount, Note: r.Note}
	}

	return lines
}

// group collects rows per bill in first-seen order. Tenancy rows target the
// tenancy's latest bill.
func (s *Service) group(ctx context.Context, sheet *Sheet) ([]*billRows, []RowError, error) {
	var (
		groups     []*billRows
		unresolved []RowError
		byBill     = make(map[uuid.UUID]*billRows)
		latest     = make(map[uuid.UUID]uuid.UUID)
	)

	for _, row := range sheet.Rows {
		billID := row.Target

		if sheet.Target == TargetTenancy {
			id, ok := latest[row.Target]
			if !ok {
				var err error

				id, err = s.latestBill(ctx, row.Target)
				if err != nil {
					return nil, nil, err
				}

				latest[row.Target] = id
			}

			if id == uuid.Nil {
				unresolved = append(unresolved, RowError{Line: row.Line, Err: fmt.Errorf("%w: %s", ErrNoBill, row.Target)})
				continue
			}

			billID = id
		}

		g, ok := byBill[billID]
		if !ok {
			g = &billRows{billID: billID}
			byBill[billID] = g
			groups = append(groups, g)
		}

		g.rows = append(g.rows, row)
	}

	return groups, unresolved, nil
}

// latestBill returns uuid.Nil when the tenancy has no bill.
func (s *Service) latestBill(ctx context.Context, tenancyID uuid.UUID) (uuid.UUID, error) {
	bills, err := s.bills.List(ctx, bill.ListFilter{TenancyID: &tenancyID})
	if err != nil {
		return uuid.Nil, fmt.Errorf("listing bills for tenancy %s: %w", tenancyID, err)
	}

	if len(bills) == 0 {
		return uuid.Nil, nil
	}

	b := slices.MaxFunc(bills, func(x, y *bill.Bill) int {
		return cmp.Or(x.PeriodStart.Compare(y.PeriodStart), x.CreatedAt.Compare(y.CreatedAt))
	})

	return b.ID, nil
}
