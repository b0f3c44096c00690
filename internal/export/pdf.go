package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
)

const dateLayout = "02 Jan 2006"

var (
	cellText   = props.Text{Size: 9}
	cellAmount = props.Text{Size: 9, Align: align.Right}
	headText   = props.Text{Size: 9, Style: fontstyle.Bold}
	headAmount = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
)

func (s *Service) renderStatement(b *bill.Bill, assetTitle string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Rent statement", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Bill: "+b.ID.String(), props.Text{Size: 9}),
			text.New("Period start: "+b.PeriodStart.Format(dateLayout), props.Text{Size: 9, Top: 5}),
			text.New("Due date: "+b.DueDate.Format(dateLayout), props.Text{Size: 9, Top: 10}),
			text.New("Billing cycle: "+string(b.Cycle), props.Text{Size: 9, Top: 15}),
		),
		col.New(6).Add(
			text.New(assetTitle, props.Text{Size: 10, Style: fontstyle.Bold}),
			text.New("Renter: "+b.RenterID, props.Text{Size: 9, Top: 5}),
			text.New("Owner: "+b.OwnerID, props.Text{Size: 9, Top: 10}),
		),
	)

	m.AddRow(8,
		text.NewCol(8, "Description", headText),
		text.NewCol(4, "Amount", headAmount),
	)

	s.addLine(m, "Rent", b.RentAmount)

	if b.Utilities != nil {
		for _, l := range b.Utilities.Lines() {
			if l.Amount > 0 {
				s.addLine(m, l.Name, l.Amount)
			}
		}
	}

	for _, c := range b.ExtraCharges {
		s.addLine(m, c.Name, c.Amount)
	}

	m.AddRow(4, col.New(12))

	s.addTotal(m, "Total", b.Total, false)
	s.addTotal(m, "Paid", b.PaidAmount, false)
	s.addTotal(m, "Amount due", b.Due(), true)

	m.AddRow(10,
		text.NewCol(12, fmt.Sprintf("Status: %s", b.Status), props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}),
	)

	for _, w := range b.Warnings {
		m.AddRow(6, text.NewCol(12, "Note: "+w, props.Text{Size: 8, Style: fontstyle.Italic}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return doc.GetBytes(), nil
}

func (s *Service) addLine(m core.Maroto, name string, amount int64) {
	m.AddRow(7,
		text.NewCol(8, name, cellText),
		text.NewCol(4, s.format(amount), cellAmount),
	)
}

func (s *Service) addTotal(m core.Maroto, label string, amount int64, bold bool) {
	labelProps, valueProps := cellText, cellAmount
	if bold {
		labelProps, valueProps = headText, headAmount
	}

	m.AddRow(7,
		col.New(6),
		text.NewCol(2, label, labelProps),
		text.NewCol(4, s.format(amount), valueProps),
	)
}
