package view

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
)

// CollectModel walks the outstanding bills, oldest due date first, and
// records one payment per bill.
type CollectModel struct {
	CommonModel
	bills *bill.Service

	queue   []*bill.Bill
	current *bill.Bill

	amountInput textinput.Model

	loading    bool
	status     string
	totalCount int
}

func NewCollectModel(bills *bill.Service) CollectModel {
	ti := textinput.New()
	ti.Placeholder = "amount received"
	ti.Width = 20

	return CollectModel{
		bills:       bills,
		amountInput: ti,
		loading:     true,
	}
}

func (m CollectModel) Title() string { return "Collect Payments" }

func (m CollectModel) ShortHelp() string {
	return "Enter: record | s: skip | Esc: back"
}

func (m CollectModel) Init() tea.Cmd {
	return m.loadOutstandingCmd()
}

func (m CollectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			if m.current != nil {
				amount, err := parseWhole(m.amountInput.Value(), true)
				if err != nil {
					m.status = err.Error()
					return m, nil
				}

				return m, m.recordCmd(m.current, amount)
			}
		case "s":
			if m.current != nil {
				m.status = ""
				m.next()

				return m, nil
			}
		}

	case loadOutstandingMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.queue = msg.bills
		m.totalCount = len(m.queue)
		m.next()

	case paymentRecordedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			break
		}

		m.status = fmt.Sprintf("Recorded, bill is %s", msg.bill.Status)
		m.next()
	}

	m.amountInput, cmd = m.amountInput.Update(msg)

	return m, cmd
}

func (m CollectModel) View() string {
	if m.loading {
		return "Loading outstanding bills..."
	}

	if m.current == nil {
		if m.totalCount == 0 {
			return lipgloss.NewStyle().Padding(2).Render("No outstanding bills.\n\n(Esc to back)")
		}

		return lipgloss.NewStyle().Padding(2).Render(successStyle.Render("All done!") + "\n\n(Esc to back)")
	}

	b := m.current
	info := fmt.Sprintf(
		"Renter: %s\nPeriod: %s\nDue:    %s\nTotal:  %s\nPaid:   %s\nOwed:   %s\n",
		b.RenterID,
		FormatDate(b.PeriodStart),
		FormatDate(b.DueDate),
		FormatAmount(b.Total),
		FormatAmount(b.PaidAmount),
		activeStyle(FormatAmount(b.Due())),
	)

	status := ""
	if m.status != "" {
		status = "\n" + faintStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("Outstanding Bill (%d remaining)\n\n%s\nAmount received:\n%s\n\n(Enter to record, 's' to skip, Esc to back)%s",
			len(m.queue)+1, info, m.amountInput.View(), status),
	)
}

func (m *CollectModel) next() {
	if len(m.queue) == 0 {
		m.current = nil
		m.amountInput.SetValue("")

		return
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]
	m.amountInput.SetValue(fmt.Sprint(m.current.Due()))
	m.amountInput.Focus()
}

type loadOutstandingMsg struct {
	bills []*bill.Bill
	err   error
}

func (m CollectModel) loadOutstandingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bills, err := m.bills.List(ctx, bill.ListFilter{
			Where: func(b *bill.Bill) bool { return b.Status != bill.StatusPaid },
		})
		if err != nil {
			return loadOutstandingMsg{err: err}
		}

		slices.SortStableFunc(bills, func(x, y *bill.Bill) int {
			return x.DueDate.Compare(y.DueDate)
		})

		return loadOutstandingMsg{bills: bills}
	}
}

type paymentRecordedMsg struct {
	bill *bill.Bill
	err  error
}

func (m CollectModel) recordCmd(b *bill.Bill, amount int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.bills.RecordPayment(ctx, b.ID, bill.PaymentParams{Amount: amount})

		return paymentRecordedMsg{bill: updated, err: err}
	}
}
