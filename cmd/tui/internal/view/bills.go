package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/preset"
)

type billsState int

const (
	billsStateBrowse billsState = iota
	billsStatePay
	billsStateCharge
	billsStateStatus
)

// billForm holds the values bound to the active huh form. It lives behind a
// pointer so the bindings survive the model being copied by Update.
type billForm struct {
	amount  string
	method  bill.Method
	note    string
	name    string
	pattern string
	status  bill.Status
	percent bool
}

type BillsModel struct {
	CommonModel
	bills   *bill.Service
	presets *preset.Service

	state billsState
	table table.Model
	rows  []*bill.Bill
	form  *huh.Form
	vals  *billForm

	statusFilterIdx int
	periodIdx       int

	filter  bill.ListFilter
	loading bool
	err     error
	status  string
}

var (
	statusFilters = []*bill.Status{nil, new(bill.StatusUnpaid), new(bill.StatusPartial), new(bill.StatusPaid)}
	statusLabels  = []string{"All", "Unpaid", "Partial", "Paid"}
	periodFilters = []Period{PeriodAll, PeriodThisMonth, PeriodLastMonth, PeriodThisYear}
)

func NewBillsModel(bills *bill.Service, presets *preset.Service) BillsModel {
	columns := []table.Column{
		{Title: "Period", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Renter", Width: 16},
		{Title: "Status", Width: 9},
		{Title: "Total", Width: 10},
		{Title: "Paid", Width: 10},
		{Title: "Balance", Width: 10},
		{Title: "Extras", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BillsModel{
		bills:   bills,
		presets: presets,
		table:   t,
		loading: true,
	}
}

func (m BillsModel) Title() string { return "Bills" }

func (m BillsModel) ShortHelp() string {
	if m.state != billsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: payment | c: charge | m: mark status | s: status filter | d: period | r: refresh"
}

func (m BillsModel) Init() tea.Cmd {
	return m.loadBillsCmd()
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBillsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.rows = msg.bills
		m.refreshTable()

		return m, nil

	case billSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = billsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadBillsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == billsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m BillsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadBillsCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter()

			return m, m.loadBillsCmd()
		case "d":
			m.periodIdx = (m.periodIdx + 1) % len(periodFilters)
			m.applyFilter()

			return m, m.loadBillsCmd()
		case "p":
			return m.openForm(billsStatePay)
		case "c":
			return m.openForm(billsStateCharge)
		case "m":
			return m.openForm(billsStateStatus)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BillsModel) selected() *bill.Bill {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	return m.rows[idx]
}

func (m BillsModel) openForm(state billsState) (tea.Model, tea.Cmd) {
	b := m.selected()
	if b == nil {
		return m, nil
	}

	m.vals = &billForm{method: bill.MethodCash, status: bill.StatusPaid}

	switch state {
	case billsStatePay:
		m.vals.amount = fmt.Sprint(max(b.Due(), 0))
		m.form = m.paymentForm()
	case billsStateCharge:
		m.form = m.chargeForm()
	case billsStateStatus:
		m.vals.status = b.Status
		m.form = m.statusForm()
	}

	m.state = state
	m.table.Blur()

	return m, m.form.Init()
}

func (m BillsModel) paymentForm() *huh.Form {
	methods := []bill.Method{bill.MethodCash, bill.MethodBank, bill.MethodMobile, bill.MethodCard, bill.MethodOther}

	opts := make([]huh.Option[bill.Method], 0, len(methods))
	for _, method := range methods {
		opts = append(opts, huh.NewOption(string(method), method))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount received").
				Value(&m.vals.amount).
				Validate(func(s string) error {
					_, err := parseWhole(s, true)
					return err
				}),
			huh.NewSelect[bill.Method]().
				Title("Method").
				Options(opts...).
				Value(&m.vals.method),
			huh.NewInput().
				Title("Note").
				Value(&m.vals.note),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m BillsModel) chargeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Charge").
				Placeholder("late fee").
				Value(&m.vals.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("charge name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Amount").
				Value(&m.vals.amount).
				Validate(func(s string) error {
					_, err := parseWhole(s, false)
					return err
				}),
			huh.NewInput().
				Title("Remember name for").
				Description("Optional pattern; future charges containing it get this name").
				Value(&m.vals.pattern),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m BillsModel) statusForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bill.Status]().
				Title("Mark as").
				Options(
					huh.NewOption("Paid", bill.StatusPaid),
					huh.NewOption("Unpaid", bill.StatusUnpaid),
					huh.NewOption("Partial", bill.StatusPartial),
				).
				Value(&m.vals.status),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Partial by percentage?").
				Affirmative("Percent").
				Negative("Amount").
				Value(&m.vals.percent),
			huh.NewInput().
				Title("Paid so far").
				Value(&m.vals.amount).
				Validate(func(s string) error {
					_, err := decimal.NewFromString(strings.TrimSpace(s))
					return err
				}),
		).WithHideFunc(func() bool { return m.vals.status != bill.StatusPartial }),
	).WithWidth(45).WithShowHelp(false)
}

func (m BillsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = billsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m BillsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading bills...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Period: %s",
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(periodFilters[m.periodIdx].String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != billsStateBrowse && m.form != nil {
		title := map[billsState]string{
			billsStatePay:    "Record Payment",
			billsStateCharge: "Add Charge",
			billsStateStatus: "Override Status",
		}[m.state]

		info := ""
		if b := m.selected(); b != nil {
			info = fmt.Sprintf("Total %s | Paid %s | Due %s", FormatAmount(b.Total), FormatAmount(b.PaidAmount), FormatAmount(b.Due()))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s\n\n%s", title, info, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BillsModel) applyFilter() {
	m.filter.Status = statusFilters[m.statusFilterIdx]
	m.filter.From, m.filter.To = nil, nil

	if p := periodFilters[m.periodIdx]; p != PeriodAll {
		from, to := PeriodRange(p, timeNow())
		m.filter.From, m.filter.To = &from, &to
	}
}

func (m *BillsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, b := range m.rows {
		names := make([]string, 0, len(b.ExtraCharges))
		for _, c := range b.ExtraCharges {
			names = append(names, c.Name)
		}

		rows = append(rows, table.Row{
			FormatDate(b.PeriodStart),
			FormatDate(b.DueDate),
			b.RenterID,
			string(b.Status),
			FormatAmount(b.Total),
			FormatAmount(b.PaidAmount),
			FormatAmount(b.Remainder()),
			strings.Join(names, ", "),
		})
	}

	m.table.SetRows(rows)
}

// parseWhole parses a whole amount. Zero is accepted only when allowZero.
func parseWhole(s string, allowZero bool) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("enter a number")
	}

	if allowZero && d.IsZero() {
		return 0, nil
	}

	amount, err := bill.ParseAmount(d)
	if err != nil {
		return 0, errors.New("enter a positive whole amount")
	}

	return amount, nil
}

// Messages

type loadBillsMsg struct {
	bills []*bill.Bill
	err   error
}

func (m BillsModel) loadBillsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bills, err := m.bills.List(ctx, filter)

		return loadBillsMsg{bills: bills, err: err}
	}
}

type billSavedMsg struct {
	status string
	err    error
}

func (m BillsModel) saveCmd() tea.Cmd {
	b := m.selected()
	if b == nil {
		return nil
	}

	state, vals := m.state, *m.vals

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch state {
		case billsStatePay:
			amount, err := parseWhole(vals.amount, true)
			if err != nil {
				return billSavedMsg{err: err}
			}

			updated, err := m.bills.RecordPayment(ctx, b.ID, bill.PaymentParams{
				Amount: amount,
				Method: vals.method,
				Note:   strings.TrimSpace(vals.note),
			})
			if err != nil {
				return billSavedMsg{err: err}
			}

			return billSavedMsg{status: fmt.Sprintf("Payment recorded, bill is %s", updated.Status)}

		case billsStateCharge:
			amount, err := decimal.NewFromString(strings.TrimSpace(vals.amount))
			if err != nil {
				return billSavedMsg{err: err}
			}

			if pattern := strings.TrimSpace(vals.pattern); pattern != "" {
				if err := m.presets.Learn(ctx, pattern, vals.name); err != nil {
					return billSavedMsg{err: err}
				}
			}

			res, err := m.bills.AddCharges(ctx, []uuid.UUID{b.ID}, []bill.ChargeLine{{Name: vals.name, Amount: amount}})
			if err != nil {
				return billSavedMsg{err: err}
			}

			if len(res.Rejected) > 0 {
				return billSavedMsg{err: res.Rejected[0]}
			}

			if len(res.Skipped) > 0 {
				return billSavedMsg{err: res.Skipped[0]}
			}

			return billSavedMsg{status: "Charge added"}

		case billsStateStatus:
			params := bill.StatusParams{Status: vals.status}

			if vals.status == bill.StatusPartial {
				d, err := decimal.NewFromString(strings.TrimSpace(vals.amount))
				if err != nil {
					return billSavedMsg{err: err}
				}

				if vals.percent {
					params.Partial.Percent = &d
				} else {
					params.Partial.Amount = new(d.IntPart())
				}
			}

			updated, err := m.bills.SetStatus(ctx, b.ID, params)
			if err != nil {
				return billSavedMsg{err: err}
			}

			return billSavedMsg{status: fmt.Sprintf("Bill marked %s", updated.Status)}
		}

		return billSavedMsg{}
	}
}
