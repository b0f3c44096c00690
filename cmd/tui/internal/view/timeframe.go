package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Period is a predefined or custom billing period selection.
type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodLastThreeMonths
	PeriodThisYear
	PeriodAll
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodLastThreeMonths:
		return "Last 3 Months"
	case PeriodThisYear:
		return "This Year"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// PeriodRange returns the half-open range [from, to) of bill period starts
// covered by p, relative to now. It returns zero times for PeriodAll and
// PeriodCustom.
func PeriodRange(p Period, now time.Time) (time.Time, time.Time) {
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodThisMonth:
		return month, month.AddDate(0, 1, 0)
	case PeriodLastMonth:
		return month.AddDate(0, -1, 0), month
	case PeriodLastThreeMonths:
		return month.AddDate(0, -2, 0), month.AddDate(0, 1, 0)
	case PeriodThisYear:
		year := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return year, year.AddDate(1, 0, 0)
	}

	return time.Time{}, time.Time{}
}

// PeriodSelectedMsg is emitted once a period is chosen. From and To are nil
// for All Time. To is exclusive.
type PeriodSelectedMsg struct {
	From *time.Time
	To   *time.Time
}

func (m PeriodSelectedMsg) Label() string {
	if m.From == nil {
		return PeriodAll.String()
	}

	return fmt.Sprintf("%s to %s", FormatDate(*m.From), FormatDate(m.To.AddDate(0, 0, -1)))
}

type pickerState int

const (
	pickerStateSelect pickerState = iota
	pickerStateCustom
)

// PeriodPicker is a reusable component for selecting a billing period.
type PeriodPicker struct {
	state    pickerState
	selected Period
	now      func() time.Time

	fromInput  textinput.Model
	toInput    textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker(initial Period) PeriodPicker {
	from := textinput.New()
	from.Placeholder = "YYYY-MM-DD"
	from.CharLimit = 10
	from.Width = 12
	from.Prompt = "From: "

	to := textinput.New()
	to.Placeholder = "YYYY-MM-DD"
	to.CharLimit = 10
	to.Width = 12
	to.Prompt = "To:   "

	return PeriodPicker{
		state:     pickerStateSelect,
		selected:  initial,
		now:       time.Now,
		fromInput: from,
		toInput:   to,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case pickerStateSelect:
			return m.updateSelect(key)
		case pickerStateCustom:
			if next, cmd, handled := m.updateCustom(key); handled {
				return next, cmd
			}
		}
	}

	if m.state == pickerStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case PeriodCustom:
			m.state = pickerStateCustom
			m.focusIndex = 0
			m.fromInput.Focus()

			return m, textinput.Blink
		case PeriodAll:
			return m, selected(PeriodSelectedMsg{})
		}

		from, to := PeriodRange(m.selected, m.now())

		return m, selected(PeriodSelectedMsg{From: &from, To: &to})
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.fromInput.Blur()
		m.toInput.Blur()

		if m.focusIndex == 0 {
			m.fromInput.Focus()
		} else {
			m.toInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		from, err := time.Parse(time.DateOnly, m.fromInput.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid from date (YYYY-MM-DD)")
			return m, nil, true
		}

		last, err := time.Parse(time.DateOnly, m.toInput.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid to date (YYYY-MM-DD)")
			return m, nil, true
		}

		if last.Before(from) {
			m.err = fmt.Errorf("to date is before from date")
			return m, nil, true
		}

		m.err = nil
		to := last.AddDate(0, 0, 1)

		return m, selected(PeriodSelectedMsg{From: &from, To: &to}), true

	case "esc":
		m.state = pickerStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func (m PeriodPicker) updateInputs(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.fromInput, c = m.fromInput.Update(msg)
	cmds = append(cmds, c)
	m.toInput, c = m.toInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == pickerStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range (inclusive):\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.fromInput.View(),
			m.toInput.View(),
			errStr,
		)
	}

	s := "Select Billing Period:\n\n"
	for p := PeriodThisMonth; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, p)
	}

	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// IsSelecting reports whether the picker is on the preset list rather than
// the custom range inputs.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == pickerStateSelect
}

func (m *PeriodPicker) Reset() {
	m.state = pickerStateSelect
	m.err = nil
	m.fromInput.SetValue("")
	m.toInput.SetValue("")
}

func selected(msg PeriodSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
