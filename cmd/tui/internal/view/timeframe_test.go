package view_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentledger/cmd/tui/internal/view"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	type testCase struct {
		name     string
		period   view.Period
		wantFrom time.Time
		wantTo   time.Time
	}

	tests := []testCase{
		{name: "ThisMonth", period: view.PeriodThisMonth, wantFrom: day(2026, 1, 1), wantTo: day(2026, 2, 1)},
		{name: "LastMonthCrossesYear", period: view.PeriodLastMonth, wantFrom: day(2025, 12, 1), wantTo: day(2026, 1, 1)},
		{name: "LastThreeMonths", period: view.PeriodLastThreeMonths, wantFrom: day(2025, 11, 1), wantTo: day(2026, 2, 1)},
		{name: "ThisYear", period: view.PeriodThisYear, wantFrom: day(2026, 1, 1), wantTo: day(2027, 1, 1)},
		{name: "All", period: view.PeriodAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := view.PeriodRange(tt.period, now)

			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func press(t *testing.T, p view.PeriodPicker, msgs ...tea.Msg) (view.PeriodPicker, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		p, cmd = p.Update(msg)
	}

	return p, cmd
}

func TestPeriodPicker_All(t *testing.T) {
	_, cmd := press(t, view.NewPeriodPicker(view.PeriodAll), tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(view.PeriodSelectedMsg)
	require.True(t, ok)
	assert.Nil(t, msg.From)
	assert.Equal(t, "All Time", msg.Label())
}

func TestPeriodPicker_Custom(t *testing.T) {
	p, _ := press(t, view.NewPeriodPicker(view.PeriodCustom), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, p.IsSelecting())

	p, cmd := press(t, p,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2026-03-01")},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2026-03-31")},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	require.NotNil(t, cmd)

	msg, ok := cmd().(view.PeriodSelectedMsg)
	require.True(t, ok)
	require.NotNil(t, msg.From)
	assert.Equal(t, day(2026, 3, 1), *msg.From)
	assert.Equal(t, day(2026, 4, 1), *msg.To)
	assert.Equal(t, "2026-03-01 to 2026-03-31", msg.Label())

	p, _ = press(t, p, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.IsSelecting())
}

func TestPeriodPicker_CustomRejectsReversedRange(t *testing.T) {
	p, _ := press(t, view.NewPeriodPicker(view.PeriodCustom), tea.KeyMsg{Type: tea.KeyEnter})

	p, cmd := press(t, p,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2026-03-31")},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2026-03-01")},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	assert.Nil(t, cmd)
	assert.Contains(t, p.View(), "to date is before from date")
}
