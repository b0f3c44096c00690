package view

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentledger/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStatePreview
	importStateApplying
	importStateResult
)

// ImportModel picks a charge sheet, previews the parsed rows and applies
// them on confirmation.
type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string
	sheet      *importer.Sheet
	preview    table.Model

	report *importer.Report
	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	preview := table.New(
		table.WithColumns([]table.Column{
			{Title: "Line", Width: 6},
			{Title: "Target", Width: 36},
			{Title: "Charge", Width: 24},
			{Title: "Amount", Width: 10},
			{Title: "Note", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
		preview:       preview,
	}
}

func (m ImportModel) Title() string { return "Import Charge Sheet" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: apply | Esc: pick another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			if msg.Type == tea.KeyEnter {
				m.state = importStateApplying
				m.status = fmt.Sprintf("Applying %s...", m.path)

				return m, m.applyCmd(m.path)
			}

			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)

			return m, cmd
		}

	case previewResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.sheet = msg.sheet
		m.state = importStatePreview
		m.preview.SetRows(sheetRows(msg.sheet))

		return m, nil

	case applyResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.report = msg.report
		m.status = fmt.Sprintf("Applied %d rows to %d bills, %d lines rejected.",
			msg.report.Rows-len(msg.report.Errors), len(msg.report.Updated), len(msg.report.Errors))

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.sheet = nil
		m.report = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateApplying:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a charge sheet (bill_id or tenancy_id, charge, amount, note):\n\n%s", m.filePicker.View()),
		)
	case importStatePreview:
		return m.viewPreview()
	case importStateApplying:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewPreview() string {
	header := fmt.Sprintf("Format: %s  |  %d rows  |  %d unreadable lines",
		activeStyle(m.sheet.Profile), len(m.sheet.Rows), len(m.sheet.Errors))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.preview.View(),
		rowErrors(m.sheet.Errors),
		"(Enter to apply, Esc to cancel)",
	))
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n" + rowErrors(m.report.Errors) + "(Esc to go back)")
}

func sheetRows(sheet *importer.Sheet) []table.Row {
	rows := make([]table.Row, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Line),
			r.Target.String(),
			r.Charge,
			r.Amount.String(),
			r.Note,
		})
	}

	return rows
}

func rowErrors(errs []importer.RowError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, e := range errs {
		b.WriteString(errorStyle.Render(e.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	return b.String()
}

// Messages

type previewResultMsg struct {
	sheet *importer.Sheet
	err   error
}

type applyResultMsg struct {
	report *importer.Report
	err    error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewResultMsg{err: err}
		}
		defer f.Close()

		sheet, err := m.importService.Parse(f)

		return previewResultMsg{sheet: sheet, err: err}
	}
}

func (m ImportModel) applyCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return applyResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		report, err := m.importService.Import(ctx, f)

		return applyResultMsg{report: report, err: err}
	}
}
