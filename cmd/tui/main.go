package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/rentledger/internal/app"
	"github.com/MrJamesThe3rd/rentledger/internal/config"
)

type model struct {
	ledger    *app.App
	exportDir string

	currentView View

	billsView   view.BillsModel
	collectView view.CollectModel
	rentalsView view.RentalsModel
	importView  view.ImportModel
	exportView  view.ExportModel
}

type View int

const (
	ViewMenu    View = 0
	ViewBills   View = 1
	ViewCollect View = 2
	ViewRentals View = 3
	ViewImport  View = 4
	ViewExport  View = 5
)

func initialModel(ledger *app.App, exportDir string) model {
	return model{
		ledger:      ledger,
		exportDir:   exportDir,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBills
				m.billsView = view.NewBillsModel(m.ledger.Bills, m.ledger.Presets)

				return m, m.billsView.Init()
			case "2":
				m.currentView = ViewCollect
				m.collectView = view.NewCollectModel(m.ledger.Bills)

				return m, m.collectView.Init()
			case "3":
				m.currentView = ViewRentals
				m.rentalsView = view.NewRentalsModel(m.ledger.Assets, m.ledger.Tenancies)

				return m, m.rentalsView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.ledger.Importer)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.ledger.Export, m.exportDir)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewBills:
		var newModel tea.Model
		newModel, cmd = m.billsView.Update(msg)
		m.billsView = newModel.(view.BillsModel)
	case ViewCollect:
		var newModel tea.Model
		newModel, cmd = m.collectView.Update(msg)
		m.collectView = newModel.(view.CollectModel)
	case ViewRentals:
		var newModel tea.Model
		newModel, cmd = m.rentalsView.Update(msg)
		m.rentalsView = newModel.(view.RentalsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Rent Ledger\n\n" +
				"1. Bills\n" +
				"2. Collect Payments\n" +
				"3. Rentals\n" +
				"4. Import Charge Sheet\n" +
				"5. Export Statements\n\n" +
				"q. Quit",
		)
	case ViewBills:
		current = m.billsView
	case ViewCollect:
		current = m.collectView
	case ViewRentals:
		current = m.rentalsView
	case ViewImport:
		current = m.importView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).PaddingLeft(1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Log output would draw over the UI.
	log := zap.NewNop()

	ledger, err := app.New(context.Background(), cfg, log, nil)
	if err != nil {
		return err
	}
	defer ledger.Close()

	p := tea.NewProgram(initialModel(ledger, cfg.Export.Dir), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
