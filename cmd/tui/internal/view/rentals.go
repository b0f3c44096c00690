package view

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

type rentalsState int

const (
	rentalsStateList rentalsState = iota
	rentalsStateRent
	rentalsStateTerminate
	rentalsStateNewAsset
)

// assetItem wraps an asset to implement list.Item.
type assetItem struct {
	asset *asset.Asset
}

func (i assetItem) Title() string {
	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.asset.Status))

	return fmt.Sprintf("%-8s %s  %s", i.asset.Kind, i.asset.Title, status)
}

func (i assetItem) Description() string {
	rates := make([]string, 0, len(i.asset.Rates))
	for _, r := range i.asset.Rates {
		rates = append(rates, fmt.Sprintf("%s %s", FormatAmount(r.Amount), r.Cycle))
	}

	if len(rates) == 0 {
		return "no rates"
	}

	return strings.Join(rates, " | ")
}

func (i assetItem) FilterValue() string {
	return i.asset.Title
}

// rentalForm holds the values bound to the active huh form.
type rentalForm struct {
	renterID    string
	renterName  string
	renterPhone string
	leaseMonths string
	cycle       asset.Cycle
	confirm     bool

	kind  asset.Kind
	title string
	rate  string
}

// RentalsModel lists assets and starts or ends their tenancies.
type RentalsModel struct {
	CommonModel
	assets    *asset.Service
	tenancies *tenancy.Service

	state    rentalsState
	list     list.Model
	form     *huh.Form
	vals     *rentalForm
	selected *asset.Asset
	active   *tenancy.Tenancy

	loading bool
	status  string
}

func NewRentalsModel(assets *asset.Service, tenancies *tenancy.Service) RentalsModel {
	l := list.New([]list.Item{}, assetItemDelegate{}, 0, 0)
	l.Title = "Assets"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return RentalsModel{
		assets:    assets,
		tenancies: tenancies,
		list:      l,
		loading:   true,
	}
}

func (m RentalsModel) Title() string { return "Rentals" }

func (m RentalsModel) ShortHelp() string {
	if m.state == rentalsStateList {
		return "Esc: back | Enter: rent out | t: end tenancy | n: new asset | /: filter"
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m RentalsModel) Init() tea.Cmd {
	return m.loadAssetsCmd()
}

func (m RentalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAssetsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.assets))
		for i, a := range msg.assets {
			items[i] = assetItem{asset: a}
		}

		m.list.SetItems(items)

		if len(items) == 0 {
			m.status = "No assets yet. Press n to add one."
		}

		return m, nil

	case activeTenancyMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.active = msg.tenancy
		m.vals = &rentalForm{}
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("End tenancy of %s today?", msg.tenancy.RenterID)).
					Affirmative("End").
					Negative("Keep").
					Value(&m.vals.confirm),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = rentalsStateTerminate

		return m, m.form.Init()

	case rentalSavedMsg:
		m.state = rentalsStateList
		m.form = nil
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		return m, m.loadAssetsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if m.state == rentalsStateList {
		return m.updateList(msg)
	}

	return m.updateForm(msg)
}

func (m RentalsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "enter":
			return m.startRent()
		case "t":
			if item, ok := m.list.SelectedItem().(assetItem); ok {
				m.selected = item.asset
				return m, m.findActiveCmd(item.asset)
			}
		case "n":
			return m.startNewAsset()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m RentalsModel) startRent() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(assetItem)
	if !ok {
		return m, nil
	}

	if !item.asset.Available() {
		m.status = fmt.Sprintf("%s is %s", item.asset.Title, item.asset.Status)
		return m, nil
	}

	m.selected = item.asset
	m.vals = &rentalForm{leaseMonths: "12", cycle: asset.CycleMonthly}

	cycles := []asset.Cycle{asset.CycleMonthly, asset.CycleDaily, asset.CycleWeekly, asset.CycleHourly, asset.CycleYearly}

	opts := make([]huh.Option[asset.Cycle], 0, len(cycles))
	for _, c := range cycles {
		opts = append(opts, huh.NewOption(string(c), c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Renter ID").
				Value(&m.vals.renterID).
				Validate(notBlank("renter id")),
			huh.NewInput().
				Title("Renter name").
				Value(&m.vals.renterName),
			huh.NewInput().
				Title("Renter phone").
				Value(&m.vals.renterPhone),
			huh.NewInput().
				Title("Lease months").
				Value(&m.vals.leaseMonths).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 {
						return errors.New("enter a whole number of months")
					}
					return nil
				}),
			huh.NewSelect[asset.Cycle]().
				Title("Billing cycle").
				Options(opts...).
				Value(&m.vals.cycle),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = rentalsStateRent

	return m, m.form.Init()
}

func (m RentalsModel) startNewAsset() (tea.Model, tea.Cmd) {
	m.vals = &rentalForm{kind: asset.KindFlat, cycle: asset.CycleMonthly}

	kinds := []asset.Kind{asset.KindFlat, asset.KindBuilding, asset.KindVehicle, asset.KindGadget, asset.KindService}

	kindOpts := make([]huh.Option[asset.Kind], 0, len(kinds))
	for _, k := range kinds {
		kindOpts = append(kindOpts, huh.NewOption(string(k), k))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[asset.Kind]().
				Title("Kind").
				Options(kindOpts...).
				Value(&m.vals.kind),
			huh.NewInput().
				Title("Title").
				Value(&m.vals.title).
				Validate(notBlank("title")),
			huh.NewSelect[asset.Cycle]().
				Title("Rate cycle").
				Options(
					huh.NewOption("monthly", asset.CycleMonthly),
					huh.NewOption("weekly", asset.CycleWeekly),
					huh.NewOption("daily", asset.CycleDaily),
					huh.NewOption("hourly", asset.CycleHourly),
					huh.NewOption("yearly", asset.CycleYearly),
				).
				Value(&m.vals.cycle),
			huh.NewInput().
				Title("Rate").
				Value(&m.vals.rate).
				Validate(func(s string) error {
					_, err := parseWhole(s, false)
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = rentalsStateNewAsset

	return m, m.form.Init()
}

func (m RentalsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = rentalsStateList
		m.form = nil

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

func (m RentalsModel) View() string {
	if m.state == rentalsStateList {
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading assets...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
	}

	if m.form == nil {
		return ""
	}

	header := "New Asset"
	if m.state != rentalsStateNewAsset && m.selected != nil {
		header = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Render(fmt.Sprintf("%s  |  %s  |  %s", m.selected.Kind, m.selected.Title, assetItem{m.selected}.Description()))
	}

	return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.form.View())
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// Messages

type loadAssetsMsg struct {
	assets []*asset.Asset
	err    error
}

func (m RentalsModel) loadAssetsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		assets, err := m.assets.List(ctx, asset.ListFilter{})

		return loadAssetsMsg{assets: assets, err: err}
	}
}

type activeTenancyMsg struct {
	tenancy *tenancy.Tenancy
	err     error
}

func (m RentalsModel) findActiveCmd(a *asset.Asset) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		found, err := m.tenancies.List(ctx, tenancy.ListFilter{
			AssetID: &a.ID,
			Status:  new(tenancy.StatusActive),
		})
		if err != nil {
			return activeTenancyMsg{err: err}
		}

		if len(found) == 0 {
			return activeTenancyMsg{err: fmt.Errorf("%s has no active tenancy", a.Title)}
		}

		return activeTenancyMsg{tenancy: found[0]}
	}
}

type rentalSavedMsg struct {
	status string
	err    error
}

func (m RentalsModel) saveCmd() tea.Cmd {
	state, vals, selected, active := m.state, *m.vals, m.selected, m.active

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch state {
		case rentalsStateRent:
			months, _ := strconv.Atoi(strings.TrimSpace(vals.leaseMonths))

			res, err := m.tenancies.Create(ctx, selected.ID, tenancy.CreateParams{
				RenterID:     strings.TrimSpace(vals.renterID),
				RenterName:   strings.TrimSpace(vals.renterName),
				RenterPhone:  strings.TrimSpace(vals.renterPhone),
				LeaseMonths:  months,
				BillingCycle: vals.cycle,
			})
			if err != nil {
				return rentalSavedMsg{err: err}
			}

			status := fmt.Sprintf("Rented %s, first bill %s due %s", selected.Title, FormatAmount(res.Bill.Total), FormatDate(res.Bill.DueDate))
			if len(res.Warnings) > 0 {
				status += " (" + strings.Join(res.Warnings, "; ") + ")"
			}

			return rentalSavedMsg{status: status}

		case rentalsStateTerminate:
			if !vals.confirm {
				return rentalSavedMsg{status: "Tenancy kept"}
			}

			if _, err := m.tenancies.Terminate(ctx, active.ID, nil); err != nil {
				return rentalSavedMsg{err: err}
			}

			return rentalSavedMsg{status: fmt.Sprintf("Tenancy of %s ended", active.RenterID)}

		case rentalsStateNewAsset:
			rate, err := parseWhole(vals.rate, false)
			if err != nil {
				return rentalSavedMsg{err: err}
			}

			created, err := m.assets.Create(ctx, asset.CreateParams{
				Kind:     vals.kind,
				Title:    strings.TrimSpace(vals.title),
				Rates:    asset.RateTable{{Cycle: vals.cycle, Amount: rate}},
				IsListed: true,
			})
			if err != nil {
				return rentalSavedMsg{err: err}
			}

			return rentalSavedMsg{status: fmt.Sprintf("Added %s", created.Title)}
		}

		return rentalSavedMsg{}
	}
}

// assetItemDelegate renders items in the list.
type assetItemDelegate struct{}

func (d assetItemDelegate) Height() int                             { return 2 }
func (d assetItemDelegate) Spacing() int                            { return 0 }
func (d assetItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d assetItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(assetItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
