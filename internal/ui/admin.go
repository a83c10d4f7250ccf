package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1enzz/vtrstudio/internal/studio"
)

// adminView selects between the login screen, the dashboard, and the brief
// session probe shown while a stored token is being tried.
type adminView int

const (
	adminViewLogin adminView = iota
	adminViewChecking
	adminViewDashboard
)

// adminTab mirrors the dashboard tabs of the back office.
type adminTab int

const (
	tabBookings adminTab = iota
	tabVehicles
	tabServices
	tabUsers
)

var adminTabLabels = []string{"Bookings", "Vehicles", "Services", "Users"}

// adminState bundles all back-office UI state.
type adminState struct {
	view    adminView
	tab     adminTab
	loading bool
	err     string
	info    string
	cursor  int

	userInput  textinput.Model
	passInput  textinput.Model
	loginFocus int

	bookings   []studio.Booking
	categories []studio.VehicleCategory
	rules      []studio.ServiceRule
	lastUser   *studio.AdminUser

	form *adminForm
}

// adminForm is a small modal input form for add/edit/lookup actions.
type adminForm struct {
	title  string
	labels []string
	fields []textinput.Model
	focus  int
	submit func(values []string) tea.Cmd
}

func newAdminState() adminState {
	user := textinput.New()
	user.Placeholder = "Username"
	user.CharLimit = 64
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "Password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword

	return adminState{
		view:      adminViewLogin,
		userInput: user,
		passInput: pass,
	}
}

// Messages

type adminLoginMsg struct {
	token string
	err   error
}

type adminBookingsMsg struct {
	items []studio.Booking
	err   error
}

type adminCategoriesMsg struct {
	items []studio.VehicleCategory
	err   error
}

type adminRulesMsg struct {
	items []studio.ServiceRule
	err   error
}

type adminUserMsg struct {
	user *studio.AdminUser
	err  error
}

// adminActionMsg reports a mutation result; on success the active tab is
// reloaded.
type adminActionMsg struct {
	err error
}

// Commands

// enterAdminCmd routes to the dashboard when a usable token is stored and to
// the login screen otherwise.
func (m Model) enterAdminCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.sessions.Token(); err != nil {
			return adminLoginMsg{err: studio.ErrNoSession}
		}
		items, err := m.admin.ListBookings(m.ctx)
		return adminBookingsMsg{items: items, err: err}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := m.admin.Login(m.ctx, username, password)
		return adminLoginMsg{token: token, err: err}
	}
}

func (m Model) loadTabCmd(tab adminTab) tea.Cmd {
	switch tab {
	case tabBookings:
		return func() tea.Msg {
			items, err := m.admin.ListBookings(m.ctx)
			return adminBookingsMsg{items: items, err: err}
		}
	case tabVehicles:
		return func() tea.Msg {
			items, err := m.admin.VehicleCategories(m.ctx)
			return adminCategoriesMsg{items: items, err: err}
		}
	case tabServices:
		return func() tea.Msg {
			items, err := m.admin.ServiceRules(m.ctx)
			return adminRulesMsg{items: items, err: err}
		}
	default:
		return nil
	}
}

func actionCmd(run func() error) tea.Cmd {
	return func() tea.Msg {
		return adminActionMsg{err: run()}
	}
}

// Message handlers

func (m Model) handleAdminLogin(msg adminLoginMsg) (tea.Model, tea.Cmd) {
	m.adm.loading = false
	m.adm.info = ""
	if msg.err != nil {
		m.adm.view = adminViewLogin
		if !errors.Is(msg.err, studio.ErrNoSession) {
			m.adm.err = fmt.Sprintf("Login failed: %v", msg.err)
		}
		return m, nil
	}
	if err := m.sessions.SaveToken(msg.token); err != nil {
		m.adm.err = fmt.Sprintf("Could not store session: %v", err)
		return m, nil
	}
	m.adm.err = ""
	m.adm.view = adminViewDashboard
	m.adm.tab = tabBookings
	m.adm.loading = true
	return m, m.loadTabCmd(tabBookings)
}

func (m Model) handleAdminBookings(msg adminBookingsMsg) (tea.Model, tea.Cmd) {
	m.adm.loading = false
	if msg.err != nil {
		return m.adminLoadFailed(msg.err)
	}
	// Keep action feedback on dashboard reloads; the session-probe message
	// is done once the first list arrives.
	if m.adm.view != adminViewDashboard {
		m.adm.info = ""
	}
	m.adm.view = adminViewDashboard
	m.adm.err = ""
	m.adm.bookings = msg.items
	m.adm.clampCursor(len(msg.items))
	return m, nil
}

func (m Model) handleAdminCategories(msg adminCategoriesMsg) (tea.Model, tea.Cmd) {
	m.adm.loading = false
	if msg.err != nil {
		return m.adminLoadFailed(msg.err)
	}
	m.adm.err = ""
	m.adm.categories = msg.items
	m.adm.clampCursor(len(flattenVehicles(msg.items)))
	return m, nil
}

func (m Model) handleAdminRules(msg adminRulesMsg) (tea.Model, tea.Cmd) {
	m.adm.loading = false
	if msg.err != nil {
		return m.adminLoadFailed(msg.err)
	}
	m.adm.err = ""
	m.adm.rules = msg.items
	m.adm.clampCursor(len(msg.items))
	return m, nil
}

func (m Model) handleAdminUser(msg adminUserMsg) (tea.Model, tea.Cmd) {
	m.adm.loading = false
	if msg.err != nil {
		return m.adminLoadFailed(msg.err)
	}
	m.adm.err = ""
	m.adm.lastUser = msg.user
	return m, nil
}

func (m Model) handleAdminAction(msg adminActionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.adm.loading = false
		return m.adminLoadFailed(msg.err)
	}
	m.adm.err = ""
	m.adm.info = "Done."
	m.adm.loading = true
	return m, m.loadTabCmd(m.adm.tab)
}

// adminLoadFailed surfaces a request failure; an expired or missing session
// drops back to the login screen.
func (m Model) adminLoadFailed(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, studio.ErrNoSession) || isUnauthorized(err) {
		_ = m.sessions.Clear()
		m.adm.view = adminViewLogin
		m.adm.err = "Session expired. Log in again."
		return m, nil
	}
	m.adm.err = fmt.Sprintf("Request failed: %v", err)
	return m, nil
}

func isUnauthorized(err error) bool {
	var statusErr *studio.StatusError
	return errors.As(err, &statusErr) && statusErr.Status == 401
}

// Key handling

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adm.view == adminViewChecking {
		return m, nil
	}
	if m.adm.form != nil {
		return m.handleAdminFormKey(msg)
	}
	if m.adm.view == adminViewLogin {
		return m.handleAdminLoginKey(msg)
	}
	return m.handleAdminDashboardKey(msg)
}

func (m Model) handleAdminLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adm.loading {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		username := strings.TrimSpace(m.adm.userInput.Value())
		password := m.adm.passInput.Value()
		if username == "" || password == "" {
			m.adm.err = "Enter username and password."
			return m, nil
		}
		m.adm.err = ""
		m.adm.loading = true
		return m, m.loginCmd(username, password)

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev),
		key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		m.adm.loginFocus = (m.adm.loginFocus + 1) % 2
		if m.adm.loginFocus == 0 {
			m.adm.userInput.Focus()
			m.adm.passInput.Blur()
		} else {
			m.adm.userInput.Blur()
			m.adm.passInput.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.adm.loginFocus == 0 {
		m.adm.userInput, cmd = m.adm.userInput.Update(msg)
	} else {
		m.adm.passInput, cmd = m.adm.passInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleAdminDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adm.loading {
		return m, nil
	}
	m.adm.info = ""

	switch {
	case key.Matches(msg, m.keys.Logout):
		_ = m.sessions.Clear()
		m.adm = newAdminState()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.adm.tab = (m.adm.tab + 1) % adminTab(len(adminTabLabels))
		m.adm.cursor = 0
		m.adm.loading = m.adm.tab != tabUsers
		return m, m.loadTabCmd(m.adm.tab)

	case key.Matches(msg, m.keys.Prev):
		m.adm.tab = (m.adm.tab + adminTab(len(adminTabLabels)) - 1) % adminTab(len(adminTabLabels))
		m.adm.cursor = 0
		m.adm.loading = m.adm.tab != tabUsers
		return m, m.loadTabCmd(m.adm.tab)

	case key.Matches(msg, m.keys.Refresh):
		m.adm.loading = m.adm.tab != tabUsers
		return m, m.loadTabCmd(m.adm.tab)

	case key.Matches(msg, m.keys.Down):
		m.adm.cursor++
		m.adm.clampCursor(m.adminListLen())
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.adm.cursor > 0 {
			m.adm.cursor--
		}
		return m, nil
	}

	switch m.adm.tab {
	case tabBookings:
		return m.handleBookingsKey(msg)
	case tabVehicles:
		return m.handleVehiclesKey(msg)
	case tabServices:
		return m.handleServicesKey(msg)
	case tabUsers:
		return m.handleUsersKey(msg)
	}
	return m, nil
}

func (m Model) handleBookingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.adm.bookings) == 0 {
		return m, nil
	}
	booking := m.adm.bookings[m.adm.cursor]

	switch {
	case key.Matches(msg, m.keys.ConfirmExisting):
		return m, actionCmd(func() error {
			return m.admin.ConfirmBookingByID(m.ctx, booking.ID)
		})
	case key.Matches(msg, m.keys.CancelExisting):
		return m, actionCmd(func() error {
			return m.admin.CancelBookingByID(m.ctx, booking.ID)
		})
	case key.Matches(msg, m.keys.Delete):
		return m, actionCmd(func() error {
			return m.admin.DeleteBooking(m.ctx, booking.ID)
		})
	}
	return m, nil
}

func (m Model) handleVehiclesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := flattenVehicles(m.adm.categories)

	switch {
	case key.Matches(msg, m.keys.Add):
		m.adm.form = m.newForm("Add vehicle", []string{"Category", "Model"}, nil,
			func(values []string) tea.Cmd {
				category, model := values[0], values[1]
				return actionCmd(func() error {
					return m.admin.AddVehicle(m.ctx, category, model)
				})
			})
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if len(entries) == 0 {
			return m, nil
		}
		entry := entries[m.adm.cursor]
		m.adm.form = m.newForm("Rename vehicle", []string{"New model name"}, []string{entry.model},
			func(values []string) tea.Cmd {
				newModel := values[0]
				return actionCmd(func() error {
					return m.admin.RenameVehicle(m.ctx, entry.category, entry.model, newModel)
				})
			})
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		if len(entries) == 0 {
			return m, nil
		}
		entry := entries[m.adm.cursor]
		return m, actionCmd(func() error {
			return m.admin.RemoveVehicle(m.ctx, entry.category, entry.model)
		})
	}
	return m, nil
}

func (m Model) handleServicesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.adm.form = m.newForm("Add service rule", []string{"Service type", "Duration (e.g. 02:00:00)"}, nil,
			func(values []string) tea.Cmd {
				rule := studio.ServiceRule{ServiceType: values[0], Duration: values[1]}
				return actionCmd(func() error {
					_, err := m.admin.CreateServiceRule(m.ctx, rule)
					return err
				})
			})
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if len(m.adm.rules) == 0 {
			return m, nil
		}
		rule := m.adm.rules[m.adm.cursor]
		m.adm.form = m.newForm("Edit service rule", []string{"Duration"}, []string{rule.Duration},
			func(values []string) tea.Cmd {
				updated := rule
				updated.Duration = values[0]
				return actionCmd(func() error {
					_, err := m.admin.UpdateServiceRule(m.ctx, rule.ID, updated)
					return err
				})
			})
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		if len(m.adm.rules) == 0 {
			return m, nil
		}
		rule := m.adm.rules[m.adm.cursor]
		return m, actionCmd(func() error {
			return m.admin.DeleteServiceRule(m.ctx, rule.ID)
		})
	}
	return m, nil
}

func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.adm.form = m.newForm("Create admin user", []string{"Username", "Password", "Role (admin/user)"}, nil,
			func(values []string) tea.Cmd {
				req := studio.CreateUserRequest{Username: values[0], Password: values[1], Role: values[2]}
				return func() tea.Msg {
					user, err := m.admin.CreateUser(m.ctx, req)
					return adminUserMsg{user: user, err: err}
				}
			})
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Confirm):
		m.adm.form = m.newForm("Look up user", []string{"Username"}, nil,
			func(values []string) tea.Cmd {
				username := values[0]
				return func() tea.Msg {
					user, err := m.admin.User(m.ctx, username)
					return adminUserMsg{user: user, err: err}
				}
			})
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		m.adm.form = m.newForm("Update user", []string{"Username", "New password (blank keeps)", "New role (blank keeps)"}, nil,
			func(values []string) tea.Cmd {
				username := values[0]
				req := studio.UpdateUserRequest{Password: values[1], Role: values[2]}
				return func() tea.Msg {
					user, err := m.admin.UpdateUser(m.ctx, username, req)
					return adminUserMsg{user: user, err: err}
				}
			})
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		m.adm.form = m.newForm("Delete user", []string{"Username"}, nil,
			func(values []string) tea.Cmd {
				username := values[0]
				return actionCmd(func() error {
					return m.admin.DeleteUser(m.ctx, username)
				})
			})
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleAdminFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.adm.form

	switch {
	case key.Matches(msg, m.keys.Back):
		m.adm.form = nil
		return m, nil

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Down):
		form.setFocus((form.focus + 1) % len(form.fields))
		return m, nil

	case key.Matches(msg, m.keys.Prev), key.Matches(msg, m.keys.Up):
		form.setFocus((form.focus + len(form.fields) - 1) % len(form.fields))
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if form.focus < len(form.fields)-1 {
			form.setFocus(form.focus + 1)
			return m, nil
		}
		values := make([]string, len(form.fields))
		for i, field := range form.fields {
			values[i] = strings.TrimSpace(field.Value())
		}
		cmd := form.submit(values)
		m.adm.form = nil
		m.adm.loading = true
		return m, cmd
	}

	var cmd tea.Cmd
	form.fields[form.focus], cmd = form.fields[form.focus].Update(msg)
	return m, cmd
}

func (m Model) newForm(title string, labels, initial []string, submit func(values []string) tea.Cmd) *adminForm {
	fields := make([]textinput.Model, len(labels))
	for i, label := range labels {
		field := textinput.New()
		field.Placeholder = label
		field.CharLimit = 128
		if i < len(initial) {
			field.SetValue(initial[i])
		}
		if i == 0 {
			field.Focus()
		}
		fields[i] = field
	}
	return &adminForm{title: title, labels: labels, fields: fields, submit: submit}
}

func (f *adminForm) setFocus(idx int) {
	f.fields[f.focus].Blur()
	f.focus = idx
	f.fields[f.focus].Focus()
}

// Helpers

type vehicleEntry struct {
	category string
	model    string
}

func flattenVehicles(categories []studio.VehicleCategory) []vehicleEntry {
	var entries []vehicleEntry
	for _, cat := range categories {
		for _, model := range cat.Vehicles {
			entries = append(entries, vehicleEntry{category: cat.Category, model: model})
		}
	}
	return entries
}

func (a *adminState) adminListLenFor(tab adminTab) int {
	switch tab {
	case tabBookings:
		return len(a.bookings)
	case tabVehicles:
		return len(flattenVehicles(a.categories))
	case tabServices:
		return len(a.rules)
	default:
		return 0
	}
}

func (m *Model) adminListLen() int {
	return m.adm.adminListLenFor(m.adm.tab)
}

func (a *adminState) clampCursor(n int) {
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// Rendering

func (m Model) renderAdmin() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("VTR STUDIO — Back office"))
	b.WriteString("\n\n")

	if m.adm.err != "" {
		b.WriteString(m.styles.DangerText.Render(m.adm.err))
		b.WriteString("\n\n")
	} else if m.adm.info != "" {
		b.WriteString(m.styles.SuccessText.Render(m.adm.info))
		b.WriteString("\n\n")
	}
	if m.adm.loading {
		b.WriteString(m.spin.View())
		b.WriteString(m.styles.MutedText.Render(" Working..."))
		b.WriteString("\n\n")
	}

	if m.adm.form != nil {
		b.WriteString(m.renderAdminForm())
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render("enter submit  ·  esc cancel  ·  tab next field"))
		return b.String()
	}

	if m.adm.view == adminViewChecking {
		return b.String()
	}

	if m.adm.view == adminViewLogin {
		b.WriteString(m.renderAdminLogin())
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render("enter log in  ·  tab switch field  ·  ctrl+c quit"))
		return b.String()
	}

	b.WriteString(m.renderAdminTabs())
	b.WriteString("\n\n")
	switch m.adm.tab {
	case tabBookings:
		b.WriteString(m.renderBookingsTab())
	case tabVehicles:
		b.WriteString(m.renderVehiclesTab())
	case tabServices:
		b.WriteString(m.renderServicesTab())
	case tabUsers:
		b.WriteString(m.renderUsersTab())
	}
	b.WriteString("\n")
	b.WriteString(m.renderAdminFooter())
	return b.String()
}

func (m Model) renderAdminLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.adm.userInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Label.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.adm.passInput.View())
	b.WriteString("\n")
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderAdminForm() string {
	form := m.adm.form
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render(form.title))
	b.WriteString("\n\n")
	for i, field := range form.fields {
		b.WriteString(m.styles.Label.Render(form.labels[i]))
		b.WriteString("\n")
		b.WriteString(field.View())
		b.WriteString("\n")
	}
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderAdminTabs() string {
	var cells []string
	for i, label := range adminTabLabels {
		if adminTab(i) == m.adm.tab {
			cells = append(cells, m.styles.Selected.Render(" "+label+" "))
		} else {
			cells = append(cells, m.styles.MutedText.Render(" "+label+" "))
		}
	}
	return "  " + strings.Join(cells, " ")
}

func (m Model) renderBookingsTab() string {
	if len(m.adm.bookings) == 0 {
		return m.styles.MutedText.Render("  No bookings.")
	}
	var b strings.Builder
	for i, booking := range m.adm.bookings {
		line := fmt.Sprintf("%-20s %-14s %-16s %-12s", truncate(booking.Name, 20),
			booking.Phone, truncate(booking.ServiceType, 16), formatBookingDate(booking))
		line += " " + m.styles.StatusStyle(booking.Status).Render(booking.Status)
		if i == m.adm.cursor {
			b.WriteString(m.styles.Selected.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderVehiclesTab() string {
	entries := flattenVehicles(m.adm.categories)
	if len(entries) == 0 {
		return m.styles.MutedText.Render("  No vehicle categories.")
	}
	var b strings.Builder
	idx := 0
	for _, cat := range m.adm.categories {
		header := cat.Category
		if cat.Description != "" {
			header += " — " + cat.Description
		}
		b.WriteString(m.styles.AccentText.Render("  " + header))
		b.WriteString("\n")
		for _, model := range cat.Vehicles {
			if idx == m.adm.cursor {
				b.WriteString(m.styles.Selected.Render("  > " + model))
			} else {
				b.WriteString("    " + model)
			}
			b.WriteString("\n")
			idx++
		}
	}
	return b.String()
}

func (m Model) renderServicesTab() string {
	if len(m.adm.rules) == 0 {
		return m.styles.MutedText.Render("  No service rules.")
	}
	var b strings.Builder
	for i, rule := range m.adm.rules {
		line := fmt.Sprintf("%-24s duration %s", truncate(rule.ServiceType, 24), rule.Duration)
		if len(rule.MaxPerDay) > 0 {
			line += fmt.Sprintf("  (%d daily caps)", len(rule.MaxPerDay))
		}
		if i == m.adm.cursor {
			b.WriteString(m.styles.Selected.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderUsersTab() string {
	var b strings.Builder
	if m.adm.lastUser != nil {
		user := m.adm.lastUser
		b.WriteString(m.renderField("Username", user.Username))
		b.WriteString(m.renderField("Role", user.Role))
		if user.CreatedAt != "" {
			b.WriteString(m.renderField("Created", user.CreatedAt))
		}
	} else {
		b.WriteString(m.styles.MutedText.Render("No user loaded. Press enter to look one up."))
		b.WriteString("\n")
	}
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderAdminFooter() string {
	var hints []string
	switch m.adm.tab {
	case tabBookings:
		hints = []string{"c confirm", "x cancel", "D delete"}
	case tabVehicles:
		hints = []string{"a add", "e rename", "D remove"}
	case tabServices:
		hints = []string{"a add", "e edit", "D delete"}
	case tabUsers:
		hints = []string{"a create", "enter look up", "e update", "D delete"}
	}
	hints = append(hints, "tab switch tab", "R refresh", "ctrl+l log out", "ctrl+c quit")
	return m.styles.Footer.Render(strings.Join(hints, "  ·  "))
}
