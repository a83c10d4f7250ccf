package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1enzz/vtrstudio/internal/session"
	"github.com/1enzz/vtrstudio/internal/studio"
	"github.com/1enzz/vtrstudio/internal/wizard"
)

// Mode selects which face of the client is active.
type Mode int

const (
	ModeWizard Mode = iota
	ModeAdmin
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Wizard      *wizard.Controller
	Admin       studio.AdminAPI
	Sessions    *session.Store
	Mode        Mode
	ThemeName   string
	SessionPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx         context.Context
	keys        keyMap
	theme       Theme
	styles      Styles
	sessionPath string

	mode   Mode
	width  int
	height int

	spin spinner.Model

	// busy is true from dispatching a wizard transition until it settles.
	// The controller snapshot is only re-read on settle, so its Loading flag
	// cannot drive the mid-flight spinner or the key guard.
	busy bool

	// Wizard state
	wiz        *wizard.Controller
	snap       wizard.State
	nameInput  textinput.Model
	phoneInput textinput.Model
	focusIdx   int // 0 = name, 1 = phone
	cursor     int // selection index for the list steps

	// Admin state
	admin    studio.AdminAPI
	sessions *session.Store
	adm      adminState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Studio"
	}
	theme := GetTheme(themeName)
	styles := theme.Styles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentText

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 80
	name.Focus()

	phone := textinput.New()
	phone.Placeholder = "Phone (digits only)"
	phone.CharLimit = 20

	m := Model{
		ctx:         ctx,
		keys:        DefaultKeyMap(),
		theme:       theme,
		styles:      styles,
		sessionPath: opts.SessionPath,
		mode:        opts.Mode,
		spin:        sp,
		wiz:         opts.Wizard,
		nameInput:   name,
		phoneInput:  phone,
		admin:       opts.Admin,
		sessions:    opts.Sessions,
		adm:         newAdminState(),
	}
	if m.wiz != nil {
		m.snap = m.wiz.Snapshot()
	}
	if m.mode == ModeAdmin {
		// The stored session is tried on Init; hold a neutral view instead
		// of flashing the login form.
		m.adm.view = adminViewChecking
		m.adm.loading = true
		m.adm.info = "Checking session..."
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		textinput.Blink,
		m.spin.Tick,
	}
	if m.mode == ModeAdmin {
		cmds = append(cmds, m.enterAdminCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case wizardSettledMsg:
		return m.handleWizardSettled()

	case adminLoginMsg:
		return m.handleAdminLogin(msg)

	case adminBookingsMsg:
		return m.handleAdminBookings(msg)

	case adminCategoriesMsg:
		return m.handleAdminCategories(msg)

	case adminRulesMsg:
		return m.handleAdminRules(msg)

	case adminUserMsg:
		return m.handleAdminUser(msg)

	case adminActionMsg:
		return m.handleAdminAction(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.mode {
	case ModeAdmin:
		return m.renderAdmin()
	default:
		return m.renderWizard()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		// An empty path resolves to the default session file.
		if sess, err := session.Load(m.sessionPath); err == nil {
			sess.Theme = m.theme.Name
			_ = session.Save(m.sessionPath, sess)
		}
		return m, nil
	}

	switch m.mode {
	case ModeAdmin:
		return m.handleAdminKey(msg)
	default:
		return m.handleWizardKey(msg)
	}
}

// Messages

// wizardSettledMsg signals that a wizard transition has finished and the
// snapshot should be re-read.
type wizardSettledMsg struct{}

// Commands

// dispatchTransition marks the model busy and runs one blocking wizard
// transition off the update loop.
func (m Model) dispatchTransition(run func()) (tea.Model, tea.Cmd) {
	m.busy = true
	return m, func() tea.Msg {
		run()
		return wizardSettledMsg{}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
