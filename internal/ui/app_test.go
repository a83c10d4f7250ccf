package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1enzz/vtrstudio/internal/studio"
	"github.com/1enzz/vtrstudio/internal/wizard"
)

// parkedAPI blocks CheckBooking until release is closed, so a transition can
// be observed mid-flight.
type parkedAPI struct {
	started chan struct{}
	release chan struct{}
}

var _ studio.BookingAPI = (*parkedAPI)(nil)

func newParkedAPI() *parkedAPI {
	return &parkedAPI{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *parkedAPI) CheckBooking(context.Context, string) (*studio.Booking, error) {
	close(p.started)
	<-p.release
	return nil, nil
}

func (p *parkedAPI) Vehicles(context.Context) ([]string, error) {
	return []string{"Civic"}, nil
}

func (p *parkedAPI) ServicesForVehicle(context.Context, string) ([]string, error) {
	return nil, nil
}

func (p *parkedAPI) ServiceIsHourly(context.Context, string) (bool, error) {
	return false, nil
}

func (p *parkedAPI) AvailableDates(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func (p *parkedAPI) AvailableHours(context.Context, string, string, string) ([]string, error) {
	return nil, nil
}

func (p *parkedAPI) CreateBooking(context.Context, studio.BookingRequest) error {
	return nil
}

func (p *parkedAPI) ConfirmBooking(context.Context, string) error {
	return nil
}

func (p *parkedAPI) CancelBooking(context.Context, string) error {
	return nil
}

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestWizard_BusyWhileTransitionInFlight(t *testing.T) {
	api := newParkedAPI()
	ctrl := wizard.NewController(api)

	m := New(Options{Wizard: ctrl})
	m.nameInput.SetValue("Ana")
	m.phoneInput.SetValue("11999998888")

	model, cmd := m.Update(enterKey())
	inFlight := model.(Model)
	if cmd == nil {
		t.Fatal("enter did not dispatch a transition command")
	}
	if !inFlight.busy {
		t.Fatal("model not busy after dispatching a transition")
	}

	// Run the blocking transition the way the runtime would.
	settled := make(chan tea.Msg, 1)
	go func() { settled <- cmd() }()
	<-api.started

	if view := inFlight.View(); !strings.Contains(view, "Talking to the studio") {
		t.Fatal("no loading indicator rendered mid-flight")
	}

	// A second enter mid-flight must be swallowed, not dispatched.
	model, cmd = inFlight.Update(enterKey())
	if cmd != nil {
		t.Fatal("second enter dispatched a transition while one was in flight")
	}

	close(api.release)
	model, _ = model.(Model).Update(<-settled)
	done := model.(Model)
	if done.busy {
		t.Fatal("model still busy after the transition settled")
	}
	if done.snap.Step != wizard.StepVehicle {
		t.Fatalf("Step = %v, want vehicle", done.snap.Step)
	}
	if view := done.View(); strings.Contains(view, "Talking to the studio") {
		t.Fatal("loading indicator still rendered after settle")
	}
}

func TestAdminEntry_ShowsSessionProbeBeforeLogin(t *testing.T) {
	m := New(Options{Mode: ModeAdmin})

	view := m.View()
	if !strings.Contains(view, "Checking session") {
		t.Fatal("session probe state not rendered on admin entry")
	}
	if strings.Contains(view, "Username") {
		t.Fatal("login form rendered before the stored session was tried")
	}
	if !m.adm.loading {
		t.Fatal("admin entry not marked loading")
	}

	// Keys are ignored until the probe settles.
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if cmd != nil {
		t.Fatal("key dispatched a command during the session probe")
	}

	// No stored token routes to the login form.
	model, _ = model.(Model).Update(adminLoginMsg{err: studio.ErrNoSession})
	after := model.(Model)
	if after.adm.view != adminViewLogin {
		t.Fatalf("view = %v, want login", after.adm.view)
	}
	if after.adm.loading {
		t.Fatal("still loading after the probe settled")
	}
	view = after.View()
	if !strings.Contains(view, "Username") {
		t.Fatal("login form not rendered after the probe settled")
	}
	if strings.Contains(view, "Checking session") {
		t.Fatal("session probe message still rendered on the login form")
	}
}
