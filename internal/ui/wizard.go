package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1enzz/vtrstudio/internal/wizard"
)

// wizardStepCount is the number of collecting steps shown in the progress
// header. The hour step only appears for hourly services.
const wizardStepCount = 4

// handleWizardKey processes keyboard input for the customer wizard.
func (m Model) handleWizardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The triggering controls are disabled while a transition is in flight;
	// only the quit binding stays live.
	if m.busy {
		return m, nil
	}

	switch m.snap.Step {
	case wizard.StepIdentify:
		return m.handleIdentifyKey(msg)
	case wizard.StepVehicle, wizard.StepService, wizard.StepDate, wizard.StepHour:
		return m.handleChoiceKey(msg)
	case wizard.StepExisting:
		return m.handleExistingKey(msg)
	case wizard.StepConfirmed, wizard.StepCancelled:
		return m.handleTerminalKey(msg)
	}
	return m, nil
}

func (m Model) handleIdentifyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		name := m.nameInput.Value()
		phone := m.phoneInput.Value()
		return m.dispatchTransition(func() {
			m.wiz.SubmitCustomer(m.ctx, name, phone)
		})

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Down):
		m.focusIdx = (m.focusIdx + 1) % 2
		m.syncIdentifyFocus()
		return m, nil

	case key.Matches(msg, m.keys.Prev), key.Matches(msg, m.keys.Up):
		m.focusIdx = (m.focusIdx + 1) % 2
		m.syncIdentifyFocus()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusIdx == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.phoneInput, cmd = m.phoneInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncIdentifyFocus() {
	if m.focusIdx == 0 {
		m.nameInput.Focus()
		m.phoneInput.Blur()
	} else {
		m.nameInput.Blur()
		m.phoneInput.Focus()
	}
}

func (m Model) handleChoiceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	choices := m.wizardChoices()

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.dispatchTransition(func() {
			m.wiz.Back()
		})

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if len(choices) == 0 {
			return m, nil
		}
		choice := choices[m.cursor]
		step := m.snap.Step
		return m.dispatchTransition(func() {
			switch step {
			case wizard.StepVehicle:
				m.wiz.SelectVehicle(m.ctx, choice)
			case wizard.StepService:
				m.wiz.SelectService(m.ctx, choice)
			case wizard.StepDate:
				m.wiz.SelectDate(m.ctx, choice)
			case wizard.StepHour:
				m.wiz.SelectHour(m.ctx, choice)
			}
		})
	}
	return m, nil
}

func (m Model) handleExistingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ConfirmExisting):
		return m.dispatchTransition(func() {
			m.wiz.ConfirmExisting(m.ctx)
		})
	case key.Matches(msg, m.keys.CancelExisting):
		return m.dispatchTransition(func() {
			m.wiz.CancelExisting(m.ctx)
		})
	case key.Matches(msg, m.keys.ReserveAnother):
		return m.dispatchTransition(func() {
			m.wiz.ReserveAnother(m.ctx)
		})
	case key.Matches(msg, m.keys.Back):
		return m.dispatchTransition(func() {
			m.wiz.Back()
		})
	}
	return m, nil
}

func (m Model) handleTerminalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Restart) {
		m.nameInput.SetValue("")
		m.phoneInput.SetValue("")
		m.focusIdx = 0
		m.syncIdentifyFocus()
		return m.dispatchTransition(func() {
			m.wiz.Restart()
		})
	}
	return m, nil
}

// handleWizardSettled re-reads the controller snapshot after a transition.
func (m Model) handleWizardSettled() (tea.Model, tea.Cmd) {
	m.busy = false
	prev := m.snap.Step
	m.snap = m.wiz.Snapshot()
	if m.snap.Step != prev {
		m.cursor = 0
	}
	choices := m.wizardChoices()
	if m.cursor >= len(choices) && len(choices) > 0 {
		m.cursor = len(choices) - 1
	}
	return m, nil
}

// wizardChoices returns the selectable values for the current list step.
func (m Model) wizardChoices() []string {
	switch m.snap.Step {
	case wizard.StepVehicle:
		return m.snap.Vehicles
	case wizard.StepService:
		return m.snap.Services
	case wizard.StepDate:
		return m.snap.Dates
	case wizard.StepHour:
		return m.snap.Hours
	default:
		return nil
	}
}

// Rendering

func (m Model) renderWizard() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("VTR STUDIO — Booking"))
	b.WriteString("\n")
	if !m.snap.Step.Terminal() && m.snap.Step != wizard.StepExisting {
		b.WriteString(m.renderProgress())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.snap.Error != "" {
		b.WriteString(m.styles.DangerText.Render(m.snap.Error))
		b.WriteString("\n\n")
	}
	if m.busy {
		b.WriteString(m.spin.View())
		b.WriteString(m.styles.MutedText.Render(" Talking to the studio..."))
		b.WriteString("\n\n")
	}

	switch m.snap.Step {
	case wizard.StepIdentify:
		b.WriteString(m.renderIdentify())
	case wizard.StepVehicle:
		b.WriteString(m.renderChoice("Pick your vehicle model", "No vehicles available right now."))
	case wizard.StepService:
		b.WriteString(m.renderChoice("Pick a service", "No services available for this vehicle."))
	case wizard.StepDate:
		b.WriteString(m.renderChoice("Pick a date", "No dates available for this service."))
	case wizard.StepHour:
		b.WriteString(m.renderChoice("Pick a time", "No times available on this date."))
	case wizard.StepExisting:
		b.WriteString(m.renderExisting())
	case wizard.StepConfirmed:
		b.WriteString(m.renderTerminal(m.styles.SuccessText.Render("Booking confirmed!"), "Thanks! We'll be waiting for you."))
	case wizard.StepCancelled:
		b.WriteString(m.renderTerminal(m.styles.WarningText.Render("Booking cancelled."), "Come back any time."))
	}

	b.WriteString("\n")
	b.WriteString(m.renderWizardFooter())
	return b.String()
}

func (m Model) renderProgress() string {
	current := 1
	switch m.snap.Step {
	case wizard.StepVehicle:
		current = 2
	case wizard.StepService:
		current = 3
	case wizard.StepDate, wizard.StepHour:
		current = 4
	}

	var cells []string
	for i := 1; i <= wizardStepCount; i++ {
		if i <= current {
			cells = append(cells, m.styles.AccentText.Render("●"))
		} else {
			cells = append(cells, m.styles.MutedText.Render("○"))
		}
	}
	label := fmt.Sprintf("  Step %d of %d", current, wizardStepCount)
	return "  " + strings.Join(cells, " ") + m.styles.MutedText.Render(label)
}

func (m Model) renderIdentify() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Name"))
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Label.Render("Phone"))
	b.WriteString("\n")
	b.WriteString(m.phoneInput.View())
	b.WriteString("\n")
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderChoice(title, empty string) string {
	choices := m.wizardChoices()

	var b strings.Builder
	b.WriteString(m.styles.Label.Render(title))
	b.WriteString("\n\n")
	if len(choices) == 0 {
		b.WriteString(m.styles.MutedText.Render(empty))
		b.WriteString("\n")
		return m.styles.Panel.Render(b.String())
	}
	for i, choice := range choices {
		line := "  " + choice
		if i == m.cursor {
			line = m.styles.Selected.Render("> " + choice)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderExisting() string {
	booking := m.snap.Existing
	if booking == nil {
		return m.styles.MutedText.Render("No booking on file.")
	}

	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("You already have a booking!"))
	b.WriteString("\n\n")
	b.WriteString(m.renderField("Name", booking.Name))
	b.WriteString(m.renderField("Phone", booking.Phone))
	b.WriteString(m.renderField("Service", booking.ServiceType))
	b.WriteString(m.renderField("Vehicle", booking.VehicleModel))
	b.WriteString(m.renderField("Date", formatBookingDate(*booking)))
	b.WriteString(m.styles.Label.Render("Status") + " " + m.styles.StatusStyle(booking.Status).Render(booking.Status))
	b.WriteString("\n")
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderField(label, value string) string {
	return m.styles.Label.Render(label) + " " + m.styles.Text.Render(value) + "\n"
}

func (m Model) renderTerminal(headline, detail string) string {
	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\n")
	b.WriteString(m.styles.Text.Render(detail))
	b.WriteString("\n")
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderWizardFooter() string {
	var hints []string
	switch m.snap.Step {
	case wizard.StepIdentify:
		hints = []string{"enter continue", "tab switch field"}
	case wizard.StepVehicle, wizard.StepService, wizard.StepDate, wizard.StepHour:
		hints = []string{"↑/↓ move", "enter choose", "esc back"}
	case wizard.StepExisting:
		hints = []string{"c confirm", "x cancel", "n reserve another"}
	case wizard.StepConfirmed, wizard.StepCancelled:
		hints = []string{"r new booking"}
	}
	hints = append(hints, "ctrl+t theme", "ctrl+c quit")
	return m.styles.Footer.Render(strings.Join(hints, "  ·  "))
}
