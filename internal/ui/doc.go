// Package ui provides the Bubble Tea terminal interface for vtrstudio.
//
// # Overview
//
// The package renders two faces over the same root model:
//
//   - The customer booking wizard, driven by wizard.Controller. Each step of
//     the wizard maps to one view: identity form, vehicle picker, service
//     picker, date picker, hour picker, existing-booking branch, and the two
//     terminal screens.
//   - The admin back office: a login form followed by a tabbed dashboard for
//     bookings, vehicle categories, service rules, and admin users.
//
// # Architecture
//
//   - app.go: root Model, Options, Update dispatch, Run
//   - wizard.go: wizard key handling and rendering
//   - admin.go: back-office state, commands, key handling, and rendering
//   - theme.go: Theme/Styles definitions built on lipgloss
//   - keys.go: key bindings via bubbles/key
//   - helpers.go: small formatting helpers
//
// # Concurrency
//
// All state mutation happens on the Bubble Tea update loop. Network work
// runs inside tea.Cmd functions; each wizard transition is one blocking
// controller call that settles with a wizardSettledMsg, after which the UI
// re-reads the controller snapshot. While a transition is in flight the
// wizard's triggering keys are ignored, so a control can never be invoked
// twice concurrently.
//
// # Error display
//
// Exactly one error message is shown at a time. Wizard errors come from the
// controller snapshot; admin errors are kept in adminState.err and replaced
// by the next request's outcome.
package ui
