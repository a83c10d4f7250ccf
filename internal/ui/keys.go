package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	CycleTheme key.Binding
	Back       key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding

	// Wizard / forms
	Confirm key.Binding
	Restart key.Binding

	// Existing-booking branch
	ConfirmExisting key.Binding
	CancelExisting  key.Binding
	ReserveAnother  key.Binding

	// Admin
	Refresh key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Logout  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		// Plain letters stay free for the text inputs, so no vim-style j/k.
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "Move down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "Next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "Previous"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "New booking"),
		),

		ConfirmExisting: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Confirm booking"),
		),
		CancelExisting: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Cancel booking"),
		),
		ReserveAnother: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Reserve another"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Refresh"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Delete"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Log out"),
		),
	}
}
