package app

import (
	"context"
	"fmt"

	"github.com/1enzz/vtrstudio/internal/config"
	"github.com/1enzz/vtrstudio/internal/session"
	"github.com/1enzz/vtrstudio/internal/studio"
	"github.com/1enzz/vtrstudio/internal/ui"
	"github.com/1enzz/vtrstudio/internal/wizard"
)

// Options configure the vtrstudio application.
type Options struct {
	ConfigPath  string
	SessionPath string // empty uses default ~/.config/vtrstudio/session.toml
	BaseURL     string // overrides the configured backend address
	Admin       bool   // start in the back-office face instead of the wizard
}

// Run boots the vtrstudio TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	sess, err := session.Load(opts.SessionPath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	client, err := studio.NewClient(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("init booking client: %w", err)
	}

	sessions := &session.Store{Path: opts.SessionPath}

	admin, err := studio.NewAdminClient(cfg.BaseURL, cfg.Timeout, sessions)
	if err != nil {
		return fmt.Errorf("init admin client: %w", err)
	}

	mode := ui.ModeWizard
	if opts.Admin {
		mode = ui.ModeAdmin
	}

	uiOpts := ui.Options{
		Context:     ctx,
		Wizard:      wizard.NewController(client),
		Admin:       admin,
		Sessions:    sessions,
		Mode:        mode,
		ThemeName:   sess.Theme,
		SessionPath: opts.SessionPath,
	}
	return ui.Run(uiOpts)
}
