package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1enzz/vtrstudio/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	sessionPath := flag.String("session", "", "override session path (optional)")
	baseURL := flag.String("base-url", "", "override backend base URL (optional)")
	admin := flag.Bool("admin", false, "open the back office instead of the booking wizard")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  *configPath,
		SessionPath: *sessionPath,
		BaseURL:     *baseURL,
		Admin:       *admin,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "vtrstudio: %v\n", err)
		return 1
	}
	return 0
}
