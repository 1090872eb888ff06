// Command ticketctl drives the booking API from a terminal. The session is
// kept in a JSON file so a login survives between invocations.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"boxoffice/internal/gateway"
	"boxoffice/internal/session"
	"boxoffice/internal/shared/config"
	"boxoffice/pkg/logger"
)

const usage = `Usage: ticketctl <command> [flags]

Commands:
  login     -u <username> [-p <password>]   (password also read from TICKETCTL_PASSWORD)
  register  -u <username> -email <email> -p <password>
  logout
  whoami
  events
  seats     -event <id>
  book      -event <id> -seats <id,id,...>
  orders
  logs
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// CLI output is for humans; keep the structured log quiet unless asked
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "error"
	}
	log := logger.NewWithWriter(os.Stderr, level)

	store := session.NewFileStore(cfg.Session.File)
	gw := gateway.New(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout}, store, log)

	app := &cli{gw: gw, store: store, log: log, out: os.Stdout}
	if err := app.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// exitUsage is returned for an unknown or missing command
type exitUsage struct{ msg string }

func (e exitUsage) Error() string {
	return e.msg + "\n\n" + usage
}

var _ error = exitUsage{}
