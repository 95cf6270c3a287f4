// Command timesheet compares a weekly time sheet workbook with the time
// booked on YouTrack.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TsubasaBE/go-timesheet/internal/cli"
)

// version is set with -ldflags "-X main.version=..." by release builds.
var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	deps := cli.DefaultDeps()
	if version != "" {
		deps.Version = version
	}
	code := cli.Execute(ctx, deps, os.Args[1:])
	stop()
	os.Exit(code)
}
