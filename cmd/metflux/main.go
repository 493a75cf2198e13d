// Command metflux is the command-line front end of the metflux packages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/metflux/internal/cli"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	cli.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "metflux: %v\n", err)
		os.Exit(1)
	}
}
