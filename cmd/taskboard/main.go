// Package main is the entry point for the taskboard terminal client.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/client"
	"taskboard/internal/config"
	"taskboard/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses flags and starts the client. It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.LoadClient()

	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", cfg.APIURL, "task API base URL (env TASKBOARD_API_URL)")
	plain := fs.Bool("plain", false, "print the task list and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	c := client.New(*apiURL)

	if *plain {
		all, err := c.List(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "✖ Failed to load tasks: %v\n", err)
			return 1
		}
		if err := tui.RenderPlain(stdout, all); err != nil {
			fmt.Fprintf(stderr, "✖ %v\n", err)
			return 1
		}
		return 0
	}

	// session start is best effort
	_ = c.AppOpened(ctx, true)

	if err := tui.Run(ctx, c); err != nil {
		fmt.Fprintf(stderr, "✖ %v\n", err)
		return 1
	}
	return 0
}
