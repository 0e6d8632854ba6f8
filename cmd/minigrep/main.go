// Command minigrep prints the lines of its input that match a pattern.
//
// Usage:
//
//	minigrep [flags] PATTERN [FILE...]
//
// Exit status is 0 if a line is selected, 1 if no lines were selected, and 2
// if an error occurred.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
