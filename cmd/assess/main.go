package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Report printed
	ExitUsage   = 1 // Wrong arguments or flags
	ExitFailure = 2 // Assessment or runtime failure
)

// failureError marks an error raised after argument parsing succeeded.
// reported is set when the message has already been printed.
type failureError struct {
	err      error
	reported bool
}

func (e *failureError) Error() string {
	return e.err.Error()
}

func (e *failureError) Unwrap() error {
	return e.err
}

func failure(err error) error {
	return &failureError{err: err}
}

func reportedFailure(err error) error {
	return &failureError{err: err, reported: true}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var fe *failureError
	if errors.As(err, &fe) {
		if !fe.reported {
			fmt.Fprintln(stderr, "Error:", fe.err)
		}
		return ExitFailure
	}

	fmt.Fprintln(stderr, "Error:", err)
	fmt.Fprint(stderr, cmd.UsageString())
	return ExitUsage
}
