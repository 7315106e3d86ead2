// Command toto drives the tokenizer bridge from the command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(BuildInfo{Version: version, Commit: commit, Date: date})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			if exit.err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", exit.err)
			}
			return exit.code
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return ExitUsage
	}
	return ExitOK
}
