package main

import (
	"fmt"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/bridge"
	"github.com/wippyai/toto/errors"
)

// Exit codes.
const (
	ExitOK = 0

	// ExitFailures means at least one checked file has lexical errors.
	ExitFailures = 1

	// ExitFault means tokenizing stopped on a lexical error, or a bridge
	// call reported a failure status.
	ExitFault = 2

	// ExitUsage means invalid arguments, configuration or I/O.
	ExitUsage = 64
)

type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// silent exits with code after the command already reported the problem.
func silent(code int) error {
	return &exitError{code: code}
}

func statusError(st toto.Status, phase errors.Phase) error {
	err := bridge.ErrorOf(st, phase)
	if err == nil {
		return nil
	}
	return &exitError{err: err, code: ExitFault}
}
