package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/bridge"
	"github.com/wippyai/toto/errors"
)

func newPosCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pos FILE OFFSET",
		Short: "Resolve a byte offset to row and column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, offsets, err := readWithOffsets(args[0], args[1:])
			if err != nil {
				return err
			}

			b := a.bridge(cmd.ErrOrStderr())
			defer b.Close()

			col, row, st := b.Position(src, offsets[0])
			if st != toto.StatusOK {
				return statusError(st, errors.PhaseDiagnose)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d:%d\n", row, col)
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render a diagnostic pointing into a file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "unclosed FILE START",
		Short: "Point at a construct opened at START",
		Args:  cobra.ExactArgs(2),
		RunE: a.showRunner(func(b *bridge.Bridge, src []byte, at []int) toto.Status {
			return b.ShowUnclosed(src, at[0])
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "char FILE POS",
		Aliases: []string{"character"},
		Short:   "Point at the character at POS",
		Args:    cobra.ExactArgs(2),
		RunE: a.showRunner(func(b *bridge.Bridge, src []byte, at []int) toto.Status {
			return b.ShowInvalidCharacter(src, at[0])
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "part FILE START POS",
		Short: "Highlight the span [START, POS)",
		Args:  cobra.ExactArgs(3),
		RunE: a.showRunner(func(b *bridge.Bridge, src []byte, at []int) toto.Status {
			return b.ShowInvalidPart(src, at[0], at[1])
		}),
	})

	return cmd
}

func (a *app) showRunner(show func(*bridge.Bridge, []byte, []int) toto.Status) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		src, offsets, err := readWithOffsets(args[0], args[1:])
		if err != nil {
			return err
		}

		b := a.bridge(cmd.OutOrStdout())
		defer b.Close()

		if st := show(b, src, offsets); st != toto.StatusOK {
			return statusError(st, errors.PhaseDiagnose)
		}
		return nil
	}
}

func readWithOffsets(path string, args []string) ([]byte, []int, error) {
	offsets := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, nil, &exitError{err: fmt.Errorf("invalid offset %q", arg), code: ExitUsage}
		}
		offsets[i] = n
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &exitError{err: err, code: ExitUsage}
	}
	return src, offsets, nil
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "toto %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
		},
	}
}
