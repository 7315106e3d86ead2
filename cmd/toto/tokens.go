package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newTokensCommand(a *app) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a file",
		Long: `Pull every token of FILE and print its index, tag, offset and text.

A lexical error is explained on stderr and ends the command with exit
status 2. With --keep-going pulling continues after errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return &exitError{err: err, code: ExitUsage}
			}

			b := a.bridge(cmd.ErrOrStderr())
			defer b.Close()

			res, err := pull(b, a.log, src, cmd.ErrOrStderr(), keepGoing)
			if err != nil {
				return err
			}
			if err := writeRecords(cmd.OutOrStdout(), a.cfg.Format, res.records, a.renderer(cmd.OutOrStdout())); err != nil {
				return &exitError{err: err, code: ExitUsage}
			}
			if res.faults > 0 {
				return silent(ExitFault)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "continue pulling after lexical errors")
	return cmd
}

func writeRecords(w io.Writer, format string, records []record, r *lipgloss.Renderer) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []record{}
		}
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}

	index := r.NewStyle().Foreground(lipgloss.Color("#666666")).Width(6)
	name := r.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Width(32)
	offset := r.NewStyle().Width(8)
	text := r.NewStyle().Foreground(lipgloss.Color("#98FB98"))

	for _, rec := range records {
		line := index.Render(fmt.Sprintf("%04d", rec.Index)) +
			name.Render(fmt.Sprintf("(%02d) %s", rec.Tag, rec.Name)) +
			offset.Render(strconv.Itoa(rec.Start))
		if rec.Text != nil {
			line += text.Render(strconv.Quote(*rec.Text))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
