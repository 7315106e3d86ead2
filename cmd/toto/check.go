package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type checkResult struct {
	err     error
	path    string
	diag    bytes.Buffer
	faults  int
	records int
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Check files for lexical errors",
		Long: `Tokenize every FILE and report lexical errors.

Files are checked concurrently over one shared bridge. Every error in a
file is explained. The exit status is 1 if any file has errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.check(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := a.renderer(out)
			ok := r.NewStyle().Foreground(lipgloss.Color("#90EE90"))
			bad := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))

			failed := 0
			for _, res := range results {
				switch {
				case res.err != nil:
					failed++
					fmt.Fprintf(out, "%s: %s %v\n", res.path, bad.Render("error"), res.err)
				case res.faults > 0:
					failed++
					fmt.Fprintf(out, "%s: %s (%d lexical errors)\n", res.path, bad.Render("FAIL"), res.faults)
					out.Write(res.diag.Bytes())
				default:
					fmt.Fprintf(out, "%s: %s (%d tokens)\n", res.path, ok.Render("ok"), res.records)
				}
			}

			if failed > 0 {
				return silent(ExitFailures)
			}
			return nil
		},
	}
}

// check tokenizes paths on a worker pool sharing one bridge. Results keep
// the order of paths.
func (a *app) check(paths []string) ([]*checkResult, error) {
	results := make([]*checkResult, len(paths))
	for i, p := range paths {
		results[i] = &checkResult{path: p}
	}

	// diagnostics are rendered into per-file buffers
	b := a.bridge(io.Discard)
	defer b.Close()

	pool, err := ants.NewPool(a.cfg.Workers, ants.WithPanicHandler(func(p any) {
		a.log.Error("check worker panicked", zap.Any("panic", p))
	}))
	if err != nil {
		return nil, &exitError{err: err, code: ExitUsage}
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, res := range results {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			src, err := os.ReadFile(res.path)
			if err != nil {
				res.err = err
				return
			}
			pulled, err := pull(b, a.log, src, &res.diag, true)
			res.err = err
			res.faults = pulled.faults
			res.records = len(pulled.records)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			res.err = err
		}
	}
	wg.Wait()

	if tokenizers, errs := b.Live(); tokenizers+errs > 0 {
		a.log.Warn("handles leaked by check",
			zap.Int("tokenizers", tokenizers),
			zap.Int("errors", errs))
	}
	return results, nil
}
