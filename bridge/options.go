package bridge

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Options configures a Bridge.
type Options struct {
	// Output receives diagnostics rendered by Explain and the Show
	// operations.
	Output io.Writer

	// Renderer styles diagnostics. When nil a renderer is detected for
	// each destination writer.
	Renderer *lipgloss.Renderer

	// Logger overrides the package logger for this bridge.
	Logger *zap.Logger
}

// DefaultOptions returns the default bridge configuration: diagnostics go
// to standard output and use the package logger.
func DefaultOptions() Options {
	return Options{
		Output: os.Stdout,
	}
}
