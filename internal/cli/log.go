// Package cli implements the groove command-line interface.
//
// The commands compile regular path expressions to automata, find the
// matches of expressions and rules in host graphs, and apply rules. The CLI
// is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - regex: Parse expressions and render their automata
//   - match: List the node pairs connected by an expression
//   - apply: Apply rules from a YAML file to a graph
//   - graph: Convert and render host graphs
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which can
// also be switched on in the configuration file. Loggers are passed through
// context.Context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Applied 3 events (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports rewrite and automaton events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnMatchStart(_ context.Context, rule string) {
	h.logger.Debug("matching", "rule", rule)
}

func (h logHooks) OnMatchComplete(_ context.Context, rule string, matches int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("match failed", "rule", rule, "error", err)
		return
	}
	h.logger.Debug("match done", "rule", rule, "matches", matches, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnApply(_ context.Context, event string, added, removed int) {
	h.logger.Debug("applied", "event", event, "added", added, "removed", removed)
}

func (h logHooks) OnMinimise(_ context.Context, expr string, states, minimal int, d time.Duration) {
	h.logger.Debug("minimised", "expr", expr, "states", states, "minimal", minimal, "took", d.Round(time.Microsecond))
}
