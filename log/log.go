// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the structured logger used across packages.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus the given attributes.
	With(ctx ...interface{}) Logger

	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})

	Enabled(level slog.Level) bool
}

var root atomic.Pointer[slog.Logger]

func init() {
	root.Store(slog.New(DiscardHandler()))
}

// SetDefault sets the handler backing all loggers, including those created
// before the call.
func SetDefault(h slog.Handler) {
	root.Store(slog.New(h))
}

// Root returns the root logger.
func Root() Logger {
	return &logger{}
}

// WithContext returns a logger carrying the given attributes,
// usually a package tag, e.g. log.WithContext("pkg", "consensus").
func WithContext(ctx ...interface{}) Logger {
	return Root().With(ctx...)
}

// NewTextHandler returns a handler writing human-readable lines to stderr,
// filtered at the given level.
func NewTextHandler(level slog.Level) slog.Handler {
	var lvl slog.LevelVar
	lvl.Set(level)
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &lvl})
}

// logger resolves the root at call time, so attaching a handler via
// SetDefault also takes effect for package-level loggers created during init.
type logger struct {
	ctx []interface{}
}

func (l *logger) With(ctx ...interface{}) Logger {
	merged := make([]interface{}, 0, len(l.ctx)+len(ctx))
	merged = append(append(merged, l.ctx...), ctx...)
	return &logger{ctx: merged}
}

func (l *logger) write(level slog.Level, msg string, ctx []interface{}) {
	inner := root.Load()
	if len(l.ctx) > 0 {
		inner = inner.With(l.ctx...)
	}
	inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(slog.LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(slog.LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(slog.LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(slog.LevelError, msg, ctx) }

func (l *logger) Enabled(level slog.Level) bool {
	return root.Load().Enabled(context.Background(), level)
}
