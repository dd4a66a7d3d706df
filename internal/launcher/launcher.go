// Package launcher provides tpos.URLOpener implementations for desktop
// systems: one that hands URLs to the operating system and one that only
// prints them.
package launcher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// DefaultCommand is the platform's URL launcher.
func DefaultCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// Command opens URLs by running an external program with the URL as its
// last argument.
type Command struct {
	Name string
	Args []string

	logger   *zap.Logger
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

// NewCommand returns a launcher running name, or DefaultCommand when name is
// empty.
func NewCommand(name string, logger *zap.Logger, args ...string) *Command {
	if name == "" {
		name = DefaultCommand()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Command{
		Name:     name,
		Args:     args,
		logger:   logger,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// CanOpen reports whether the launcher program is installed.
func (c *Command) CanOpen(u *url.URL) bool {
	if u == nil || u.Scheme == "" {
		return false
	}
	if _, err := c.lookPath(c.Name); err != nil {
		c.logger.Debug("launcher not found", zap.String("command", c.Name), zap.Error(err))
		return false
	}
	return true
}

// Open runs the launcher and reports whether it exited successfully.
func (c *Command) Open(ctx context.Context, u *url.URL) bool {
	args := append(append([]string(nil), c.Args...), u.String())
	if err := c.run(ctx, c.Name, args...); err != nil {
		c.logger.Warn("launcher failed", zap.String("command", c.Name), zap.Error(err))
		return false
	}
	return true
}

// Printer "opens" URLs by writing them to W, one per line.
type Printer struct {
	W io.Writer
}

// CanOpen implements tpos.URLOpener.
func (p Printer) CanOpen(u *url.URL) bool {
	return u != nil
}

// Open implements tpos.URLOpener.
func (p Printer) Open(_ context.Context, u *url.URL) bool {
	_, err := fmt.Fprintln(p.W, u.String())
	return err == nil
}
