// Package site runs the static-site generator and inspects what it built.
package site

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
)

// Builder produces the static site inside dir. Implementations can shell out
// to a generator binary or do nothing (tests, --skip-build).
type Builder interface {
	Build(ctx context.Context, dir string) error
}

const (
	msgBuilderNotFound = "site builder not found"
	msgBuildFailed     = "site build failed"
)

// CommandBuilder runs an external command in the site directory with the
// caller's stdio attached. There is no timeout; cancel ctx to interrupt.
type CommandBuilder struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommandBuilder returns a builder for argv wired to the process stdio.
func NewCommandBuilder(argv []string) *CommandBuilder {
	return &CommandBuilder{Argv: argv, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Build runs the command and classifies any failure as a build error.
func (b *CommandBuilder) Build(ctx context.Context, dir string) error {
	if len(b.Argv) == 0 || strings.TrimSpace(b.Argv[0]) == "" {
		return errors.ConfigError("site command is empty").Build()
	}
	if _, err := exec.LookPath(b.Argv[0]); err != nil {
		return errors.BuildError(msgBuilderNotFound).
			WithCause(err).
			WithContext("command", b.Argv[0]).
			Build()
	}

	cmd := exec.CommandContext(ctx, b.Argv[0], b.Argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = b.Stdin
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr

	slog.Debug("Running site build", logfields.Command(b.Argv), logfields.Path(dir))
	if err := cmd.Run(); err != nil {
		builder := errors.BuildError(msgBuildFailed).
			WithCause(err).
			WithContext("command", strings.Join(b.Argv, " ")).
			WithContext("dir", dir)
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			builder = builder.WithContext("exit_code", exitErr.ExitCode())
		}
		return builder.Build()
	}
	return nil
}

// NoopBuilder does nothing. Build counts calls so tests can assert on them.
type NoopBuilder struct {
	Calls int
}

func (b *NoopBuilder) Build(ctx context.Context, _ string) error {
	b.Calls++
	return ctx.Err()
}

// FuncBuilder adapts a function to Builder.
type FuncBuilder func(ctx context.Context, dir string) error

func (f FuncBuilder) Build(ctx context.Context, dir string) error { return f(ctx, dir) }
