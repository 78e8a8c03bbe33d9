package launcher

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/interp"
)

// Launcher builds the configured source file and runs the result on request
type Launcher struct {
	opts        Options
	env         []string
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	execHandler interp.ExecHandlerFunc
}

// Option customizes a Launcher
type Option func(*Launcher)

// WithStdIO replaces the inherited standard streams
func WithStdIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// WithEnv replaces the inherited environment. Each entry has the form KEY=value.
func WithEnv(env []string) Option {
	return func(l *Launcher) {
		l.env = env
	}
}

// WithExecHandler replaces the handler that starts processes
func WithExecHandler(handler interp.ExecHandlerFunc) Option {
	return func(l *Launcher) {
		l.execHandler = handler
	}
}

// New returns a Launcher that inherits the process' environment and standard streams
func New(opts Options, options ...Option) *Launcher {
	l := &Launcher{
		opts:        opts,
		env:         os.Environ(),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		execHandler: execHandler,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

// Options returns the options the launcher was created with
func (l *Launcher) Options() Options {
	return l.opts
}

// Build invokes the compiler and waits for it to exit
func (l *Launcher) Build(ctx context.Context) BuildStatus {
	args := l.opts.CompileArgs()
	logCommand(ctx, "build", args, false)

	code, err := l.execute(ctx, args)
	if err != nil {
		return BuildStatus{Code: -1, Err: err}
	}

	if code != 0 {
		return BuildStatus{Code: code, Err: &CompileError{Code: code}}
	}

	return BuildStatus{}
}

// MaybeRun executes the produced binary if args start with the trigger token and status indicates a
// successful build. Otherwise it returns a *RunSkipped error and does nothing.
func (l *Launcher) MaybeRun(ctx context.Context, status BuildStatus, args []string) (RunResult, error) {
	if !l.opts.Triggered(args) {
		return RunResult{}, &RunSkipped{Reason: SkipNoTrigger}
	}

	if !status.Success() {
		return RunResult{}, &RunSkipped{Reason: SkipBuildFailed}
	}

	runArgs := l.opts.RunArgs()
	logCommand(ctx, "run", runArgs, false)

	code, err := l.execute(ctx, runArgs)
	if err != nil {
		return RunResult{}, eris.Wrapf(err, "failed to run %s", runArgs[0])
	}

	return RunResult{Ran: true, Code: code}, nil
}

// Launch performs the build step followed by MaybeRun. The build error takes precedence over the run error.
func (l *Launcher) Launch(ctx context.Context, args []string) (BuildStatus, RunResult, error) {
	status := l.Build(ctx)
	result, err := l.MaybeRun(ctx, status, args)
	if status.Err != nil {
		return status, result, status.Err
	}

	return status, result, err
}

// DryRun logs the commands Launch would execute without running anything
func (l *Launcher) DryRun(ctx context.Context, args []string) {
	logCommand(ctx, "build", l.opts.CompileArgs(), true)

	if l.opts.Triggered(args) {
		logCommand(ctx, "run", l.opts.RunArgs(), true)
	}
}

func logCommand(ctx context.Context, step string, args []string, dry bool) {
	line, err := Render(args)
	if err != nil {
		log(ctx).Warn().Err(err).Str("step", step).Msg("failed to render command")
		return
	}

	log(ctx).Info().
		Str("step", step).
		Bool("command", true).
		Bool("dry", dry).
		Msg(line)
}
