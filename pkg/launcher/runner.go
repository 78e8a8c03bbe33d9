package launcher

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

var defaultExecHandler = interp.DefaultExecHandler(2 * time.Second)

// execHandler resolves the executable before handing the command to the default handler. The default
// handler reports a missing executable as exit status 127 which can't be told apart from a compiler that
// exits with 127.
func execHandler(ctx context.Context, args []string) error {
	if len(args) > 0 {
		hc := interp.HandlerCtx(ctx)
		_, err := interp.LookPathDir(hc.Dir, hc.Env, args[0])
		if err != nil {
			return &SpawnError{Command: args[0], Err: err}
		}
	}

	return defaultExecHandler(ctx, args)
}

func (l *Launcher) newRunner() (*interp.Runner, error) {
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(l.env...)),
		interp.ExecHandler(l.execHandler),
		interp.StdIO(l.stdin, l.stdout, l.stderr),
		interp.Params("-e"),
	}

	if l.opts.Dir != "" {
		opts = append(opts, interp.Dir(l.opts.Dir))
	}

	return interp.New(opts...)
}

// execute runs args as a single shell command and returns its exit status. The error is only set if the
// process couldn't be started; a non-zero exit status is not an error here.
func (l *Launcher) execute(ctx context.Context, args []string) (int, error) {
	cmd, err := callExpr(args)
	if err != nil {
		return -1, err
	}

	runner, err := l.newRunner()
	if err != nil {
		return -1, eris.Wrap(err, "failed to initialize runner")
	}

	err = runner.Run(ctx, &syntax.Stmt{Cmd: cmd})
	if err == nil {
		return 0, nil
	}

	if status, ok := interp.IsExitStatus(err); ok {
		return int(status), nil
	}

	var spawnErr *SpawnError
	if eris.As(err, &spawnErr) {
		return -1, err
	}

	return -1, &SpawnError{Command: args[0], Err: err}
}
