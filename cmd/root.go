package cmd

import (
	"context"
	"io"
	"os"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ngld/vklaunch/pkg/config"
	"github.com/ngld/vklaunch/pkg/launcher"
)

type app struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	exitCode int
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vklaunch [run]",
		Short: "Builds the xcb_vulkan test program and optionally runs it",
		Long: `This command compiles xcb_vulkan.c with clang and links it against libm, XCB and Vulkan.
If the first argument is "run" and the build succeeded, the produced binary is executed afterwards.

The compiler command line can be changed through vklaunch.toml or VKLAUNCH_* environment variables.`,
		SilenceUsage: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.launch(cmd, args)
		},
	}

	rootCmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	rootCmd.Flags().BoolP("verbose", "v", false, "print debug messages")
	rootCmd.Flags().StringP("config", "c", "", "configuration file (default "+config.DefaultFile+" if present)")

	return rootCmd
}

func (a *app) launch(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry")
	if err != nil {
		return err
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	var cfg *config.Config
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return eris.Wrapf(err, "failed to read config file %s", configFile)
		}
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}

	err = cfg.Validate()
	if err != nil {
		return err
	}

	logger := a.newLogger(cfg)
	ctx := launcher.WithLogger(context.Background(), &logger)
	l := launcher.New(cfg.Options(), launcher.WithStdIO(a.stdin, a.stdout, a.stderr))

	if dryRun {
		l.DryRun(ctx, args)
		return nil
	}

	status, result, err := l.Launch(ctx, args)
	switch launcher.Kind(err) {
	case launcher.KindNone:
		logger.Debug().Str("step", "run").Int("code", result.Code).Msg("binary exited")
	case launcher.KindRunSkipped:
		logger.Debug().Str("step", "run").Err(err).Msg("skipped")
	case launcher.KindCompile:
		logger.Error().Str("step", "build").Int("code", status.Code).Msg("compiler failed")
	case launcher.KindSpawn:
		logger.Error().Err(err).Msg("failed to start process")
	default:
		return err
	}

	if cfg.PropagateExitCode && !status.Success() {
		a.exitCode = status.Code
		if a.exitCode <= 0 {
			a.exitCode = 1
		}
	}

	return nil
}

// newLogger builds the logger for cfg. log.trace switches on both eris stack traces and the per-field dump;
// --verbose only lowers the level.
func (a *app) newLogger(cfg *config.Config) zerolog.Logger {
	setErrorFormat(cfg.Log.Trace)

	var out io.Writer = a.stderr
	if !cfg.Log.JSON {
		out = NewConsoleWriter(a.stderr, cfg.Log.Trace)
	}

	return zerolog.New(out).
		Level(cfg.LogLevel()).
		With().
		Str("inv", nanoid.New()).
		Logger()
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil {
		return 1
	}

	return a.exitCode
}

// Execute runs the root command with the process' arguments and returns the exit code
func Execute() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
