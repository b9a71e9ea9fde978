// Package main is the llmc command: it turns a natural-language request into
// a single shell command printed on stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Cyclone1070/llmc/internal/config"
	"github.com/Cyclone1070/llmc/internal/deadline"
	"github.com/Cyclone1070/llmc/internal/envinfo"
	"github.com/Cyclone1070/llmc/internal/logging"
	"github.com/Cyclone1070/llmc/internal/orchestrator"
	"github.com/Cyclone1070/llmc/internal/provider"
	"github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/sandbox"
	"github.com/Cyclone1070/llmc/internal/tool/readonly"
	"github.com/Cyclone1070/llmc/internal/ui"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var errNoRequest = errors.New("no request given")

// Dependencies holds the components required to run the application.
type Dependencies struct {
	Stdout io.Writer
	Stderr io.Writer
	// StderrFile is Stderr when it is a real file, for terminal checks.
	StderrFile *os.File

	Loader          *config.Loader
	Env             envinfo.Source
	ProviderFactory func(ctx context.Context, profile models.Profile, logger *slog.Logger) (models.Provider, error)
	Runner          sandbox.ProcessRunner
	NewStatus       func() ui.Status
}

func createRealProviderFactory() func(context.Context, models.Profile, *slog.Logger) (models.Provider, error) {
	return func(ctx context.Context, profile models.Profile, logger *slog.Logger) (models.Provider, error) {
		return provider.New(ctx, profile, provider.Options{Logger: logger})
	}
}

func realDependencies() Dependencies {
	return Dependencies{
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		StderrFile:      os.Stderr,
		Loader:          config.NewLoader(),
		Env:             envinfo.OSSource(),
		ProviderFactory: createRealProviderFactory(),
		Runner:          &sandbox.OSProcessRunner{},
		NewStatus:       func() ui.Status { return ui.NewStatus(os.Stderr) },
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], realDependencies())
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, deps Dependencies) int {
	cmd := newRootCmd(deps)
	cmd.SetArgs(args)
	cmd.SetOut(deps.Stderr)
	cmd.SetErr(deps.Stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "llmc: %v\n", err)
		return 1
	}
	return 0
}

type flags struct {
	model    string
	apiBase  string
	dialect  string
	timeout  time.Duration
	logLevel string
	version  bool
}

func newRootCmd(deps Dependencies) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "llmc [flags] <request...>",
		Short:         "Turn a natural-language request into a shell command.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.version {
				fmt.Fprintf(deps.Stdout, "llmc %s\n", Version)
				return nil
			}
			request := strings.TrimSpace(strings.Join(args, " "))
			if request == "" {
				fmt.Fprint(deps.Stderr, cmd.UsageString())
				return errNoRequest
			}
			return generate(cmd.Context(), deps, f, request)
		},
	}

	cmd.Flags().StringVar(&f.model, "model", "", "model identifier (overrides "+config.EnvModel+")")
	cmd.Flags().StringVar(&f.apiBase, "api-base", "", "API base URL (overrides "+config.EnvAPIBase+")")
	cmd.Flags().StringVar(&f.dialect, "dialect", "", "wire dialect: chat_completions, anthropic_messages or gemini")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "overall deadline for the run (default 15s)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&f.version, "version", false, "print the version and exit")
	// Words after the first positional argument belong to the request.
	cmd.Flags().SetInterspersed(false)

	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		guide := helpGuide
		if ui.IsTerminal(deps.StderrFile) {
			guide = ui.RenderMarkdown(helpGuide, ui.TerminalWidth(deps.StderrFile, 80))
		}
		fmt.Fprint(deps.Stderr, guide+"\n"+c.UsageString())
	})
	return cmd
}

func generate(ctx context.Context, deps Dependencies, f flags, request string) error {
	start := time.Now()
	cfg, err := deps.Loader.Load()
	if err != nil {
		return err
	}
	if err := cfg.Apply(config.Overrides{
		Model:    f.model,
		APIBase:  f.apiBase,
		Dialect:  f.dialect,
		Timeout:  f.timeout,
		LogLevel: f.logLevel,
	}); err != nil {
		return err
	}
	// The invocation budget covers setup too, not only the model loop.
	ctx, cancel := deadline.StartAt(ctx, start, cfg.Timeout())
	defer cancel()

	profile, err := cfg.Resolve()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, closer := logging.New(logging.Options{Level: level, File: cfg.Log.File, Stderr: deps.Stderr})
	defer closer.Close()
	logger.Debug("resolved profile", "profile", profile.String())

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	executor := sandbox.NewExecutor(policy, deps.Runner, logger)
	tools := []orchestrator.Tool{readonly.New(executor, policy.Commands())}

	p, err := deps.ProviderFactory(ctx, profile, logger)
	if err != nil {
		return err
	}

	system := envinfo.SystemPrompt(envinfo.Collect(deps.Env), readonly.Name, policy.Commands())
	if err := deadline.Check(ctx); err != nil {
		return err
	}

	status := deps.NewStatus()
	orch := orchestrator.New(p, tools,
		orchestrator.WithMaxRounds(cfg.Orchestrator.MaxRounds),
		orchestrator.WithBudget(cfg.Timeout()),
		orchestrator.WithStatus(status),
		orchestrator.WithLogger(logger),
	)
	state, err := orch.Run(ctx, system, request)
	status.Close()
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, state.Command)
	return nil
}
