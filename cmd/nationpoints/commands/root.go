package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/riskibarqy/nation-points/external/orf"
	"github.com/riskibarqy/nation-points/internal/domain/event"
	"github.com/riskibarqy/nation-points/internal/domain/scoring"
	"github.com/riskibarqy/nation-points/internal/platform/logging"
	"github.com/riskibarqy/nation-points/internal/usecase"
	"github.com/spf13/cobra"
)

const maxCLIEvents = 100

// errReported marks failures whose details were already written to stderr.
var errReported = errors.New("one or more events failed")

type rootOptions struct {
	logLevel    string
	jsonOutput  bool
	feedBaseURL string
	timeout     time.Duration
	workers     int
}

// cliRuntime is built once per invocation, before any subcommand runs.
type cliRuntime struct {
	opts    rootOptions
	logger  *logging.Logger
	service *usecase.PointsService
}

func (rt *cliRuntime) init(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(rt.opts.logLevel)
	if err != nil {
		return fmt.Errorf("%w: --log-level: %v", usecase.ErrInvalidInput, err)
	}
	if rt.opts.timeout <= 0 {
		return fmt.Errorf("%w: --timeout must be positive", usecase.ErrInvalidInput)
	}

	rt.logger = logging.New(logging.Options{
		Format: logging.FormatConsole,
		Level:  level,
		Writer: cmd.ErrOrStderr(),
	})

	feed := orf.NewClient(orf.ClientConfig{
		BaseURL: rt.opts.feedBaseURL,
		Timeout: rt.opts.timeout,
		Logger:  rt.logger,
	})
	rt.service = usecase.NewPointsService(feed, scoring.WorldCup(), rt.logger, nil, usecase.PointsServiceConfig{
		BatchWorkers:   rt.opts.workers,
		MaxBatchEvents: maxCLIEvents,
	})
	return nil
}

func NewRootCmd() *cobra.Command {
	rt := &cliRuntime{}

	cmd := &cobra.Command{
		Use:           "nationpoints",
		Short:         "nationpoints scores alpine ski races with world-cup points per nation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&rt.opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.BoolVar(&rt.opts.jsonOutput, "json", false, "print JSON instead of tables")
	flags.StringVar(&rt.opts.feedBaseURL, "feed-base-url", orf.DefaultBaseURL, "base URL of the results feed")
	flags.DurationVar(&rt.opts.timeout, "timeout", orf.DefaultTimeout, "timeout of one feed request")
	flags.IntVar(&rt.opts.workers, "workers", 4, "events fetched concurrently")

	cmd.AddCommand(
		newPointsCmd(rt),
		newEventIDCmd(rt),
		newScoreFileCmd(rt),
		newDiscoverCmd(rt),
		newTableCmd(rt),
	)
	return cmd
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	return run(ctx, NewRootCmd(), nil)
}

func run(ctx context.Context, cmd *cobra.Command, args []string) int {
	if args != nil {
		cmd.SetArgs(args)
	}
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err))
	}
	return exitCode(err)
}

// describeError gives each failure class its own lead-in.
func describeError(err error) string {
	switch {
	case errors.Is(err, event.ErrInvalidURL):
		return "invalid event URL: " + err.Error()
	case errors.Is(err, usecase.ErrEmptyResultSet):
		return "no valid results: " + err.Error()
	case errors.Is(err, usecase.ErrTransportFailure):
		return "feed request failed: " + err.Error()
	case errors.Is(err, usecase.ErrInvalidInput):
		return "invalid input: " + err.Error()
	default:
		return "error: " + err.Error()
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, usecase.ErrInvalidInput):
		return 2
	default:
		return 1
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
