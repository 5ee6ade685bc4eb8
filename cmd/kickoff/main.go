package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/kickoff/internal/app"
	"github.com/okian/kickoff/internal/config"
	"github.com/okian/kickoff/internal/domain/scoring"
	"github.com/okian/kickoff/internal/sample"
	"github.com/okian/kickoff/pkg/logger"
	"github.com/okian/kickoff/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

const (
	outputFilePermission = 0o644
	defaultSampleCount   = 100
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("kickoff: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kickoff",
		Short:         "Score football events and synthesize ticket-page demand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSynthCmd(), newSampleCmd(), newExamplesCmd())
	return root
}

func newSynthCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Score JSON Lines event rows and write click records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			in, closeIn, err := openInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeIn()
			out, closeOut, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			stopMetrics := serveMetrics(ctx, cfg.MetricsAddr)
			defer stopMetrics()

			svc := service.New(
				service.WithLogger(logger.Named("pipeline")),
				service.WithSynthesizer(newSynthesizer(cfg)),
				service.WithBaseClicks(cfg.BaseClicks),
				service.WithFailFast(cfg.FailFast),
			)
			_, runErr := svc.Run(ctx, in, out)
			if err := closeOut(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input JSON Lines file (default stdin)")
	cmd.Flags().StringVar(&output, "output", "", "output JSON Lines file (default stdout)")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var (
		count  int
		seed   int64
		output string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate synthetic event rows as JSON Lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := setup(ctx, cmd.ErrOrStderr()); err != nil {
				return err
			}
			sc := sample.Config{Count: count, Seed: seed}
			rows, err := sample.Generate(ctx, sc)
			if err != nil {
				return err
			}
			out, closeOut, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := sample.WriteJSONL(out, rows); err != nil {
				_ = closeOut()
				return err
			}
			logger.Get().Info(ctx, "sample written", logger.Int("rows", len(rows)), logger.Int64("seed", sc.EffectiveSeed()))
			return closeOut()
		},
	}
	cmd.Flags().IntVar(&count, "count", defaultSampleCount, "number of rows")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses a fixed default)")
	cmd.Flags().StringVar(&output, "output", "", "output file (default stdout)")
	return cmd
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Print reference competition scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			examples := []scoring.CompetitionInput{
				{Competition: scoring.CompetitionBundesliga},
				{Competition: scoring.CompetitionChampionsLeague, Stage: scoring.StageSemifinal},
			}
			w := cmd.OutOrStdout()
			for _, ex := range examples {
				label := ex.Competition
				if ex.Stage != "" {
					label += " " + ex.Stage
				}
				if _, err := fmt.Fprintf(w, "%s: %g\n", label, scoring.ScoreCompetition(ex)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// setup loads configuration and points the global logger at w.
func setup(ctx context.Context, w io.Writer) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWithWriter(w, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

func newSynthesizer(cfg *config.Config) *scoring.Synthesizer {
	seed := cfg.NoiseSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return scoring.NewSynthesizer(
		scoring.WithWeights(cfg.Weights()),
		scoring.WithClickScale(cfg.ClickScale),
		scoring.WithNoise(scoring.NewGaussianNoise(cfg.NoiseMean, cfg.NoiseStdDev, seed)),
	)
}

// serveMetrics exposes /metrics on addr until the returned stop func runs.
// An empty addr disables it.
func serveMetrics(ctx context.Context, addr string) func() {
	if addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	log := logger.Get()
	go func() {
		log.Info(ctx, "starting metrics server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
		}
	}
}

func openInput(path string, fallback io.Reader) (io.Reader, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}
	f, err := os.Open(path) //nolint:gosec // user-supplied input path
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission) //nolint:gosec // user-supplied output path
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	return f, f.Close, nil
}
