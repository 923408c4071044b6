package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/born-ml/vgg/internal/backend/cpu"
	"github.com/born-ml/vgg/internal/nn"
	"github.com/born-ml/vgg/internal/telemetry"
	"github.com/born-ml/vgg/internal/tensor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// RunResult is the JSON form of one forward pass.
type RunResult struct {
	RunID    string        `json:"run_id"`
	Pass     int           `json:"pass"`
	Input    []int         `json:"input_shape"`
	Output   []int         `json:"output_shape"`
	Duration time.Duration `json:"duration_ns"`
}

// NewRunCmd creates the run command.
func NewRunCmd(outputFn func(cmd *cobra.Command) *Output) *cobra.Command {
	var flags stackFlags
	var eval bool
	var repeat int
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the feature stack on random input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if repeat < 1 {
				return fmt.Errorf("repeat must be at least 1, got %d", repeat)
			}
			cfg, err := flags.vggConfig(cmd)
			if err != nil {
				return err
			}
			shape, err := parseShape(flags.input)
			if err != nil {
				return err
			}
			if _, err := cfg.OutputShape(shape); err != nil {
				return err
			}

			ctx := cmd.Context()
			runID := uuid.NewString()
			logger := telemetry.WithRunID(telemetry.FromContext(ctx), runID)

			reg := prometheus.NewRegistry()
			metrics := telemetry.NewMetrics(reg)

			backend := cpu.New()
			stack, err := nn.NewVGG(cfg, backend, nn.WithLogger(logger), nn.WithObserver(metrics))
			if err != nil {
				return err
			}
			stack.Train(!eval)

			logger.Info("running feature stack",
				"depth", stack.Depth(),
				"widths", cfg.Widths,
				"input_shape", shape,
				"repeat", repeat,
				"training", !eval,
			)

			rng := rand.New(rand.NewSource(inputSeed(cfg.Seed))) //nolint:gosec // synthetic input
			x := tensor.RandnFrom[float32](shape, rng, backend)

			results := make([]RunResult, 0, repeat)
			for pass := 1; pass <= repeat; pass++ {
				start := time.Now()
				out := stack.Forward(x)
				results = append(results, RunResult{
					RunID:    runID,
					Pass:     pass,
					Input:    shape,
					Output:   out.Shape(),
					Duration: time.Since(start),
				})
			}

			if err := printResults(outputFn(cmd), results); err != nil {
				return err
			}

			if metricsAddr == "" {
				return nil
			}
			return serveMetrics(ctx, logger, metricsAddr, reg)
		},
	}

	addStackFlags(cmd, &flags)
	cmd.Flags().BoolVar(&eval, "eval", false, "Use running batch-norm statistics instead of batch statistics")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Number of forward passes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address until interrupted")

	return cmd
}

func inputSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func printResults(out *Output, results []RunResult) error {
	headers := []string{"PASS", "INPUT", "OUTPUT", "DURATION"}
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			fmt.Sprint(r.Pass),
			fmt.Sprint(r.Input),
			fmt.Sprint(r.Output),
			r.Duration.Round(time.Microsecond).String(),
		}
	}
	if len(results) > 0 {
		out.Text("run %s", results[0].RunID)
	}
	return out.Print(headers, rows, results)
}

// serveMetrics exposes reg on addr until ctx is cancelled.
func serveMetrics(ctx context.Context, logger *slog.Logger, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down metrics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}
