// Command vgg builds VGG-style feature stacks and runs them on synthetic input.
//
// Usage:
//
//	vgg [--json] <command> [flags]
//
// Commands:
//
//	run       Run Forward on random input, optionally serving /metrics
//	describe  Print the architecture and parameter count
//	version   Print the version
//
// Logging is configured with LOG_LEVEL (DEBUG, INFO, WARN, ERROR) and
// LOG_FORMAT (text, json).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/born-ml/vgg/internal/cli"
	"github.com/born-ml/vgg/internal/telemetry"
)

// version is set with -ldflags at build time.
var version = "dev"

func main() {
	logger := telemetry.SetupLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = telemetry.WithLogger(ctx, logger)

	if err := cli.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
