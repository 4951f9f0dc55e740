// Command schedprof runs a canonical mutex-contending workload through the
// schedprof simulator and prints its statistics.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/isn-/schedprof"
	"github.com/isn-/schedprof/internal/env"
)

func main() {
	app := &cli.App{
		Name:  "schedprof",
		Usage: "simulate cooperative coroutine scheduling on a multi-CPU machine",
		Commands: []*cli.Command{
			demoCommand(os.Environ()),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(app.ErrWriter, err)
		if _, ok := err.(simError); ok {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// usageError marks an error as a flag/argument problem; it carries no
// special handling of its own but documents intent at call sites.
type usageError struct{ error }

// simError marks an error as a hard failure from the simulator itself
// (e.g. a policy contract violation or an unlock issued by a non-owner),
// as opposed to a usage mistake, so main can pick the exit code spec.md's
// CLI contract requires.
type simError struct{ error }

// demoCommand builds the demo subcommand's flags, seeding --log-level and
// --log-format's defaults from environ the same way the teacher resolves
// DISPATCH_API_KEY/DISPATCH_ENDPOINT_URL: through internal/env rather than
// the CLI framework's own env-binding, so the default is computed from a
// plain []string and stays testable against a fake environment.
func demoCommand(environ []string) *cli.Command {
	logLevel := env.Get(environ, "SCHEDPROF_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := env.Get(environ, "SCHEDPROF_LOG_FORMAT")
	if logFormat == "" {
		logFormat = "text"
	}

	return &cli.Command{
		Name:  "demo",
		Usage: "run the canonical K-worker mutex-contention workload",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "ncpu", Value: 1, Usage: "number of simulated CPUs"},
			&cli.StringFlag{Name: "scheduler", Value: "dumb", Usage: "scheduling policy name"},
			&cli.IntFlag{Name: "connections", Value: 1, Usage: "number of worker coroutines (K)"},
			&cli.StringFlag{Name: "log-level", Value: logLevel, Usage: "debug, info, warn, or error"},
			&cli.StringFlag{Name: "log-format", Value: logFormat, Usage: "text or json"},
		},
		Action: runDemo,
	}
}

func runDemo(c *cli.Context) error {
	ncpu := c.Int("ncpu")
	if ncpu < 1 {
		return usageError{fmt.Errorf("--ncpu must be at least 1, got %d", ncpu)}
	}
	connections := c.Int("connections")
	if connections < 1 {
		return usageError{fmt.Errorf("--connections must be at least 1, got %d", connections)}
	}

	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return usageError{err}
	}
	logger, err := newLogger(c.String("log-format"), level, c.App.ErrWriter)
	if err != nil {
		return usageError{err}
	}

	registry := schedprof.NewPolicyRegistry()
	policy, err := registry.Lookup(c.String("scheduler"))
	if err != nil {
		return usageError{err}
	}

	schedprof.ResetCoroutineInstanceCounter()
	schedprof.ResetCPUInstanceCounter()
	schedprof.ResetMutexInstanceCounter()

	root := buildWorkload(connections)
	scheduler := schedprof.NewScheduler(policy, schedprof.WithLogger(logger))
	stats, err := scheduler.RunProgram(context.Background(), root, ncpu, nil)
	if err != nil {
		return simError{fmt.Errorf("simulation failed: %w", err)}
	}

	printStats(c.App.Writer, stats)
	return nil
}

// buildWorkload constructs one root coroutine spawning k workers that
// contend for a single shared mutex, matching spec.md's canonical demo
// program: io(3); cpu(1); lock; cpu(1); unlock; io(5); cpu(6); lock;
// cpu(1); unlock; io(3).
func buildWorkload(k int) *schedprof.Coroutine {
	mutex := schedprof.NewMutex()
	worker := func(yield func(schedprof.Instruction)) {
		yield(schedprof.Io(3))
		yield(schedprof.CpuBurn(1))
		yield(schedprof.Lock(mutex))
		yield(schedprof.CpuBurn(1))
		yield(schedprof.Unlock(mutex))
		yield(schedprof.Io(5))
		yield(schedprof.CpuBurn(6))
		yield(schedprof.Lock(mutex))
		yield(schedprof.CpuBurn(1))
		yield(schedprof.Unlock(mutex))
		yield(schedprof.Io(3))
	}
	return schedprof.NewCoroutine(func(yield func(schedprof.Instruction)) {
		for i := 0; i < k; i++ {
			yield(schedprof.Spawn(schedprof.NewCoroutine(worker)))
		}
	})
}

func printStats(w io.Writer, stats schedprof.Stats) {
	fmt.Fprintf(w, "Elapsed time: %d\n", stats.Elapsed)
	fmt.Fprintf(w, "Total CPU time: %d\n", stats.TotalCPUTime)
	fmt.Fprintf(w, "Burning CPU time: %d\n", stats.BurningCPUTime)
	fmt.Fprintf(w, "Context switches: %d\n", stats.ContextSwitches)
	fmt.Fprintf(w, "Cache hits: %d\n", stats.CacheHits)
	fmt.Fprintf(w, "Cache hit rate: %s\n", percent(float64(stats.CacheHits), float64(stats.ContextSwitches), 2))
	fmt.Fprintf(w, "CPU utilization: %s\n", percent(float64(stats.BurningCPUTime), float64(stats.TotalCPUTime), 2))
	fmt.Fprintf(w, "Parallel speedup: %s\n", sigfigs(float64(stats.BurningCPUTime)/float64(stats.Elapsed), 4))
}

func percent(numerator, denominator float64, decimals int) string {
	if denominator == 0 {
		return fmt.Sprintf("%.*f%%", decimals, 0.0)
	}
	return fmt.Sprintf("%.*f%%", decimals, 100*numerator/denominator)
}

func sigfigs(v float64, n int) string {
	return fmt.Sprintf("%.*g", n, v)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unrecognized --log-level %q", s)
	}
}

func newLogger(format string, level slog.Level, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unrecognized --log-format %q", format)
	}
}
