package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/app"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/jobs"
	"github.com/ternarybob/speculor/internal/models"
)

var (
	configPath   = flag.String("config", "", "Configuration file path (default: speculor.toml if present)")
	jobName      = flag.String("job", "", "Run one job and exit: daily, monthly, or health")
	runSchedule  = flag.Bool("schedule", false, "Run as a long-lived process on the configured cron schedules")
	forceRun     = flag.Bool("force", false, "Send the notification even when no alerts fired or a cooldown is active")
	dryRun       = flag.Bool("dry-run", false, "Render the notification but do not send it")
	bypassHours  = flag.Bool("bypass-market-hours", false, "Run the daily monitor even when the market is closed")
	simulateAt   = flag.String("at", "", "Simulate the invocation instant (RFC 3339) for market-hours checks")
	cooldownMins = flag.Int("cooldown", 0, "Override the notification cooldown in minutes")
	showVersion  = flag.Bool("version", false, "Print version information")
)

func main() {
	common.InstallCrashHandler("")
	defer func() {
		if r := recover(); r != nil {
			common.WriteCrashFile(r)
			os.Exit(1)
		}
	}()

	flag.Parse()

	if *showVersion {
		fmt.Printf("Speculor version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		if _, err := os.Stat("speculor.toml"); err == nil {
			path = "speculor.toml"
		}
	}

	config, err := common.LoadConfig(path)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	opts, err := parseJobOptions()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid flags")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	switch {
	case *jobName != "":
		result, err := application.RunJob(ctx, *jobName, opts)
		if err != nil {
			logger.Fatal().Err(err).Msg("Job failed to start")
			os.Exit(1)
		}
		printResult(result)
		if result.Status == models.JobError {
			os.Exit(1)
		}

	case *runSchedule || config.Scheduler.Enabled:
		if err := application.StartScheduler(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start scheduler")
			os.Exit(1)
		}
		logger.Info().Msg("Scheduler running - Press Ctrl+C to stop")
		<-ctx.Done()
		logger.Info().Msg("Shutting down")

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// parseJobOptions translates flags into job options, validating -at.
func parseJobOptions() (jobs.Options, error) {
	opts := jobs.Options{
		BypassMarketHours: *bypassHours,
		Force:             *forceRun,
		DryRun:            *dryRun,
		CooldownOverride:  *cooldownMins,
	}
	if *simulateAt != "" {
		at, err := time.Parse(time.RFC3339, *simulateAt)
		if err != nil {
			return opts, fmt.Errorf("invalid -at value %q: %w", *simulateAt, err)
		}
		opts.At = at
	}
	return opts, nil
}

// printResult emits the structured job result as JSON on stdout, the
// contract for anything invoking a one-shot run.
func printResult(result *models.JobResult) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
	}
}
