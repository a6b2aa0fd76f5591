package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"albumpulse/internal/config"
	"albumpulse/internal/logger"
	"albumpulse/internal/pipeline"
	"albumpulse/internal/shutdown"
)

func main() {
	args, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen()

	log := logger.New(args.cfg.Verbose)
	defer log.Close()
	sh.AddCleanup(func() { log.Close() })

	if !args.cfg.Verbose {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("albumpulse_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if args.cfg.Verbose && args.configPath != "" {
		log.Debug("Loaded configuration from: %s", args.configPath)
	}

	if err := args.cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	secrets := config.LoadEnv(args.envPath)

	if err := run(sh.Context(), args, secrets, log); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args cliArgs, secrets config.Secrets, log *logger.Logger) error {
	p := pipeline.New(args.cfg, secrets, log)

	var err error
	switch args.command {
	case "tracks":
		err = p.Tracks(ctx)
	case "videos":
		err = p.Videos(ctx)
	case "stats":
		err = p.Stats(ctx)
	case "lyrics":
		err = p.Lyrics(ctx)
	case "load":
		err = p.Load(ctx)
	case "all":
		err = p.All(ctx)
	default:
		err = fmt.Errorf("unknown command %q", args.command)
	}
	if err != nil {
		return err
	}

	log.Info("=== %s completed ===", args.command)
	return nil
}
