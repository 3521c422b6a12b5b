package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/AhmadFikry/subscription-recovery/internal/config"
	"github.com/AhmadFikry/subscription-recovery/internal/logger"
	"github.com/AhmadFikry/subscription-recovery/internal/negotiator"
	"github.com/AhmadFikry/subscription-recovery/internal/pipeline"
	"github.com/AhmadFikry/subscription-recovery/internal/source"
)

func main() {
	// Optional .env for GEMINI_API_KEY; a missing file is fine.
	_ = godotenv.Load()

	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "recover":
		runRecover(log)
	case "upload":
		runUpload(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Subscription Recovery CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Detect recurring price hikes in a transaction export")
	fmt.Println("  recover   Analyze and draft a negotiation script for the largest hike")
	fmt.Println("  upload    Upload a transaction export to GCS")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	input := fs.String("input", "", "Path or gs:// URI of the transaction export (CSV or XLSX)")
	configPath := fs.String("config", "", "Path to the YAML config file")
	out := fs.String("out", "", "Write the report JSON to this file instead of stdout")
	parallel := fs.Bool("parallel", false, "Process merchant partitions concurrently")
	fs.Parse(os.Args[2:])

	if *input == "" {
		log.Fatal().Msg("Error: --input is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	log = logger.NewWithLevel(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("input", *input).Msg("Starting analysis")

	state := &pipeline.State{SourceURI: *input}
	p := pipeline.NewAnalysisPipeline(source.Fetcher{}, cfg.IngestColumns(), *parallel)
	if err := p.Execute(ctx, state); err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	data, err := state.Report.JSON()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to serialize report")
	}

	if err := writeOutput(*out, data); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
}

func runRecover(log zerolog.Logger) {
	fs := flag.NewFlagSet("recover", flag.ExitOnError)
	input := fs.String("input", "", "Path or gs:// URI of the transaction export (CSV or XLSX)")
	configPath := fs.String("config", "", "Path to the YAML config file")
	model := fs.String("model", "", "Gemini model to use (overrides config)")
	reportOut := fs.String("report-out", "", "Also write the report JSON to this file")
	fs.Parse(os.Args[2:])

	if *input == "" {
		log.Fatal().Msg("Error: --input is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *model != "" {
		cfg.Model = *model
	}
	log = logger.NewWithLevel(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("input", *input).Str("model", cfg.Model).Msg("Starting recovery run")

	rep, script, err := pipeline.Recover(ctx, *input, source.Fetcher{}, cfg.IngestColumns(), negotiator.NewGemini(cfg.Model))
	if err != nil {
		log.Fatal().Err(err).Msg("Recovery run failed")
	}

	if *reportOut != "" {
		data, err := rep.JSON()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to serialize report")
		}
		if err := writeOutput(*reportOut, data); err != nil {
			log.Fatal().Err(err).Msg("Failed to write report")
		}
	}

	fmt.Println(script)
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to the local export file")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	if err := source.UploadFile(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, *objectName)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
