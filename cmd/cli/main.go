package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cbrief/chain-daily/internal/application"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		dateFlag    = flag.String("date", "", "Run for a specific date (YYYY-MM-DD, default: today)")
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Chain Daily CLI\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  OPENROUTER_API_KEY    OpenRouter API key (required)\n")
		fmt.Printf("  DATABASE_DSN          Postgres connection string (required)\n")
		fmt.Printf("  SMTP_HOST             Mail server (required when ENABLE_MAIL=true)\n")
		fmt.Printf("  ARCHIVE_BUCKET        Cloud Storage bucket for artifacts\n")
		fmt.Printf("  SOURCES_FILE          Source list YAML (default: sources.yaml)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Chain Daily CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	date := time.Now()
	if *dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("Invalid -date %q: must be YYYY-MM-DD", *dateFlag)
		}
		date = parsed
	}

	ctx := context.Background()
	app, err := application.New(ctx)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	record, err := app.Pipeline.Run(ctx, date)
	if err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}

	fmt.Println(record.Summary())
}
