package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"audioharvest/internal/adapters/csvspec"
	"audioharvest/internal/adapters/localstorage"
	"audioharvest/internal/adapters/youtube"
	"audioharvest/internal/adapters/ytdlp"
	"audioharvest/internal/config"
	"audioharvest/internal/core/ports"
	"audioharvest/internal/logging"
	"audioharvest/internal/service"
)

type flagValues struct {
	config      string
	input       string
	dataDir     string
	concurrency int
}

func newRootCommand() *cobra.Command {
	var flags flagValues

	rootCmd := &cobra.Command{
		Use:           "harvester-cli",
		Short:         "Download short-video audio tracks for each language/keyword job in input.csv",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, source, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().StringVarP(&flags.config, "config", "c", "", "Configuration file path (TOML)")
	rootCmd.Flags().StringVar(&flags.input, "input", "", "Job spec CSV (default input.csv)")
	rootCmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "Output root directory (default data)")
	rootCmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Maximum jobs running at once (default 10)")

	return rootCmd
}

// loadConfig also returns a description of where the settings came from.
func loadConfig(cmd *cobra.Command, flags flagValues) (*config.Config, string, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Environment variables might be set manually
		log.Println("No .env file found")
	}

	cfg, fromFile, err := config.Load(flags.config)
	if err != nil {
		return nil, "", err
	}
	source := "defaults and environment"
	if fromFile {
		source = flags.config
	}
	if flags.input != "" {
		cfg.Paths.InputFile = flags.input
	}
	if flags.dataDir != "" {
		cfg.Paths.DataDir = flags.dataDir
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Scheduler.MaxConcurrentJobs = flags.concurrency
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, source, nil
}

func run(ctx context.Context, cfg *config.Config, source string, out io.Writer) error {
	logger := log.New(out, "", log.LstdFlags)
	sink := logging.FromLogger(logger)

	sink.Block(func(p logging.Printer) {
		p.Printf("=== Audio Harvester ===")
		p.Printf("Config:      %s", source)
		p.Printf("Input:       %s", cfg.Paths.InputFile)
		p.Printf("Data Dir:    %s", cfg.Paths.DataDir)
		p.Printf("Concurrency: %d", cfg.Scheduler.MaxConcurrentJobs)
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown: in-flight calls fail fast, jobs still drain.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			sink.Printf("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	checkBinaries(cfg, sink)

	var search ports.SearchService
	if cfg.Search.APIKey == "" {
		sink.Printf("WARN: %s is not set; every job will locate 0 videos", config.EnvAPIKey)
	} else {
		client, err := youtube.NewClient(ctx, cfg.Search.APIKey)
		if err != nil {
			sink.Printf("ERROR: %v", err)
		} else {
			search = client
		}
	}

	storage := localstorage.NewLocalStorage(cfg.Paths.DataDir, cfg.Download.AudioFormat)
	downloader := ytdlp.NewYtDlpDownloader(cfg.Download.Binary, ytdlp.Options{
		AudioFormat:     cfg.Download.AudioFormat,
		AudioQuality:    cfg.Download.AudioQuality,
		SocketTimeout:   cfg.Download.SocketTimeout(),
		Retries:         cfg.Download.Retries,
		ProbeTimeout:    cfg.Download.ProbeTimeout(),
		TransferTimeout: cfg.Download.TransferTimeout(),
	})

	locator := service.NewLocator(search, service.LocatorConfig{
		APIKey:           cfg.Search.APIKey,
		PageSize:         cfg.Search.PageSize,
		PublishedAfter:   cfg.Search.PublishedAfter,
		LanguageKeywords: cfg.Search.LanguageKeywords,
	}, sink)
	fetcher := service.NewFetcher(downloader, storage, sink)
	orchestrator := service.NewOrchestrator(locator, fetcher, sink)
	scheduler := service.NewScheduler(orchestrator, cfg.Scheduler.MaxConcurrentJobs, sink)

	jobs := csvspec.NewSource(cfg.Paths.InputFile, sink).Load(ctx)
	sink.Printf("Loaded %d jobs", len(jobs))

	reports := scheduler.RunAll(ctx, jobs)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Run Summary ===")
	fmt.Fprintln(out, service.RenderSummary(reports, isTerminal(out)))
	sink.Printf("=== All jobs done ===")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
