package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/berahive/furthermore-harvester/internal/config"
	"github.com/berahive/furthermore-harvester/internal/logger"
	"github.com/berahive/furthermore-harvester/pkg/furthermore"
	"github.com/berahive/furthermore-harvester/pkg/httpclient"
)

// sources prints the unique protocol and incentivizer names found by scanning
// vault metadata.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sources failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	client, err := furthermore.NewClient(furthermore.Config{
		BaseURL: cfg.FurthermoreBaseURL,
		APIKey:  cfg.FurthermoreAPIKey,
		HTTP:    httpclient.NewRestyClient(cfg.RequestTimeout),
		Log:     log,
	})
	if err != nil {
		return fmt.Errorf("init furthermore client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sources, err := client.Sources(ctx, cfg.SourceScanLimit)
	if err != nil {
		return fmt.Errorf("fetch sources: %w", err)
	}

	fmt.Printf("protocols (%d):\n", len(sources.Protocols))
	for _, name := range sources.Protocols {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("incentivizers (%d):\n", len(sources.Incentivizers))
	for _, name := range sources.Incentivizers {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
