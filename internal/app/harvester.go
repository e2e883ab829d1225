package app

import (
	"context"
	"fmt"
	"time"

	"github.com/berahive/furthermore-harvester/internal/config"
	"github.com/berahive/furthermore-harvester/internal/harvester"
	"github.com/berahive/furthermore-harvester/internal/logger"
	"github.com/berahive/furthermore-harvester/internal/storage"
	"github.com/berahive/furthermore-harvester/pkg/furthermore"
	"github.com/berahive/furthermore-harvester/pkg/httpclient"
	"github.com/berahive/furthermore-harvester/pkg/publishers"
)

// Harvester represents the harvester runtime. It manages the poll loop,
// coordinating between the Furthermore client, the dedup store, and
// publishers, and handles storage initialization and cleanup.
type Harvester struct {
	cfg             *config.Config
	client          *furthermore.Client
	fanout          *publishers.Fanout
	harvestService  *harvester.Service
	harvestInterval time.Duration
	log             logger.Logger
	store           storage.Store
}

// NewHarvester builds a harvester runtime from config.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := furthermore.NewClient(furthermore.Config{
		BaseURL: cfg.FurthermoreBaseURL,
		APIKey:  cfg.FurthermoreAPIKey,
		HTTP:    httpclient.NewRestyClient(cfg.RequestTimeout),
		Log:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("init furthermore client: %w", err)
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubRegistry := publishers.DefaultRegistry()
	pubClients, err := publishers.BuildAll(ctx, pubRegistry, enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		VaultTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"vault_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	harvestService := harvester.NewService(client, fanout, store, log, cfg.VaultPageLimit)

	return &Harvester{
		cfg:             cfg,
		client:          client,
		fanout:          fanout,
		harvestService:  harvestService,
		harvestInterval: cfg.HarvestInterval,
		log:             log,
		store:           store,
	}, nil
}

// Run starts the harvest loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.harvestService == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.closeStore()

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"publishers_count": h.fanout.Size(),
		"vault_page_limit": h.cfg.VaultPageLimit,
		"harvest_interval": h.harvestInterval.String(),
	})

	if err := h.runOnce(ctx); err != nil {
		h.log.ErrorObj("initial harvest failed", "error", err)
	}

	ticker := time.NewTicker(h.harvestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx); err != nil {
				h.log.ErrorObj("scheduled harvest failed", "error", err)
			}
		}
	}
}

// runOnce performs a single harvest pass.
func (h *Harvester) runOnce(ctx context.Context) error {
	start := time.Now()
	h.log.InfoObj("harvest started", "harvest_meta", map[string]any{
		"started_at": start.UTC(),
	})
	if err := h.harvestService.Run(ctx); err != nil {
		return err
	}
	h.log.InfoObj("harvest completed", "harvest_meta", map[string]any{
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (h *Harvester) closeStore() {
	if h == nil || h.store == nil {
		return
	}
	if err := h.store.Close(); err != nil {
		h.log.ErrorObj("storage close failed", "error", err)
	}
}
