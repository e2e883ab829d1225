package harvester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berahive/furthermore-harvester/internal/logger"
	"github.com/berahive/furthermore-harvester/internal/storage"
	"github.com/berahive/furthermore-harvester/pkg/furthermore"
	"github.com/berahive/furthermore-harvester/pkg/publishers"
)

// Service coordinates one harvest pass: fetch a vault page, skip snapshots
// already published, fan the rest out to the configured sinks.
type Service struct {
	client    VaultFetcher
	fanout    EventPublisher
	store     storage.Store
	log       logger.Logger
	pageLimit int
}

// NewService wires a harvester with the Furthermore client and sinks.
func NewService(client VaultFetcher, fanout EventPublisher, store storage.Store, log logger.Logger, pageLimit int) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if pageLimit <= 0 {
		pageLimit = furthermore.DefaultSourceScanLimit
	}
	return &Service{
		client:    client,
		fanout:    fanout,
		store:     store,
		log:       log,
		pageLimit: pageLimit,
	}
}

// Run executes a single harvest pass. A vault-page fetch error aborts the
// pass; per-vault publish errors are joined and the pass continues.
func (s *Service) Run(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("harvester service is not initialized")
	}

	page, err := s.client.Vaults(ctx, furthermore.VaultsQuery{Limit: s.pageLimit})
	if err != nil {
		return fmt.Errorf("fetch vaults: %w", err)
	}

	// Price data rides along for observability; a failure here must not stall
	// vault publishing.
	if prices, err := s.client.BGTPrices(ctx); err != nil {
		s.log.WarnObj("bgt price fetch failed", "error", err.Error())
	} else {
		s.log.InfoObj("bgt prices fetched", "bgt_prices", map[string]any{
			"average": prices["average"],
			"count":   prices["count"],
		})
	}

	raw, _ := page["vaults"].([]any)
	now := time.Now()

	var errs []error
	published, skipped := 0, 0
	for _, entry := range raw {
		vault, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := vault["id"].(string)
		if id == "" {
			continue
		}

		key := snapshotKey(id, now)
		seen, err := s.store.SeenVault(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("check vault %s: %w", id, err))
			continue
		}
		if seen {
			skipped++
			continue
		}

		protocol, incentivizer := metadataNames(vault)
		evt := publishers.NewEvent(id, protocol, incentivizer, vault)
		if _, err := s.fanout.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("publish vault %s: %w", id, err))
			continue
		}
		if err := s.store.MarkVault(key); err != nil {
			errs = append(errs, fmt.Errorf("mark vault %s: %w", id, err))
			continue
		}
		published++
	}

	s.log.InfoObj("harvest pass completed", "harvest_result", map[string]any{
		"vaults_fetched": len(raw),
		"published":      published,
		"skipped":        skipped,
		"errors":         len(errs),
	})
	return errors.Join(errs...)
}

// snapshotKey identifies a vault snapshot for dedup purposes. Keys roll over
// hourly so a vault republishes once its data may have moved.
func snapshotKey(id string, now time.Time) string {
	return id + "@" + now.UTC().Format("2006-01-02T15")
}

// metadataNames pulls the protocol and incentivizer names out of a raw vault
// entry for the event envelope. Absent fields yield empty strings.
func metadataNames(vault map[string]any) (protocol, incentivizer string) {
	meta, ok := vault["metadata"].(map[string]any)
	if !ok {
		return "", ""
	}

	if name, ok := meta["protocolName"].(string); ok && name != "" {
		protocol = name
	} else if ref, ok := meta["protocol"].(map[string]any); ok {
		protocol, _ = ref["name"].(string)
	}

	if ref, ok := meta["incentivizer"].(map[string]any); ok {
		incentivizer, _ = ref["name"].(string)
	}
	return protocol, incentivizer
}
