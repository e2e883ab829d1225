package harvester

import (
	"context"

	"github.com/berahive/furthermore-harvester/pkg/furthermore"
	"github.com/berahive/furthermore-harvester/pkg/publishers"
)

// VaultFetcher is the slice of the Furthermore client the harvester consumes.
type VaultFetcher interface {
	Vaults(ctx context.Context, q furthermore.VaultsQuery) (map[string]any, error)
	BGTPrices(ctx context.Context) (map[string]any, error)
}

// EventPublisher publishes harvested vault snapshots downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
