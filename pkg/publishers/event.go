package publishers

import "time"

// Event represents a harvested vault snapshot published downstream.
type Event struct {
	VaultID      string         `json:"vault_id"`
	Protocol     string         `json:"protocol,omitempty"`
	Incentivizer string         `json:"incentivizer,omitempty"`
	Vault        map[string]any `json:"vault"`
	CollectedAt  time.Time      `json:"collected_at"`
}

// NewEvent constructs an Event for the given vault record.
func NewEvent(vaultID, protocol, incentivizer string, vault map[string]any) Event {
	return Event{
		VaultID:      vaultID,
		Protocol:     protocol,
		Incentivizer: incentivizer,
		Vault:        vault,
		CollectedAt:  time.Now().UTC(),
	}
}
