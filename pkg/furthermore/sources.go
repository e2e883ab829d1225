package furthermore

import (
	"context"
	"sort"
	"strings"
)

// DefaultSourceScanLimit bounds the vault scan when the caller does not
// specify a limit.
const DefaultSourceScanLimit = 100

// Sources derives the unique protocol and incentivizer names by scanning up
// to scanLimit vaults. Protocol names come from both metadata.protocolName
// and metadata.protocol.name; incentivizer names from
// metadata.incentivizer.name. Vaults with missing or malformed metadata are
// skipped field by field rather than failing the scan. Fetch errors
// propagate to the caller.
func (c *Client) Sources(ctx context.Context, scanLimit int) (Sources, error) {
	if scanLimit <= 0 {
		scanLimit = DefaultSourceScanLimit
	}
	c.log.InfoObj("scanning vaults for source names", "scan_limit", scanLimit)

	var page vaultPage
	q := VaultsQuery{Limit: scanLimit}
	if err := c.getJSON(ctx, "/vaults", q.params(), &page); err != nil {
		return Sources{}, err
	}

	protocols := make(map[string]struct{})
	incentivizers := make(map[string]struct{})
	for _, vault := range page.Vaults {
		meta := vault.Metadata
		if meta == nil {
			continue
		}
		addName(protocols, meta.ProtocolName)
		if meta.Protocol != nil {
			addName(protocols, meta.Protocol.Name)
		}
		if meta.Incentivizer != nil {
			addName(incentivizers, meta.Incentivizer.Name)
		}
	}

	result := Sources{
		Protocols:     sortedNames(protocols),
		Incentivizers: sortedNames(incentivizers),
	}
	c.log.InfoObj("vault source scan completed", "scan_result", map[string]any{
		"vaults_scanned": len(page.Vaults),
		"protocols":      len(result.Protocols),
		"incentivizers":  len(result.Incentivizers),
	})
	return result, nil
}

// addName records a trimmed name in the set. Empty and whitespace-only names
// are skipped, matching the upstream API's habit of filling absent sources
// with blanks.
func addName(set map[string]struct{}, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	set[name] = struct{}{}
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
