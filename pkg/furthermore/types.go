package furthermore

import (
	"encoding/json"
	"strconv"
)

// VaultsQuery holds the optional pagination and sort parameters for the
// /vaults endpoint. Zero values are omitted from the request query string.
type VaultsQuery struct {
	Limit         int
	Offset        int
	SortBy        string // e.g. "tvl", "apr", "allTimeReceivedBGTAmount"
	SortDirection string // "asc" or "desc"
}

func (q VaultsQuery) params() map[string]string {
	params := make(map[string]string, 4)
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Offset > 0 {
		params["offset"] = strconv.Itoa(q.Offset)
	}
	if q.SortBy != "" {
		params["sortBy"] = q.SortBy
	}
	if q.SortDirection != "" {
		params["sortDirection"] = q.SortDirection
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

// vaultPage is the typed view of a /vaults response used for metadata scans.
// List calls hand the raw decoded body through untouched; only the sources
// scan needs structure.
type vaultPage struct {
	Count  int     `json:"count"`
	Vaults []Vault `json:"vaults"`
}

// Vault is a single record from the /vaults endpoint. Only the fields the
// scan reads are modeled; everything else passes through the opaque list
// calls.
type Vault struct {
	ID       string
	Metadata *VaultMetadata
}

func (v *Vault) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.ID = raw.ID
	v.Metadata = nil
	if len(raw.Metadata) > 0 {
		var meta VaultMetadata
		if err := json.Unmarshal(raw.Metadata, &meta); err == nil {
			v.Metadata = &meta
		}
	}
	return nil
}

// VaultMetadata carries the source names nested in a vault record. Decoding
// is field-wise tolerant: one malformed field must not discard the rest of
// the metadata.
type VaultMetadata struct {
	ProtocolName string
	Protocol     *SourceRef
	Incentivizer *SourceRef
}

func (m *VaultMetadata) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProtocolName json.RawMessage `json:"protocolName"`
		Protocol     json.RawMessage `json:"protocol"`
		Incentivizer json.RawMessage `json:"incentivizer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.ProtocolName) > 0 {
		_ = json.Unmarshal(raw.ProtocolName, &m.ProtocolName)
	}
	m.Protocol = decodeSourceRef(raw.Protocol)
	m.Incentivizer = decodeSourceRef(raw.Incentivizer)
	return nil
}

// SourceRef is a named reference object such as metadata.protocol or
// metadata.incentivizer.
type SourceRef struct {
	Name string `json:"name"`
}

func decodeSourceRef(data []byte) *SourceRef {
	if len(data) == 0 {
		return nil
	}
	var ref SourceRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil
	}
	return &ref
}

// Sources holds the unique protocol and incentivizer names extracted from a
// vault scan, sorted for stable output.
type Sources struct {
	Protocols     []string
	Incentivizers []string
}
