package furthermore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func vaultsServer(t *testing.T, wantLimit, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vaults" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != wantLimit {
			t.Fatalf("limit = %q, want %s", got, wantLimit)
		}
		w.Write([]byte(body))
	}))
}

func TestSourcesDeduplicates(t *testing.T) {
	srv := vaultsServer(t, "2", `{"count": 2, "vaults": [
		{"id": "v1", "metadata": {"protocolName": "A", "incentivizer": {"name": "X"}}},
		{"id": "v2", "metadata": {"protocolName": "A", "incentivizer": {"name": "Y"}}}
	]}`)
	defer srv.Close()

	sources, err := newTestClient(t, srv.URL).Sources(context.Background(), 2)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if !reflect.DeepEqual(sources.Protocols, []string{"A"}) {
		t.Fatalf("Protocols = %v, want [A]", sources.Protocols)
	}
	if !reflect.DeepEqual(sources.Incentivizers, []string{"X", "Y"}) {
		t.Fatalf("Incentivizers = %v, want [X Y]", sources.Incentivizers)
	}
}

func TestSourcesMissingProtocolStillCollectsIncentivizer(t *testing.T) {
	srv := vaultsServer(t, "1", `{"count": 1, "vaults": [
		{"id": "v1", "metadata": {"incentivizer": {"name": "Infrared"}}}
	]}`)
	defer srv.Close()

	sources, err := newTestClient(t, srv.URL).Sources(context.Background(), 1)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(sources.Protocols) != 0 {
		t.Fatalf("Protocols = %v, want empty", sources.Protocols)
	}
	if !reflect.DeepEqual(sources.Incentivizers, []string{"Infrared"}) {
		t.Fatalf("Incentivizers = %v, want [Infrared]", sources.Incentivizers)
	}
}

func TestSourcesReadsBothProtocolFields(t *testing.T) {
	srv := vaultsServer(t, "1", `{"count": 1, "vaults": [
		{"id": "v1", "metadata": {"protocolName": "Kodiak", "protocol": {"name": "Honeypot"}}}
	]}`)
	defer srv.Close()

	sources, err := newTestClient(t, srv.URL).Sources(context.Background(), 1)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if !reflect.DeepEqual(sources.Protocols, []string{"Honeypot", "Kodiak"}) {
		t.Fatalf("Protocols = %v, want both field variants collected", sources.Protocols)
	}
}

func TestSourcesSkipsBlankAndMalformedEntries(t *testing.T) {
	srv := vaultsServer(t, "4", `{"count": 4, "vaults": [
		{"id": "v1", "metadata": {"protocolName": "  ", "incentivizer": {"name": ""}}},
		{"id": "v2", "metadata": null},
		{"id": "v3", "metadata": "not-an-object"},
		{"id": "v4", "metadata": {"protocolName": "  Bex  "}}
	]}`)
	defer srv.Close()

	sources, err := newTestClient(t, srv.URL).Sources(context.Background(), 4)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if !reflect.DeepEqual(sources.Protocols, []string{"Bex"}) {
		t.Fatalf("Protocols = %v, want trimmed [Bex]", sources.Protocols)
	}
	if len(sources.Incentivizers) != 0 {
		t.Fatalf("Incentivizers = %v, want empty", sources.Incentivizers)
	}
}

func TestSourcesDefaultScanLimit(t *testing.T) {
	srv := vaultsServer(t, "100", `{"count": 0, "vaults": []}`)
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL).Sources(context.Background(), 0); err != nil {
		t.Fatalf("Sources: %v", err)
	}
}

func TestSourcesPropagatesFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Sources(context.Background(), 5)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
}
