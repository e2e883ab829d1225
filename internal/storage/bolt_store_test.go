package storage

import (
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresVaults(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		VaultTTL:        1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/cache.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	seen, err := store.SeenVault("vault-1@2026-08-27T10")
	if err != nil || seen {
		t.Fatalf("expected unseen vault, seen=%v err=%v", seen, err)
	}

	if err := store.MarkVault("vault-1@2026-08-27T10"); err != nil {
		t.Fatalf("MarkVault: %v", err)
	}

	seen, err = store.SeenVault("vault-1@2026-08-27T10")
	if err != nil || !seen {
		t.Fatalf("expected vault marked as seen, got seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenVault("vault-1@2026-08-27T10")
	if err != nil {
		t.Fatalf("SeenVault after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkVault("x"); err != nil {
		t.Fatalf("noop store MarkVault: %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}
}
