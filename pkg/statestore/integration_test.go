//go:build integration || e2e

package statestore

import (
	"context"
	"os"
	"testing"
)

func testAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("NETSIM_REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	return addr
}

func TestSnapshotAndReadAgent_RoundTrips(t *testing.T) {
	store := NewStore(testAddr(t), 9)
	defer store.Close()

	ctx := context.Background()
	defer store.DeleteAgent(ctx, "r1")

	stats := map[string]interface{}{
		"device_type":    "router",
		"arp_table_size": 2,
	}
	if err := store.SnapshotAgent(ctx, "r1", stats); err != nil {
		t.Fatalf("SnapshotAgent failed: %v", err)
	}

	got, err := store.ReadAgent(ctx, "r1")
	if err != nil {
		t.Fatalf("ReadAgent failed: %v", err)
	}
	if got["device_type"] != "router" {
		t.Errorf("device_type = %q, want router", got["device_type"])
	}
	if got["arp_table_size"] != "2" {
		t.Errorf("arp_table_size = %q, want \"2\"", got["arp_table_size"])
	}
}

func TestDeleteAgent_RemovesSnapshot(t *testing.T) {
	store := NewStore(testAddr(t), 9)
	defer store.Close()

	ctx := context.Background()
	if err := store.SnapshotAgent(ctx, "r2", map[string]interface{}{"device_type": "switch"}); err != nil {
		t.Fatalf("SnapshotAgent failed: %v", err)
	}
	if err := store.DeleteAgent(ctx, "r2"); err != nil {
		t.Fatalf("DeleteAgent failed: %v", err)
	}

	got, err := store.ReadAgent(ctx, "r2")
	if err != nil {
		t.Fatalf("ReadAgent failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no fields after delete, got %v", got)
	}
}
