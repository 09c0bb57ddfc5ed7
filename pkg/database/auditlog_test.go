// Integration tests for the audit log repository. Require a real Postgres
// instance; skipped unless BRIDGE_TEST_DB is set (mirrors the teacher's
// CERTEN_TEST_DB gate in proof_artifact_repository_test.go).

package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/bridgecore/finality-bridge/pkg/config"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	connStr := os.Getenv("BRIDGE_TEST_DB")
	if connStr == "" {
		t.Skip("BRIDGE_TEST_DB not set, skipping database integration test")
	}

	cfg := config.DefaultConfig()
	cfg.DatabaseURL = connStr
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	if err := client.MigrateUp(context.Background()); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return client
}

func TestRecordAndLoadJustification(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	rec := JustificationRecord{
		BridgeID:    42,
		BlockNumber: 100,
		BlockHash:   []byte{1, 2, 3, 4},
		Round:       7,
		SetID:       0,
	}
	if err := client.RecordJustification(ctx, rec); err != nil {
		t.Fatalf("RecordJustification: %v", err)
	}

	records, err := client.LatestJustifications(ctx, 42, 10)
	if err != nil {
		t.Fatalf("LatestJustifications: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected at least one audit record")
	}
	if records[0].BridgeID != 42 || records[0].BlockNumber != 100 || records[0].Round != 7 {
		t.Errorf("unexpected record: %+v", records[0])
	}
	if records[0].AcceptedAt.After(time.Now()) {
		t.Errorf("AcceptedAt %v is in the future", records[0].AcceptedAt)
	}
}

func TestLatestJustificationsRespectsLimit(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	for i := uint64(0); i < 5; i++ {
		rec := JustificationRecord{BridgeID: 99, BlockNumber: 200 + i, BlockHash: []byte{byte(i)}, Round: i, SetID: 0}
		if err := client.RecordJustification(ctx, rec); err != nil {
			t.Fatalf("RecordJustification: %v", err)
		}
	}

	records, err := client.LatestJustifications(ctx, 99, 2)
	if err != nil {
		t.Fatalf("LatestJustifications: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].BlockNumber < records[1].BlockNumber {
		t.Errorf("expected newest-first order, got %+v then %+v", records[0], records[1])
	}
}
