package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func TestStockLedger_Integration_GetStock(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	ledger := NewStockLedger(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seedStockEntryForIntegrationTest(t, store, "ITEST-SKU-A", "sku-a", 42)

	entry, err := ledger.GetStock(ctx, "ITEST-SKU-A")
	if err != nil {
		t.Fatalf("get stock: %v", err)
	}
	if entry.SKUCode != "ITEST-SKU-A" || entry.SKUID != "sku-a" || entry.Stock != 42 {
		t.Fatalf("unexpected stock entry: %+v", entry)
	}

	_, err = ledger.GetStock(ctx, "ITEST-SKU-MISSING")
	if !errors.Is(err, domain.ErrStockEntryNotFound) {
		t.Fatalf("expected ErrStockEntryNotFound, got %v", err)
	}
}

func TestStockLedger_Integration_BatchGetStock_SkipsUnknownCodes(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	ledger := NewStockLedger(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seedStockEntryForIntegrationTest(t, store, "ITEST-SKU-A", "sku-a", 10)
	seedStockEntryForIntegrationTest(t, store, "ITEST-SKU-B", "sku-b", 0)

	entries, err := ledger.BatchGetStock(ctx, []string{"ITEST-SKU-A", "ITEST-SKU-MISSING", "ITEST-SKU-B"})
	if err != nil {
		t.Fatalf("batch get stock: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}

	byCode := map[string]domain.StockEntry{}
	for _, entry := range entries {
		byCode[entry.SKUCode] = entry
	}
	if byCode["ITEST-SKU-A"].Stock != 10 {
		t.Fatalf("unexpected stock for ITEST-SKU-A: %+v", byCode["ITEST-SKU-A"])
	}
	if byCode["ITEST-SKU-B"].Stock != 0 {
		t.Fatalf("unexpected stock for ITEST-SKU-B: %+v", byCode["ITEST-SKU-B"])
	}

	empty, err := ledger.BatchGetStock(ctx, nil)
	if err != nil {
		t.Fatalf("batch get stock with empty input: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result, got %+v", empty)
	}
}
