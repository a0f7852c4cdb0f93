package app

import (
	"context"
	"testing"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func TestNewDependencies_MemoryWiring(t *testing.T) {
	ctx := context.Background()

	deps, err := NewDependencies(ctx, DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("new dependencies: %v", err)
	}
	defer deps.Close()

	if deps.Cache == nil || deps.Ledger == nil || deps.Orders == nil {
		t.Fatal("storage dependencies must be initialized")
	}
	if deps.Engine == nil || deps.Reconciler == nil || deps.Orchestrator == nil {
		t.Fatal("service dependencies must be initialized")
	}

	// In-memory конфигурация не несёт внешних подключений.
	if checkers := deps.HealthCheckers(ctx); len(checkers) != 0 {
		t.Fatalf("expected no external health checkers, got %d", len(checkers))
	}
}

func TestNewDependencies_FullOrderFlow(t *testing.T) {
	ctx := context.Background()

	deps, err := NewDependencies(ctx, DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("new dependencies: %v", err)
	}
	defer deps.Close()

	if err := deps.Cache.SetStock(ctx, "SKU-APP", "id-app", 5); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	items, err := deps.Reconciler.CheckStock(ctx, []string{"SKU-APP"})
	if err != nil {
		t.Fatalf("check stock: %v", err)
	}
	if len(items) != 1 || items[0].Stock != 5 {
		t.Fatalf("unexpected check stock result: %+v", items)
	}

	if err := deps.Engine.Reserve(ctx, []domain.ReservationItem{{SKUCode: "SKU-APP", Qty: 2}}); err != nil {
		t.Fatalf("reserve via wired engine: %v", err)
	}

	stock, err := deps.Cache.GetStock(ctx, "SKU-APP")
	if err != nil || stock != 3 {
		t.Fatalf("expected stock 3 after reserve, got %d (err %v)", stock, err)
	}
}
