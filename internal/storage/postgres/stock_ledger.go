package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type stockLedger struct {
	db *sql.DB
}

// NewStockLedger создаёт PostgreSQL-реализацию StockLedger.
// Таблица inventory_stock для этого сервиса доступна только на чтение:
// наполняют её внешние товарные сервисы.
func NewStockLedger(store *Store) domain.StockLedger {
	return &stockLedger{db: store.DB()}
}

func (l *stockLedger) GetStock(ctx context.Context, skuCode string) (domain.StockEntry, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var entry domain.StockEntry
	err := l.db.QueryRowContext(queryCtx, `
		SELECT sku_code, sku_id, stock
		FROM inventory_stock
		WHERE sku_code = $1
	`, skuCode).Scan(&entry.SKUCode, &entry.SKUID, &entry.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StockEntry{}, domain.ErrStockEntryNotFound
		}
		return domain.StockEntry{}, fmt.Errorf("%w: select stock entry: %v", domain.ErrLedgerUnavailable, err)
	}

	return entry, nil
}

func (l *stockLedger) BatchGetStock(ctx context.Context, skuCodes []string) ([]domain.StockEntry, error) {
	if len(skuCodes) == 0 {
		return []domain.StockEntry{}, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := l.db.QueryContext(queryCtx, `
		SELECT sku_code, sku_id, stock
		FROM inventory_stock
		WHERE sku_code = ANY($1)
	`, skuCodes)
	if err != nil {
		return nil, fmt.Errorf("%w: select stock entries: %v", domain.ErrLedgerUnavailable, err)
	}
	defer rows.Close()

	entries := make([]domain.StockEntry, 0, len(skuCodes))
	for rows.Next() {
		var entry domain.StockEntry
		if err := rows.Scan(&entry.SKUCode, &entry.SKUID, &entry.Stock); err != nil {
			return nil, fmt.Errorf("scan stock entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock entry rows: %w", err)
	}

	return entries, nil
}
