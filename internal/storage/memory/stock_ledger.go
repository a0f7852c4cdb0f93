package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// StockLedger — in-memory реализация авторитетного хранилища стока.
// Помимо интерфейса domain.StockLedger предоставляет Put для посева данных
// в тестах и локальных запусках.
type StockLedger struct {
	mu      sync.RWMutex
	entries map[string]domain.StockEntry
}

// NewStockLedger возвращает пустой in-memory ledger.
func NewStockLedger() *StockLedger {
	return &StockLedger{
		entries: make(map[string]domain.StockEntry),
	}
}

// Put записывает авторитетную запись стока (посев для тестов/demo).
func (l *StockLedger) Put(entry domain.StockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[entry.SKUCode] = entry
}

// GetStock возвращает запись или ErrStockEntryNotFound.
func (l *StockLedger) GetStock(_ context.Context, skuCode string) (domain.StockEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries[skuCode]
	if !ok {
		return domain.StockEntry{}, domain.ErrStockEntryNotFound
	}
	return entry, nil
}

// BatchGetStock возвращает записи по известным кодам.
func (l *StockLedger) BatchGetStock(_ context.Context, skuCodes []string) ([]domain.StockEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.StockEntry, 0, len(skuCodes))
	for _, code := range skuCodes {
		if entry, ok := l.entries[code]; ok {
			result = append(result, entry)
		}
	}
	return result, nil
}

var _ domain.StockLedger = (*StockLedger)(nil)
