package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type cacheEntry struct {
	skuID string
	stock int64
}

// stockCacheInMemory — in-memory реализация StockCache с теми же атомарными
// гарантиями батч-декремента, что и у Redis-скрипта: весь Reserve выполняется
// под одной блокировкой, частичных списаний не бывает.
type stockCacheInMemory struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewStockCache возвращает in-memory кэш стока для локальной разработки и тестов.
func NewStockCache() domain.StockCache {
	return &stockCacheInMemory{
		entries: make(map[string]cacheEntry),
	}
}

// GetStock возвращает закэшированное количество или ErrStockNotCached.
func (c *stockCacheInMemory) GetStock(_ context.Context, skuCode string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[skuCode]
	if !ok {
		return 0, domain.ErrStockNotCached
	}
	return entry.stock, nil
}

// MGetStock возвращает количества по известным кодам; остальные опускаются.
func (c *stockCacheInMemory) MGetStock(_ context.Context, skuCodes []string) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]int64, len(skuCodes))
	for _, code := range skuCodes {
		if entry, ok := c.entries[code]; ok {
			result[code] = entry.stock
		}
	}
	return result, nil
}

// SetStock идемпотентно перезаписывает запись SKU.
func (c *stockCacheInMemory) SetStock(_ context.Context, skuCode, skuID string, stock int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[skuCode] = cacheEntry{skuID: skuID, stock: stock}
	return nil
}

// Reserve атомарно списывает весь батч либо не делает ничего.
// Первый SKU с нехваткой (или без записи) прерывает операцию без side effects.
func (c *stockCacheInMemory) Reserve(_ context.Context, items []domain.ReservationItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Первый проход: только проверки, никаких списаний.
	for _, item := range items {
		entry, ok := c.entries[item.SKUCode]
		if !ok || entry.stock < item.Qty {
			return &domain.OutOfStockError{SKUCode: item.SKUCode}
		}
	}

	// Второй проход: все проверки пройдены, списываем.
	for _, item := range items {
		entry := c.entries[item.SKUCode]
		entry.stock -= item.Qty
		c.entries[item.SKUCode] = entry
	}
	return nil
}

// Credit возвращает количества обратно; исчезнувшие из кэша коды пропускаются.
func (c *stockCacheInMemory) Credit(_ context.Context, items []domain.ReservationItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		entry, ok := c.entries[item.SKUCode]
		if !ok {
			continue
		}
		entry.stock += item.Qty
		c.entries[item.SKUCode] = entry
	}
	return nil
}

var _ domain.StockCache = (*stockCacheInMemory)(nil)
