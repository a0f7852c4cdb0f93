package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// reserveScript выполняет атомарный батч-декремент стока целиком на стороне
// Redis. Сначала проверяются ВСЕ позиции, и только если каждой хватает стока,
// выполняются списания — частичный резерв невозможен, гонка
// «прочитал-потом-записал» исключена. Нечисловое или отсутствующее значение
// считается отсутствием записи.
//
// KEYS[i] — ключ стока i-й позиции, ARGV[i] — требуемое количество.
// Возвращает 0 при успехе либо 1-based индекс первой отказавшей позиции.
var reserveScript = redis.NewScript(`
for i = 1, #KEYS do
    local stock = tonumber(redis.call('GET', KEYS[i]))
    local want = tonumber(ARGV[i])
    if stock == nil or stock < want then
        return i
    end
end
for i = 1, #KEYS do
    redis.call('DECRBY', KEYS[i], ARGV[i])
end
return 0
`)

// creditScript возвращает зарезервированные количества обратно в кэш.
// Ключи, исчезнувшие из кэша (инвалидация, TTL), пропускаются, чтобы
// компенсация не воскрешала удалённые записи.
var creditScript = redis.NewScript(`
for i = 1, #KEYS do
    if redis.call('EXISTS', KEYS[i]) == 1 then
        redis.call('INCRBY', KEYS[i], ARGV[i])
    end
end
return 0
`)

const defaultOpTimeout = 2 * time.Second

// StockCache — Redis-реализация кэша стока.
type StockCache struct {
	rdb *redis.Client
}

// NewStockCache создаёт кэш поверх готового Redis-клиента.
func NewStockCache(rdb *redis.Client) *StockCache {
	return &StockCache{rdb: rdb}
}

// NewClient открывает Redis-подключение и проверяет его доступность.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// GetStock возвращает закэшированный сток или ErrStockNotCached.
// Нечисловое значение трактуется как отсутствие записи.
func (c *StockCache) GetStock(ctx context.Context, skuCode string) (int64, error) {
	raw, err := c.rdb.Get(ctx, stockKey(skuCode)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrStockNotCached
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get %s: %v", domain.ErrCacheUnavailable, skuCode, err)
	}

	stock, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil {
		return 0, domain.ErrStockNotCached
	}
	return stock, nil
}

// MGetStock выполняет единый MGET; отсутствующие и нечисловые значения опускаются.
func (c *StockCache) MGetStock(ctx context.Context, skuCodes []string) (map[string]int64, error) {
	if len(skuCodes) == 0 {
		return map[string]int64{}, nil
	}

	keys := make([]string, 0, len(skuCodes))
	for _, code := range skuCodes {
		keys = append(keys, stockKey(code))
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: mget: %v", domain.ErrCacheUnavailable, err)
	}

	result := make(map[string]int64, len(skuCodes))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		stock, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			continue
		}
		result[skuCodes[i]] = stock
	}
	return result, nil
}

// SetStock идемпотентно перезаписывает сток и идентификатор SKU одним pipeline.
func (c *StockCache) SetStock(ctx context.Context, skuCode, skuID string, stock int64) error {
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, stockKey(skuCode), stock, 0)
	pipe.Set(ctx, skuIDKey(skuCode), skuID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrCacheUnavailable, skuCode, err)
	}
	return nil
}

// Reserve атомарно списывает весь батч через серверный Lua-скрипт.
// При нехватке возвращает OutOfStockError с первым отказавшим SKU-кодом.
func (c *StockCache) Reserve(ctx context.Context, items []domain.ReservationItem) error {
	if len(items) == 0 {
		return nil
	}

	keys := make([]string, 0, len(items))
	args := make([]interface{}, 0, len(items))
	for _, item := range items {
		keys = append(keys, stockKey(item.SKUCode))
		args = append(args, item.Qty)
	}

	result, err := reserveScript.Run(ctx, c.rdb, keys, args...).Result()
	if err != nil {
		return fmt.Errorf("%w: reserve script: %v", domain.ErrCacheUnavailable, err)
	}

	code, ok := result.(int64)
	if !ok {
		return fmt.Errorf("%w: unexpected result type from reserve script: %T", domain.ErrCacheUnavailable, result)
	}
	if code == 0 {
		return nil
	}
	if code < 1 || code > int64(len(items)) {
		return fmt.Errorf("%w: unexpected result code from reserve script: %d", domain.ErrCacheUnavailable, code)
	}
	return &domain.OutOfStockError{SKUCode: items[code-1].SKUCode}
}

// Credit возвращает количества обратно; исчезнувшие ключи пропускаются.
func (c *StockCache) Credit(ctx context.Context, items []domain.ReservationItem) error {
	if len(items) == 0 {
		return nil
	}

	keys := make([]string, 0, len(items))
	args := make([]interface{}, 0, len(items))
	for _, item := range items {
		keys = append(keys, stockKey(item.SKUCode))
		args = append(args, item.Qty)
	}

	if err := creditScript.Run(ctx, c.rdb, keys, args...).Err(); err != nil {
		return fmt.Errorf("%w: credit script: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

var _ domain.StockCache = (*StockCache)(nil)
