package reconciler

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
)

// Reconciler описывает синхронизацию кэша стока с авторитетным хранилищем.
type Reconciler interface {
	// Sync перечитывает авторитетный сток по кодам и перезаписывает кэш.
	// Возвращает коды, которые реально были синхронизированы.
	Sync(ctx context.Context, skuCodes []string) ([]string, error)
	// CheckStock читает сток по кодам: сначала из кэша, при промахе —
	// из авторитетного хранилища с обратной записью в кэш.
	CheckStock(ctx context.Context, skuCodes []string) ([]domain.StockItem, error)
}

type reconciler struct {
	cache   domain.StockCache
	ledger  domain.StockLedger
	logger  *log.Entry
	metrics *metrics.InventoryMetrics
}

// New создаёт рабочий экземпляр реконсайлера.
func New(cache domain.StockCache, ledger domain.StockLedger, logger *log.Entry) Reconciler {
	if logger == nil {
		logger = log.New().WithField("component", "reconciler")
	}
	return &reconciler{
		cache:   cache,
		ledger:  ledger,
		logger:  logger,
		metrics: metrics.NewInventoryMetrics(),
	}
}

// NewWithoutMetrics создаёт реконсайлер без метрик (для тестов).
func NewWithoutMetrics(cache domain.StockCache, ledger domain.StockLedger, logger *log.Entry) Reconciler {
	if logger == nil {
		logger = log.New().WithField("component", "reconciler")
	}
	return &reconciler{
		cache:  cache,
		ledger: ledger,
		logger: logger,
	}
}

func (r *reconciler) Sync(ctx context.Context, skuCodes []string) ([]string, error) {
	codes := dedupeCodes(skuCodes)
	if len(codes) == 0 {
		return []string{}, nil
	}

	synced := make([]string, 0, len(codes))
	skipped := 0
	for _, code := range codes {
		entry, err := r.ledger.GetStock(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrStockEntryNotFound) {
				// Неизвестный источнику код не прерывает батч.
				r.logger.WithField("sku_code", code).Warn("sku is absent in the ledger, skipping sync")
				skipped++
				continue
			}
			return synced, fmt.Errorf("read ledger entry %s: %w", code, err)
		}

		if err := r.cache.SetStock(ctx, entry.SKUCode, entry.SKUID, entry.Stock); err != nil {
			return synced, fmt.Errorf("write cache entry %s: %w", code, err)
		}
		synced = append(synced, code)
	}

	if r.metrics != nil {
		r.metrics.RecordSyncedEntries(len(synced))
		r.metrics.RecordSyncSkipped(skipped)
	}

	r.logger.WithFields(log.Fields{
		"requested": len(codes),
		"synced":    len(synced),
		"skipped":   skipped,
	}).Info("stock sync completed")

	return synced, nil
}

func (r *reconciler) CheckStock(ctx context.Context, skuCodes []string) ([]domain.StockItem, error) {
	codes := dedupeCodes(skuCodes)
	if len(codes) == 0 {
		return []domain.StockItem{}, nil
	}

	cached, err := r.cache.MGetStock(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("multi-get cached stock: %w", err)
	}

	items := make([]domain.StockItem, 0, len(codes))
	var misses []string
	for _, code := range codes {
		if stock, ok := cached[code]; ok {
			items = append(items, domain.StockItem{SKUCode: code, Stock: stock})
			continue
		}
		misses = append(misses, code)
	}

	if len(misses) == 0 {
		return items, nil
	}

	entries, err := r.ledger.BatchGetStock(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("read ledger entries: %w", err)
	}

	for _, entry := range entries {
		if r.metrics != nil {
			r.metrics.RecordCheckStockFallback()
		}
		// Прочитанное из источника значение возвращается в кэш,
		// чтобы следующий запрос не промахнулся снова.
		if err := r.cache.SetStock(ctx, entry.SKUCode, entry.SKUID, entry.Stock); err != nil {
			r.logger.WithError(err).WithField("sku_code", entry.SKUCode).Warn("failed to repopulate cache entry")
		}
		items = append(items, domain.StockItem{SKUCode: entry.SKUCode, Stock: entry.Stock})
	}

	return items, nil
}

func dedupeCodes(skuCodes []string) []string {
	seen := make(map[string]struct{}, len(skuCodes))
	codes := make([]string, 0, len(skuCodes))
	for _, code := range skuCodes {
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

var _ Reconciler = (*reconciler)(nil)
