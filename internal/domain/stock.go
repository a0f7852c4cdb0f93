package domain

// StockEntry — кэшируемое/авторитетное состояние стока одного SKU.
type StockEntry struct {
	// SKUCode — внешний уникальный код SKU, неизменяемый.
	SKUCode string
	// SKUID — долговечный идентификатор SKU в каталоге; неизменяем после установки.
	SKUID string
	// Stock — доступное количество. Никогда не бывает отрицательным.
	Stock int64
}

// StockItem — пара «SKU-код / количество» в ответе проверки стока.
type StockItem struct {
	SKUCode string
	Stock   int64
}

// ReservationItem — одно требование резерва: SKU и количество.
type ReservationItem struct {
	SKUCode string
	Qty     int64
}

// Validate проверяет корректность одного требования резерва.
func (r ReservationItem) Validate() []error {
	var errs []error

	if r.SKUCode == "" {
		errs = append(errs, ErrSKUCodeRequired)
	}
	if r.Qty <= 0 {
		errs = append(errs, ErrItemQtyInvalid)
	}

	return errs
}

// NormalizeReservation схлопывает повторяющиеся SKU-коды, суммируя количества.
// Порядок первых вхождений сохраняется: он определяет, какой SKU будет назван
// первым при отказе резерва.
func NormalizeReservation(items []ReservationItem) []ReservationItem {
	if len(items) <= 1 {
		return items
	}

	index := make(map[string]int, len(items))
	result := make([]ReservationItem, 0, len(items))
	for _, item := range items {
		if pos, ok := index[item.SKUCode]; ok {
			result[pos].Qty += item.Qty
			continue
		}
		index[item.SKUCode] = len(result)
		result = append(result, item)
	}

	return result
}
