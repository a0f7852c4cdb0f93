package redis

import "fmt"

// Ключевые шаблоны кэша стока. Формат совместим с остальными сервисами
// платформы, которые сеют sku_stock:/sku_id: при создании SKU.
const (
	// Сток SKU: sku_stock:{skuCode} -> int
	keyStockPattern = "sku_stock:%s"
	// Долговечный идентификатор SKU: sku_id:{skuCode} -> string
	keySKUIDPattern = "sku_id:%s"
)

func stockKey(skuCode string) string {
	return fmt.Sprintf(keyStockPattern, skuCode)
}

func skuIDKey(skuCode string) string {
	return fmt.Sprintf(keySKUIDPattern, skuCode)
}
