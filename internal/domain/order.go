package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, дальнейшие переходы выполняются вне этого ядра.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusFulfilled — заказ исполнен.
	OrderStatusFulfilled OrderStatus = "fulfilled"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus описывает состояние оплаты заказа.
type PaymentStatus string

const (
	// PaymentStatusUnpaid — оплата ещё не поступила; стартовое состояние.
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	// PaymentStatusPaid — оплата подтверждена.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusRefunded — средства возвращены.
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderItem представляет одну позицию заказа.
// Снапшот товара (имя, картинка, цена) замораживается в момент создания заказа
// и никогда не перечитывается из каталога.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string
	// SKUID — долговечный идентификатор SKU в каталоге.
	SKUID string
	// SKUCode — внешний код SKU.
	SKUCode string
	// ProductID — идентификатор товара-родителя.
	ProductID string
	// ProductName — имя товара на момент заказа.
	ProductName string
	// ProductImage — картинка товара на момент заказа.
	ProductImage string
	// Qty — количество единиц.
	Qty int64
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// TotalMinor — price × qty, фиксируется при создании.
	TotalMinor int64
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID     string
	Code   string
	UserID string

	Status        OrderStatus
	PaymentStatus PaymentStatus

	// TotalAmountMinor — сумма price × qty по позициям; вычисляется ядром,
	// каллер-переданным значениям не доверяем.
	TotalAmountMinor int64
	ShippingFeeMinor int64
	DiscountMinor    int64

	PaymentMethod string
	Note          string

	ReceiverName  string
	ReceiverPhone string
	Address       string
	Ward          string
	District      string
	City          string

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemsTotalMinor возвращает сумму price × qty по всем позициям.
func (o *Order) ItemsTotalMinor() int64 {
	var sum int64
	for _, item := range o.Items {
		sum += item.PriceMinor * item.Qty
	}
	return sum
}

// SKUCodes возвращает коды SKU всех позиций в порядке их следования.
func (o *Order) SKUCodes() []string {
	codes := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		codes = append(codes, item.SKUCode)
	}
	return codes
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	for _, item := range o.Items {
		if item.SKUCode == "" {
			errs = append(errs, ErrSKUCodeRequired)
		}
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	if o.ItemsTotalMinor() != o.TotalAmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
