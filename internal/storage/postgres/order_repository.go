package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(opCtx, `
		INSERT INTO orders (
			id, code, user_id, status, payment_status,
			total_amount_minor, shipping_fee_minor, discount_minor,
			payment_method, note,
			receiver_name, receiver_phone, address, ward, district, city,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		order.ID, order.Code, order.UserID, string(order.Status), string(order.PaymentStatus),
		order.TotalAmountMinor, order.ShippingFeeMinor, order.DiscountMinor,
		order.PaymentMethod, order.Note,
		order.ReceiverName, order.ReceiverPhone, order.Address, order.Ward, order.District, order.City,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	// line_no фиксирует порядок позиций: created_at у всех позиций заказа
	// совпадает, а id случайны.
	for lineNo, item := range order.Items {
		if _, err = tx.ExecContext(opCtx, `
			INSERT INTO order_items (
				id, order_id, line_no, sku_id, sku_code, product_id,
				product_name, product_image, qty, price_minor, total_minor, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`,
			item.ID, order.ID, lineNo, item.SKUID, item.SKUCode, item.ProductID,
			item.ProductName, item.ProductImage, item.Qty, item.PriceMinor, item.TotalMinor, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	order, err := r.scanOrder(r.db.QueryRowContext(opCtx, `
		SELECT id, code, user_id, status, payment_status,
		       total_amount_minor, shipping_fee_minor, discount_minor,
		       payment_method, note,
		       receiver_name, receiver_phone, address, ward, district, city,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(opCtx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		SELECT id, code, user_id, status, payment_status,
		       total_amount_minor, shipping_fee_minor, discount_minor,
		       payment_method, note,
		       receiver_name, receiver_phone, address, ward, district, city,
		       created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = r.db.QueryContext(opCtx, query+" LIMIT $2", userID, limit)
	} else {
		rows, err = r.db.QueryContext(opCtx, query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		items, err := r.loadItems(opCtx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *orderRepository) scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order         domain.Order
		status        string
		paymentStatus string
	)

	err := row.Scan(
		&order.ID, &order.Code, &order.UserID, &status, &paymentStatus,
		&order.TotalAmountMinor, &order.ShippingFeeMinor, &order.DiscountMinor,
		&order.PaymentMethod, &order.Note,
		&order.ReceiverName, &order.ReceiverPhone, &order.Address, &order.Ward, &order.District, &order.City,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}

	order.Status = domain.OrderStatus(status)
	order.PaymentStatus = domain.PaymentStatus(paymentStatus)

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sku_id, sku_code, product_id,
		       product_name, product_image, qty, price_minor, total_minor, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY line_no ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.SKUID, &item.SKUCode, &item.ProductID,
			&item.ProductName, &item.ProductImage, &item.Qty, &item.PriceMinor, &item.TotalMinor, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}
