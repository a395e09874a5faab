package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{db: db, log: logger}
}

func (r *postgresOrderRepository) Create(order *domain.Order) (created *domain.Order, err error) {
	shippingAddress, err := jsonbValue(order.ShippingAddress)
	if err != nil {
		return nil, err
	}
	paymentInfo, err := jsonbValue(order.PaymentInfo)
	if err != nil {
		return nil, err
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = domain.StatusProcessing
	}

	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Repository: failed to begin order transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Repository: failed to rollback order transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				created, err = nil, fmt.Errorf("failed to commit order transaction: %w", cErr)
				r.log.Errorf("Repository: %v", err)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (id, user_id, total_price, status, shipping_address, payment_info)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`
	err = tx.QueryRow(orderQuery, order.ID, order.UserID, order.TotalPrice, order.Status,
		shippingAddress, paymentInfo).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.log.Errorf("Repository: failed to insert order for user %s: %v", order.UserID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, shop_id, name, qty, price)
        VALUES ($1, $2, $3, $4, $5, $6)`
	stmt, err := tx.Prepare(itemQuery)
	if err != nil {
		r.log.Errorf("Repository: failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Cart {
		item := &order.Cart[i]
		if _, err = stmt.Exec(order.ID, item.ProductID, item.ShopID, item.Name, item.Qty, item.Price); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
				err = fmt.Errorf("%w: invalid cart line for product %s: %s", domain.ErrBadRequest, item.ProductID, pqErr.Message)
				return nil, err
			}
			r.log.Errorf("Repository: failed to insert cart line (product %s) for order %s: %v", item.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create cart line for product %s: %w", item.ProductID, err)
		}
	}

	r.log.Infof("Repository: order %s created with %d cart lines", order.ID, len(order.Cart))
	return order, nil
}

const orderColumns = `id, user_id, total_price, status, shipping_address, payment_info,
        delivered_at, paid_at, created_at, updated_at`

func scanOrder(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Order, error) {
	order := &domain.Order{}
	var shippingAddress, paymentInfo []byte
	var deliveredAt, paidAt sql.NullTime
	err := scanner.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalPrice,
		&order.Status,
		&shippingAddress,
		&paymentInfo,
		&deliveredAt,
		&paidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := scanJSONB(shippingAddress, &order.ShippingAddress); err != nil {
		return nil, err
	}
	if err := scanJSONB(paymentInfo, &order.PaymentInfo); err != nil {
		return nil, err
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	if paidAt.Valid {
		order.PaidAt = &paidAt.Time
	}
	return order, nil
}

func (r *postgresOrderRepository) GetByID(id string) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get order %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	cart, err := r.getCart(id)
	if err != nil {
		return nil, err
	}
	order.Cart = cart
	return order, nil
}

func (r *postgresOrderRepository) getCart(orderID string) ([]domain.CartItem, error) {
	rows, err := r.db.Query(`
        SELECT product_id, shop_id, name, qty, price, is_reviewed
        FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		r.log.Errorf("Repository: failed to query cart lines for order %s: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve cart lines: %w", err)
	}
	defer rows.Close()

	var cart []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.ShopID, &item.Name, &item.Qty, &item.Price, &item.IsReviewed); err != nil {
			return nil, fmt.Errorf("error scanning cart line: %w", err)
		}
		cart = append(cart, item)
	}
	return cart, rows.Err()
}

func (r *postgresOrderRepository) list(query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var orderIDs []string
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning order row: %w", err)
		}
		orders = append(orders, *order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.Query(`
        SELECT order_id, product_id, shop_id, name, qty, price, is_reviewed
        FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY id`, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: failed to query cart lines for %d orders: %v", len(orderIDs), err)
		return nil, fmt.Errorf("could not retrieve cart lines: %w", err)
	}
	defer itemRows.Close()

	cartsByOrder := make(map[string][]domain.CartItem)
	for itemRows.Next() {
		var orderID string
		var item domain.CartItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.ShopID, &item.Name, &item.Qty, &item.Price, &item.IsReviewed); err != nil {
			return nil, fmt.Errorf("error scanning cart line: %w", err)
		}
		cartsByOrder[orderID] = append(cartsByOrder[orderID], item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	for i := range orders {
		orders[i].Cart = cartsByOrder[orders[i].ID]
	}
	return orders, nil
}

func (r *postgresOrderRepository) ListByUser(userID string) ([]domain.Order, error) {
	return r.list(`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresOrderRepository) ListByShop(shopID string) ([]domain.Order, error) {
	return r.list(`
        SELECT `+orderColumns+` FROM orders o
        WHERE EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.shop_id = $1)
        ORDER BY created_at DESC`, shopID)
}

func (r *postgresOrderRepository) ListAll() ([]domain.Order, error) {
	return r.list(`SELECT ` + orderColumns + ` FROM orders ORDER BY delivered_at DESC NULLS LAST, created_at DESC`)
}

func (r *postgresOrderRepository) UpdateStatus(id string, status domain.OrderStatus) (*domain.Order, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		r.log.Errorf("Repository: failed to update status for order %s: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: order not found", domain.ErrNotFound)
	}
	return r.GetByID(id)
}

func (r *postgresOrderRepository) MarkDelivered(id string, deliveredAt time.Time, paymentStatus string) (*domain.Order, error) {
	res, err := r.db.Exec(`
        UPDATE orders
        SET status = $1,
            delivered_at = COALESCE(delivered_at, $2),
            paid_at = COALESCE(paid_at, $2),
            payment_info = jsonb_set(payment_info, '{status}', to_jsonb($3::text)),
            updated_at = now()
        WHERE id = $4`, domain.StatusDelivered, deliveredAt, paymentStatus, id)
	if err != nil {
		r.log.Errorf("Repository: failed to mark order %s delivered: %v", id, err)
		return nil, fmt.Errorf("could not mark order delivered: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: order not found", domain.ErrNotFound)
	}
	return r.GetByID(id)
}

func (r *postgresOrderRepository) MarkItemReviewed(orderID, productID string) error {
	res, err := r.db.Exec(`
        UPDATE order_items SET is_reviewed = TRUE
        WHERE order_id = $1 AND product_id = $2`, orderID, productID)
	if err != nil {
		r.log.Errorf("Repository: failed to mark cart line reviewed (order %s, product %s): %v", orderID, productID, err)
		return fmt.Errorf("could not mark cart line reviewed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: cart line not found", domain.ErrNotFound)
	}
	return nil
}
