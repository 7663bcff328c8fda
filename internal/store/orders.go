package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"healthportal/m/domain"
	"healthportal/m/internal/cache"
)

const (
	orderColumns     = `id, user_id, total_amount, status, shipping_address, created_at, updated_at`
	orderItemColumns = `id, order_id, medicine_id, quantity, price, created_at`
)

// PlaceOrder writes the order with its items and settles the ordered
// quantities against the owner's cart in a single transaction. Cart lines
// added or increased after the order was priced keep their surplus.
func (s *Store) PlaceOrder(ctx context.Context, order domain.Order) error {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := insert(ctx, tx, "orders", Row{
			"id":               order.ID,
			"user_id":          order.UserID,
			"total_amount":     order.TotalAmount,
			"status":           string(order.Status),
			"shipping_address": order.ShippingAddress,
			"created_at":       order.CreatedAt,
			"updated_at":       order.UpdatedAt,
		}); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := settleCartLine(ctx, tx, order.UserID, item); err != nil {
				return err
			}
			if err := insert(ctx, tx, "order_items", Row{
				"id":          item.ID,
				"order_id":    order.ID,
				"medicine_id": item.MedicineID,
				"quantity":    item.Quantity,
				"price":       item.Price,
				"created_at":  item.CreatedAt,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrap("place order", err)
	}
	s.cache.Invalidate(cache.Orders, cache.Cart)
	return nil
}

func settleCartLine(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, item domain.OrderItem) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cart_items WHERE user_id = ? AND medicine_id = ? AND quantity <= ?`),
		userID, item.MedicineID, item.Quantity)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE cart_items SET quantity = quantity - ? WHERE user_id = ? AND medicine_id = ?`),
		item.Quantity, userID, item.MedicineID)
	return err
}

// Orders lists the user's orders newest first, each with its items.
func (s *Store) Orders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return cache.Load(ctx, s.cache, cache.Orders, userID, func(ctx context.Context) ([]domain.Order, error) {
		orders := []domain.Order{}
		if err := selectAll(ctx, s.db, &orders, `SELECT `+orderColumns+` FROM orders`,
			Filter{"user_id": userID}, ` ORDER BY created_at DESC`); err != nil {
			return nil, wrap("list orders", err)
		}
		if len(orders) == 0 {
			return orders, nil
		}

		ids := make([]uuid.UUID, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
		}
		query, args, err := sqlx.In(`SELECT `+orderItemColumns+` FROM order_items WHERE order_id IN (?) ORDER BY created_at`, ids)
		if err != nil {
			return nil, wrap("list order items", err)
		}
		var items []domain.OrderItem
		if err := sqlx.SelectContext(ctx, s.db, &items, s.db.Rebind(query), args...); err != nil {
			return nil, wrap("list order items", err)
		}
		byOrder := make(map[uuid.UUID][]domain.OrderItem)
		for _, item := range items {
			byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
		}
		for i := range orders {
			orders[i].Items = byOrder[orders[i].ID]
			if orders[i].Items == nil {
				orders[i].Items = []domain.OrderItem{}
			}
		}
		return orders, nil
	})
}

func (s *Store) CountOrders(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := count(ctx, s.db, "orders", Filter{"user_id": userID})
	return n, wrap("count orders", err)
}
