package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"healthportal/m/domain"
	"healthportal/m/internal/cache"
)

const cartItemColumns = `id, user_id, medicine_id, quantity, created_at, updated_at`

const cartLineQuery = `SELECT c.id, c.user_id, c.medicine_id, c.quantity, c.created_at, c.updated_at,
        m.id AS "medicine.id", m.name AS "medicine.name", m.category AS "medicine.category",
        m.description AS "medicine.description", m.manufacturer AS "medicine.manufacturer",
        m.price AS "medicine.price", m.stock_quantity AS "medicine.stock_quantity",
        m.requires_prescription AS "medicine.requires_prescription", m.created_at AS "medicine.created_at"
    FROM cart_items c
    JOIN medicines m ON m.id = c.medicine_id`

func cartRow(userID, medicineID uuid.UUID, quantity int, now time.Time) Row {
	return Row{
		"id":          uuid.New(),
		"user_id":     userID,
		"medicine_id": medicineID,
		"quantity":    quantity,
		"created_at":  now,
		"updated_at":  now,
	}
}

// IncrementCartItem creates the (user, medicine) row with quantity delta or
// adds delta to the stored quantity, in one statement.
func (s *Store) IncrementCartItem(ctx context.Context, userID, medicineID uuid.UUID, delta int, now time.Time) (domain.CartItem, error) {
	err := upsert(ctx, s.db, "cart_items", cartRow(userID, medicineID, delta, now),
		[]string{"user_id", "medicine_id"},
		"quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at")
	if err != nil {
		return domain.CartItem{}, wrap("increment cart item", err)
	}
	s.cache.Invalidate(cache.Cart)
	return s.mustCartItem(ctx, userID, medicineID)
}

// SetCartItem overwrites the quantity of the (user, medicine) row, creating
// it when absent.
func (s *Store) SetCartItem(ctx context.Context, userID, medicineID uuid.UUID, quantity int, now time.Time) (domain.CartItem, error) {
	err := upsert(ctx, s.db, "cart_items", cartRow(userID, medicineID, quantity, now),
		[]string{"user_id", "medicine_id"},
		"quantity = excluded.quantity, updated_at = excluded.updated_at")
	if err != nil {
		return domain.CartItem{}, wrap("set cart item", err)
	}
	s.cache.Invalidate(cache.Cart)
	return s.mustCartItem(ctx, userID, medicineID)
}

// DeleteCartItem removes the row if present; deleting nothing is not an error.
func (s *Store) DeleteCartItem(ctx context.Context, userID, medicineID uuid.UUID) error {
	if _, err := remove(ctx, s.db, "cart_items", Filter{"user_id": userID, "medicine_id": medicineID}); err != nil {
		return wrap("delete cart item", err)
	}
	s.cache.Invalidate(cache.Cart)
	return nil
}

func (s *Store) CartItem(ctx context.Context, userID, medicineID uuid.UUID) (domain.CartItem, bool, error) {
	var item domain.CartItem
	found, err := selectOne(ctx, s.db, &item, `SELECT `+cartItemColumns+` FROM cart_items`,
		Filter{"user_id": userID, "medicine_id": medicineID})
	return item, found, wrap("get cart item", err)
}

func (s *Store) mustCartItem(ctx context.Context, userID, medicineID uuid.UUID) (domain.CartItem, error) {
	item, found, err := s.CartItem(ctx, userID, medicineID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if !found {
		return domain.CartItem{}, wrap("read back cart item", domain.ErrNotFound)
	}
	return item, nil
}

// CartLines returns the user's cart joined with the catalog, ordered by
// medicine name.
func (s *Store) CartLines(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	return cache.Load(ctx, s.cache, cache.Cart, userID, func(ctx context.Context) ([]domain.CartLine, error) {
		lines := []domain.CartLine{}
		if err := selectAll(ctx, s.db, &lines, cartLineQuery, Filter{"c.user_id": userID}, ` ORDER BY m.name`); err != nil {
			return nil, wrap("list cart", err)
		}
		return lines, nil
	})
}
