// Package cart keeps each user's medicine cart: one row per (user, medicine)
// with a positive quantity, and the checkout that turns it into an order.
package cart

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"healthportal/m/domain"
)

// Store is the persistence the cart needs.
type Store interface {
	Medicines(ctx context.Context, search string) ([]domain.Medicine, error)
	MedicineByID(ctx context.Context, id uuid.UUID) (domain.Medicine, bool, error)
	IncrementCartItem(ctx context.Context, userID, medicineID uuid.UUID, delta int, now time.Time) (domain.CartItem, error)
	SetCartItem(ctx context.Context, userID, medicineID uuid.UUID, quantity int, now time.Time) (domain.CartItem, error)
	DeleteCartItem(ctx context.Context, userID, medicineID uuid.UUID) error
	CartItem(ctx context.Context, userID, medicineID uuid.UUID) (domain.CartItem, bool, error)
	CartLines(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error)
	PlaceOrder(ctx context.Context, order domain.Order) error
	Orders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
}

// Reserver claims stock before an add. Without one, adds are not checked
// against stock.
type Reserver interface {
	Reserve(ctx context.Context, medicineID uuid.UUID, quantity int) error
}

type Option func(*Manager)

func WithReserver(r Reserver) Option {
	return func(m *Manager) { m.reserver = r }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

type Manager struct {
	store    Store
	reserver Reserver
	now      func() time.Time
}

func New(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddOrIncrement adds delta units of a medicine to the cart, creating the
// line if needed.
func (m *Manager) AddOrIncrement(ctx context.Context, sess domain.Session, medicineID uuid.UUID, delta int) (domain.CartItem, error) {
	if err := sess.Check(); err != nil {
		return domain.CartItem{}, err
	}
	if medicineID == uuid.Nil {
		return domain.CartItem{}, domain.Invalid("medicine_id", "is required")
	}
	if delta < 1 {
		return domain.CartItem{}, domain.Invalid("quantity", "must be at least 1")
	}
	if err := m.requireMedicine(ctx, medicineID); err != nil {
		return domain.CartItem{}, err
	}
	if m.reserver != nil {
		if err := m.reserver.Reserve(ctx, medicineID, delta); err != nil {
			return domain.CartItem{}, err
		}
	}
	return m.store.IncrementCartItem(ctx, sess.UserID, medicineID, delta, m.now().UTC())
}

// SetQuantity overwrites the line's quantity. A quantity of zero or less
// removes the line and reports present=false.
func (m *Manager) SetQuantity(ctx context.Context, sess domain.Session, medicineID uuid.UUID, quantity int) (domain.CartItem, bool, error) {
	if err := sess.Check(); err != nil {
		return domain.CartItem{}, false, err
	}
	if medicineID == uuid.Nil {
		return domain.CartItem{}, false, domain.Invalid("medicine_id", "is required")
	}
	if quantity <= 0 {
		if err := m.store.DeleteCartItem(ctx, sess.UserID, medicineID); err != nil {
			return domain.CartItem{}, false, err
		}
		return domain.CartItem{}, false, nil
	}
	if err := m.requireMedicine(ctx, medicineID); err != nil {
		return domain.CartItem{}, false, err
	}
	item, err := m.store.SetCartItem(ctx, sess.UserID, medicineID, quantity, m.now().UTC())
	if err != nil {
		return domain.CartItem{}, false, err
	}
	return item, true, nil
}

func (m *Manager) requireMedicine(ctx context.Context, id uuid.UUID) error {
	_, found, err := m.store.MedicineByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.Invalid("medicine_id", "unknown medicine")
	}
	return nil
}

// Lines returns the cart joined with medicine data, ordered by medicine name.
func (m *Manager) Lines(ctx context.Context, sess domain.Session) ([]domain.CartLine, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	return m.store.CartLines(ctx, sess.UserID)
}

// Quantity is the persisted quantity for a medicine, 0 when it is not in the cart.
func (m *Manager) Quantity(ctx context.Context, sess domain.Session, medicineID uuid.UUID) (int, error) {
	if err := sess.Check(); err != nil {
		return 0, err
	}
	item, found, err := m.store.CartItem(ctx, sess.UserID, medicineID)
	if err != nil || !found {
		return 0, err
	}
	return item.Quantity, nil
}

// Checkout snapshots the cart into a pending order at current prices and
// removes the ordered quantities from the cart. Stock is left untouched.
func (m *Manager) Checkout(ctx context.Context, sess domain.Session, shippingAddress string) (domain.Order, error) {
	if err := sess.Check(); err != nil {
		return domain.Order{}, err
	}
	lines, err := m.store.CartLines(ctx, sess.UserID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.Invalid("cart", "is empty")
	}

	now := m.now().UTC()
	order := domain.Order{
		ID:              uuid.New(),
		UserID:          sess.UserID,
		TotalAmount:     ComputeTotal(lines),
		Status:          domain.OrderPending,
		ShippingAddress: strings.TrimSpace(shippingAddress),
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           make([]domain.OrderItem, len(lines)),
	}
	for i, line := range lines {
		order.Items[i] = domain.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MedicineID: line.MedicineID,
			Quantity:   line.Quantity,
			Price:      line.Medicine.Price,
			CreatedAt:  now,
		}
	}
	if err := m.store.PlaceOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (m *Manager) Orders(ctx context.Context, sess domain.Session) ([]domain.Order, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	return m.store.Orders(ctx, sess.UserID)
}

// Catalog lists medicines by name, optionally filtered by a case-insensitive
// substring of name or category.
func (m *Manager) Catalog(ctx context.Context, search string) ([]domain.Medicine, error) {
	return m.store.Medicines(ctx, search)
}

// ComputeTotal sums price times quantity over the lines.
func ComputeTotal(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Medicine.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// QuantityOf returns the quantity of medicineID in lines, or 0.
func QuantityOf(lines []domain.CartLine, medicineID uuid.UUID) int {
	for _, line := range lines {
		if line.MedicineID == medicineID {
			return line.Quantity
		}
	}
	return 0
}
