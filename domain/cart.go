package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is unique per (UserID, MedicineID). A missing row means quantity 0.
type CartItem struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	MedicineID uuid.UUID `db:"medicine_id" json:"medicine_id"`
	Quantity   int       `db:"quantity" json:"quantity"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CartLine is a cart item joined with the medicine it refers to.
type CartLine struct {
	CartItem
	Medicine Medicine `db:"medicine" json:"medicine"`
}
