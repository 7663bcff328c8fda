package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Medicine struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	Name                 string          `db:"name" json:"name"`
	Category             string          `db:"category" json:"category"`
	Description          string          `db:"description" json:"description"`
	Manufacturer         string          `db:"manufacturer" json:"manufacturer"`
	Price                decimal.Decimal `db:"price" json:"price"`
	StockQuantity        int             `db:"stock_quantity" json:"stock_quantity"`
	RequiresPrescription bool            `db:"requires_prescription" json:"requires_prescription"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
}
