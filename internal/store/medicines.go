package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"healthportal/m/domain"
)

const medicineColumns = `id, name, category, description, manufacturer, price, stock_quantity, requires_prescription, created_at`

// Medicines lists the catalog by name. A non-empty search matches a
// case-insensitive substring of the name or category.
func (s *Store) Medicines(ctx context.Context, search string) ([]domain.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query += ` WHERE LOWER(name) LIKE ? OR LOWER(category) LIKE ?`
		args = append(args, like, like)
	}
	query += ` ORDER BY name`

	medicines := []domain.Medicine{}
	if err := sqlx.SelectContext(ctx, s.db, &medicines, s.db.Rebind(query), args...); err != nil {
		return nil, wrap("list medicines", err)
	}
	return medicines, nil
}

func (s *Store) MedicineByID(ctx context.Context, id uuid.UUID) (domain.Medicine, bool, error) {
	var m domain.Medicine
	found, err := selectOne(ctx, s.db, &m, `SELECT `+medicineColumns+` FROM medicines`, Filter{"id": id})
	return m, found, wrap("get medicine", err)
}
