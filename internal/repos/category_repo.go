package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shopledger/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

type categoryRow struct {
	ID           string `db:"id"`
	ShopkeeperID string `db:"shopkeeper_id"`
	Name         string `db:"name"`
	CreatedAt    string `db:"created_at"`
}

// Create returns ErrConflict when the shopkeeper already has a category with
// that name.
func (r *CategoryRepo) Create(ctx context.Context, shopkeeperID, name string, now time.Time) (domain.Category, error) {
	c := domain.Category{ID: uuid.NewString(), ShopkeeperID: shopkeeperID, Name: name, CreatedAt: now}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories(id, shopkeeper_id, name, created_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(name, shopkeeper_id) DO NOTHING
	`, c.ID, shopkeeperID, name, formatTime(now))
	if err != nil {
		return domain.Category{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Category{}, ErrConflict
	}
	return c, nil
}

func (r *CategoryRepo) List(ctx context.Context, shopkeeperID string) ([]domain.Category, error) {
	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, shopkeeper_id, name, created_at
		FROM categories
		WHERE shopkeeper_id = ?
		ORDER BY name
	`, shopkeeperID); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Category{
			ID:           row.ID,
			ShopkeeperID: row.ShopkeeperID,
			Name:         row.Name,
			CreatedAt:    parseTime(row.CreatedAt),
		})
	}
	return out, nil
}
