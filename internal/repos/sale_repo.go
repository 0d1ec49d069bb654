package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopledger/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

type soldRow struct {
	ID           string          `db:"id"`
	ShopkeeperID string          `db:"shopkeeper_id"`
	Name         string          `db:"name"`
	Mrp          decimal.Decimal `db:"mrp"`
	CostPrice    decimal.Decimal `db:"cost_price"`
	Quantity     int             `db:"quantity"`
	CreatedAt    string          `db:"created_at"`
}

// Record debits qty from the earliest lot matching (shopkeeper, name, mrp,
// costPrice), whatever its expiry date, and appends the sale snapshot in the
// same transaction. The debit is conditional on quantity >= qty, so two
// concurrent sales can never both spend the same units. Returns
// sql.ErrNoRows when no lot matches and ErrInsufficientStock when it is short.
func (r *SaleRepo) Record(ctx context.Context, s domain.SoldProduct, now time.Time) (domain.SoldProduct, domain.Product, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.SoldProduct{}, domain.Product{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var lot productRow
	if err := tx.GetContext(ctx, &lot, `
		SELECT `+productCols+`
		FROM products
		WHERE shopkeeper_id = ? AND name = ? AND mrp = ? AND cost_price = ?
		ORDER BY created_at, rowid
		LIMIT 1
	`, s.ShopkeeperID, s.Name, s.Mrp.String(), s.CostPrice.String()); err != nil {
		return domain.SoldProduct{}, domain.Product{}, err
	}
	if lot.Quantity < s.Quantity {
		return domain.SoldProduct{}, domain.Product{}, ErrInsufficientStock
	}

	ts := formatTime(now)
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - ?,
		    out_of_stock = (quantity - ? = 0),
		    updated_at = ?
		WHERE id = ? AND quantity >= ?
	`, s.Quantity, s.Quantity, ts, lot.ID, s.Quantity)
	if err != nil {
		return domain.SoldProduct{}, domain.Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.SoldProduct{}, domain.Product{}, ErrInsufficientStock
	}

	s.ID = uuid.NewString()
	s.CreatedAt = now
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sold_products(id, shopkeeper_id, name, mrp, cost_price, quantity, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.ShopkeeperID, s.Name, s.Mrp.String(), s.CostPrice.String(), s.Quantity, ts); err != nil {
		return domain.SoldProduct{}, domain.Product{}, err
	}

	var after productRow
	if err := tx.GetContext(ctx, &after, `SELECT `+productCols+` FROM products WHERE id = ?`, lot.ID); err != nil {
		return domain.SoldProduct{}, domain.Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.SoldProduct{}, domain.Product{}, err
	}
	return s, after.toDomain(), nil
}

// ListSince returns a shopkeeper's sales created at or after since, oldest
// first.
func (r *SaleRepo) ListSince(ctx context.Context, shopkeeperID string, since time.Time) ([]domain.SoldProduct, error) {
	var rows []soldRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, shopkeeper_id, name, mrp, cost_price, quantity, created_at
		FROM sold_products
		WHERE shopkeeper_id = ? AND created_at >= ?
		ORDER BY created_at, rowid
	`, shopkeeperID, formatTime(since)); err != nil {
		return nil, err
	}
	out := make([]domain.SoldProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.SoldProduct{
			ID:           row.ID,
			ShopkeeperID: row.ShopkeeperID,
			Name:         row.Name,
			Mrp:          row.Mrp,
			CostPrice:    row.CostPrice,
			Quantity:     row.Quantity,
			CreatedAt:    parseTime(row.CreatedAt),
		})
	}
	return out, nil
}
