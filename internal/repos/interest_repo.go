package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"shopledger/internal/domain"
)

type InterestRepo struct{ db *sqlx.DB }

func NewInterestRepo(db *sqlx.DB) *InterestRepo { return &InterestRepo{db: db} }

type interestRow struct {
	ProductID    string `db:"product_id"`
	ShopkeeperID string `db:"shopkeeper_id"`
	ShopName     string `db:"shop_name"`
	OwnerName    string `db:"owner_name"`
	Mobile       string `db:"mobile"`
	CreatedAt    string `db:"created_at"`
}

// Add records an interest. It returns ErrConflict if the shopkeeper already
// registered interest in the product; the primary key makes this race-free.
func (r *InterestRepo) Add(ctx context.Context, productID string, u domain.InterestedUser) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO product_interests(product_id, shopkeeper_id, shop_name, owner_name, mobile, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_id, shopkeeper_id) DO NOTHING
	`, productID, u.ShopkeeperID, u.ShopName, u.OwnerName, u.Mobile, formatTime(u.Timestamp))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *InterestRepo) ListFor(ctx context.Context, productID string) ([]domain.InterestedUser, error) {
	p := []domain.Product{{ID: productID}}
	if err := attachInterests(ctx, r.db, p); err != nil {
		return nil, err
	}
	return p[0].InterestedUsers, nil
}

// attachInterests fills InterestedUsers for each product, in registration
// order.
func attachInterests(ctx context.Context, q sqlx.QueryerContext, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	idx := make(map[string]int, len(products))
	for i, p := range products {
		ids = append(ids, p.ID)
		idx[p.ID] = i
		products[i].InterestedUsers = []domain.InterestedUser{}
	}
	query, args, err := sqlx.In(`
		SELECT product_id, shopkeeper_id, shop_name, owner_name, mobile, created_at
		FROM product_interests
		WHERE product_id IN (?)
		ORDER BY rowid
	`, ids)
	if err != nil {
		return err
	}
	var rows []interestRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return err
	}
	for _, row := range rows {
		i := idx[row.ProductID]
		products[i].InterestedUsers = append(products[i].InterestedUsers, domain.InterestedUser{
			ShopkeeperID: row.ShopkeeperID,
			ShopName:     row.ShopName,
			OwnerName:    row.OwnerName,
			Mobile:       row.Mobile,
			Timestamp:    parseTime(row.CreatedAt),
		})
	}
	return nil
}
