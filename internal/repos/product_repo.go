package repos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopledger/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID                string          `db:"id"`
	ShopkeeperID      string          `db:"shopkeeper_id"`
	Name              string          `db:"name"`
	CategoryID        string          `db:"category_id"`
	Mrp               decimal.Decimal `db:"mrp"`
	CostPrice         decimal.Decimal `db:"cost_price"`
	Quantity          int             `db:"quantity"`
	ExpiryDate        string          `db:"expiry_date"`
	OutOfStock        bool            `db:"out_of_stock"`
	IsNearExpiry      bool            `db:"is_near_expiry"`
	IsExpired         bool            `db:"is_expired"`
	ListedForResale   bool            `db:"listed_for_resale"`
	ResaleQuantity    int             `db:"resale_quantity"`
	ResalePrice       decimal.Decimal `db:"resale_price"`
	ListedForDiscount bool            `db:"listed_for_discount"`
	Discount          decimal.Decimal `db:"discount"`
	CreatedAt         string          `db:"created_at"`
	UpdatedAt         string          `db:"updated_at"`
}

const productCols = `
    id, shopkeeper_id, name, category_id, mrp, cost_price, quantity, expiry_date,
    out_of_stock, is_near_expiry, is_expired,
    listed_for_resale, resale_quantity, resale_price,
    listed_for_discount, discount, created_at, updated_at`

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:                r.ID,
		ShopkeeperID:      r.ShopkeeperID,
		Name:              r.Name,
		CategoryID:        r.CategoryID,
		Mrp:               r.Mrp,
		CostPrice:         r.CostPrice,
		Quantity:          r.Quantity,
		OutOfStock:        r.OutOfStock,
		IsNearExpiry:      r.IsNearExpiry,
		IsExpired:         r.IsExpired,
		ListedForResale:   r.ListedForResale,
		ResaleQuantity:    r.ResaleQuantity,
		ResalePrice:       r.ResalePrice,
		ListedForDiscount: r.ListedForDiscount,
		Discount:          r.Discount,
		InterestedUsers:   []domain.InterestedUser{},
		CreatedAt:         parseTime(r.CreatedAt),
		UpdatedAt:         parseTime(r.UpdatedAt),
	}
	if r.ExpiryDate != "" {
		t := parseTime(r.ExpiryDate)
		p.ExpiryDate = &t
	}
	return p
}

func expiryKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// UpsertLot adds p.Quantity to the lot keyed by (shopkeeper, name, mrp,
// costPrice, expiryDate), creating it when absent. The increment happens in
// a single statement so concurrent additions cannot lose an update. merged
// reports whether an existing lot absorbed the quantity.
func (r *ProductRepo) UpsertLot(ctx context.Context, p domain.Product, now time.Time) (domain.Product, bool, error) {
	newID := uuid.NewString()
	ts := formatTime(now)

	var id string
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO products(
			id, shopkeeper_id, name, category_id, mrp, cost_price, quantity, expiry_date,
			out_of_stock, is_near_expiry, is_expired, discount, created_at, updated_at
		)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(shopkeeper_id, name, mrp, cost_price, expiry_date) DO UPDATE SET
			quantity       = products.quantity + excluded.quantity,
			out_of_stock   = (products.quantity + excluded.quantity = 0),
			is_near_expiry = excluded.is_near_expiry,
			is_expired     = excluded.is_expired,
			updated_at     = excluded.updated_at
		RETURNING id
	`, newID, p.ShopkeeperID, p.Name, p.CategoryID, p.Mrp.String(), p.CostPrice.String(), p.Quantity,
		expiryKey(p.ExpiryDate), p.Quantity == 0, p.IsNearExpiry, p.IsExpired, p.Discount.String(), ts, ts)
	if err != nil {
		return domain.Product{}, false, err
	}
	out, err := r.Get(ctx, id)
	if err != nil {
		return domain.Product{}, false, err
	}
	return out, id != newID, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var row productRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, err
	}
	out := []domain.Product{row.toDomain()}
	if err := attachInterests(ctx, r.db, out); err != nil {
		return domain.Product{}, err
	}
	return out[0], nil
}

// GetOwned returns sql.ErrNoRows when the product is missing or belongs to
// another shopkeeper.
func (r *ProductRepo) GetOwned(ctx context.Context, shopkeeperID, id string) (domain.Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.ShopkeeperID != shopkeeperID {
		return domain.Product{}, sql.ErrNoRows
	}
	return p, nil
}

func (r *ProductRepo) list(ctx context.Context, where string, args ...any) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT `+productCols+`
		FROM products
		WHERE `+where+`
		ORDER BY created_at, rowid
	`, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	if err := attachInterests(ctx, r.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepo) ListByShopkeeper(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	return r.list(ctx, `shopkeeper_id = ?`, shopkeeperID)
}

func (r *ProductRepo) ListResale(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	return r.list(ctx, `shopkeeper_id = ? AND listed_for_resale = 1`, shopkeeperID)
}

func (r *ProductRepo) ListNearExpiry(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	return r.list(ctx, `shopkeeper_id = ? AND is_near_expiry = 1`, shopkeeperID)
}

func (r *ProductRepo) ListExpired(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	return r.list(ctx, `shopkeeper_id = ? AND is_expired = 1`, shopkeeperID)
}

func (r *ProductRepo) ListDiscounted(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	return r.list(ctx, `shopkeeper_id = ? AND listed_for_discount = 1`, shopkeeperID)
}

// ListAll walks every shopkeeper's products (expiry sweep).
func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `1 = 1`)
}

// UpdateFlags persists derived stock/expiry flags.
func (r *ProductRepo) UpdateFlags(ctx context.Context, id string, nearExpiry, expired, outOfStock bool, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET is_near_expiry = ?, is_expired = ?, out_of_stock = ?, updated_at = ?
		WHERE id = ?
	`, nearExpiry, expired, outOfStock, formatTime(now), id)
	return err
}

// MarkResale lists an owned product for resale only if resaleQty still fits
// the current stock, checked and written in one statement. It returns
// sql.ErrNoRows for a missing/foreign product and ErrInsufficientStock when
// the quantity does not fit.
func (r *ProductRepo) MarkResale(ctx context.Context, shopkeeperID, id string, resaleQty int, price decimal.Decimal, now time.Time) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET listed_for_resale = 1, resale_quantity = ?, resale_price = ?, updated_at = ?
		WHERE id = ? AND shopkeeper_id = ? AND quantity >= ?
	`, resaleQty, price.String(), formatTime(now), id, shopkeeperID, resaleQty)
	if err != nil {
		return domain.Product{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		if _, err := r.GetOwned(ctx, shopkeeperID, id); err != nil {
			return domain.Product{}, err
		}
		return domain.Product{}, ErrInsufficientStock
	}
	return r.Get(ctx, id)
}

// MarkDiscount returns sql.ErrNoRows for a missing/foreign product.
func (r *ProductRepo) MarkDiscount(ctx context.Context, shopkeeperID, id string, percent decimal.Decimal, now time.Time) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET listed_for_discount = 1, discount = ?, updated_at = ?
		WHERE id = ? AND shopkeeper_id = ?
	`, percent.String(), formatTime(now), id, shopkeeperID)
	if err != nil {
		return domain.Product{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.Product{}, sql.ErrNoRows
	}
	return r.Get(ctx, id)
}

// Delete removes an owned product and its interests, returning what was
// removed.
func (r *ProductRepo) Delete(ctx context.Context, shopkeeperID, id string) (domain.Product, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Product{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var row productRow
	if err := tx.GetContext(ctx, &row, `
		SELECT `+productCols+` FROM products WHERE id = ? AND shopkeeper_id = ?
	`, id, shopkeeperID); err != nil {
		return domain.Product{}, err
	}
	out := []domain.Product{row.toDomain()}
	if err := attachInterests(ctx, tx, out); err != nil {
		return domain.Product{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_interests WHERE product_id = ?`, id); err != nil {
		return domain.Product{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Product{}, err
	}
	return out[0], nil
}

type resaleOfferRow struct {
	ProductID      string          `db:"id"`
	Name           string          `db:"name"`
	Mrp            decimal.Decimal `db:"mrp"`
	ExpiryDate     string          `db:"expiry_date"`
	IsNearExpiry   bool            `db:"is_near_expiry"`
	IsExpired      bool            `db:"is_expired"`
	ResaleQuantity int             `db:"resale_quantity"`
	ResalePrice    decimal.Decimal `db:"resale_price"`
	OwnerID        string          `db:"owner_id"`
	ShopName       string          `db:"shop_name"`
	Mobile         string          `db:"mobile"`
}

// ResaleOffers lists every resale listing not owned by excludeShopkeeperID,
// joined with the owner's contact details.
func (r *ProductRepo) ResaleOffers(ctx context.Context, excludeShopkeeperID string) ([]domain.ResaleOffer, error) {
	var rows []resaleOfferRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT p.id, p.name, p.mrp, p.expiry_date, p.is_near_expiry, p.is_expired,
		       p.resale_quantity, p.resale_price,
		       p.shopkeeper_id AS owner_id,
		       COALESCE(s.shop_name,'') AS shop_name,
		       COALESCE(s.mobile,'') AS mobile
		FROM products p
		LEFT JOIN shopkeepers s ON s.id = p.shopkeeper_id
		WHERE p.listed_for_resale = 1 AND p.shopkeeper_id <> ?
		ORDER BY p.updated_at DESC, p.rowid
	`, excludeShopkeeperID); err != nil {
		return nil, err
	}
	out := make([]domain.ResaleOffer, 0, len(rows))
	for _, row := range rows {
		o := domain.ResaleOffer{
			ProductID:      row.ProductID,
			Name:           row.Name,
			Mrp:            row.Mrp,
			IsNearExpiry:   row.IsNearExpiry,
			IsExpired:      row.IsExpired,
			ResaleQuantity: row.ResaleQuantity,
			ResalePrice:    row.ResalePrice,
			Owner:          domain.ShopContact{ID: row.OwnerID, ShopName: row.ShopName, Mobile: row.Mobile},
		}
		if row.ExpiryDate != "" {
			t := parseTime(row.ExpiryDate)
			o.ExpiryDate = &t
		}
		out = append(out, o)
	}
	return out, nil
}

type digestRow struct {
	ProductID string          `db:"id"`
	Name      string          `db:"name"`
	Discount  decimal.Decimal `db:"discount"`
	Mrp       decimal.Decimal `db:"mrp"`
	ShopName  string          `db:"shop_name"`
}

// DiscountDigest lists discounted products across all shopkeepers.
func (r *ProductRepo) DiscountDigest(ctx context.Context) ([]domain.DiscountDigest, error) {
	var rows []digestRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT p.id, p.name, p.discount, p.mrp, COALESCE(s.shop_name,'') AS shop_name
		FROM products p
		LEFT JOIN shopkeepers s ON s.id = p.shopkeeper_id
		WHERE p.listed_for_discount = 1
		ORDER BY p.created_at, p.rowid
	`); err != nil {
		return nil, err
	}
	out := make([]domain.DiscountDigest, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DiscountDigest(row))
	}
	return out, nil
}
