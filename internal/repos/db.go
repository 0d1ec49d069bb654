package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	applog "shopledger/internal/log"
)

// timeLayout is fixed-width UTC so TEXT columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// rows written by hand (sqlite CURRENT_TIMESTAMP) use this shape
		t, _ = time.Parse("2006-01-02 15:04:05", s)
	}
	return t
}

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: writes serialize and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Shopkeepers & Sessions
CREATE TABLE IF NOT EXISTS shopkeepers(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  shop_name TEXT NOT NULL,
  owner_name TEXT NOT NULL,
  mobile TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_shopkeepers_email ON shopkeepers(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  shopkeeper_id TEXT NULL REFERENCES shopkeepers(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_shopkeeper ON sessions(shopkeeper_id);

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  shopkeeper_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at TEXT NOT NULL,
  UNIQUE(name, shopkeeper_id)
);

-- Products: one row per SKU-lot. Money columns hold canonical decimal text,
-- expiry_date is '' when the product does not expire.
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  shopkeeper_id TEXT NOT NULL,
  name TEXT NOT NULL,
  category_id TEXT NOT NULL DEFAULT '',
  mrp TEXT NOT NULL,
  cost_price TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  expiry_date TEXT NOT NULL DEFAULT '',
  out_of_stock INTEGER NOT NULL DEFAULT 0,
  is_near_expiry INTEGER NOT NULL DEFAULT 0,
  is_expired INTEGER NOT NULL DEFAULT 0,
  listed_for_resale INTEGER NOT NULL DEFAULT 0,
  resale_quantity INTEGER NOT NULL DEFAULT 0,
  resale_price TEXT NOT NULL DEFAULT '0',
  listed_for_discount INTEGER NOT NULL DEFAULT 0,
  discount TEXT NOT NULL DEFAULT '0',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_lot
  ON products(shopkeeper_id, name, mrp, cost_price, expiry_date);
CREATE INDEX IF NOT EXISTS idx_products_resale   ON products(listed_for_resale);
CREATE INDEX IF NOT EXISTS idx_products_discount ON products(listed_for_discount);

CREATE TABLE IF NOT EXISTS product_interests(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  shopkeeper_id TEXT NOT NULL,
  shop_name TEXT NOT NULL,
  owner_name TEXT NOT NULL,
  mobile TEXT NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY(product_id, shopkeeper_id)
);

-- Sales (append-only)
CREATE TABLE IF NOT EXISTS sold_products(
  id TEXT PRIMARY KEY,
  shopkeeper_id TEXT NOT NULL,
  name TEXT NOT NULL,
  mrp TEXT NOT NULL,
  cost_price TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sold_products_window ON sold_products(shopkeeper_id, created_at);
`
	_, err := db.Exec(schema)
	return err
}

// SeedDemo ensures three demo shops exist (idempotent).
func SeedDemo(ctx context.Context, db *sqlx.DB) error {
	type s struct {
		ID, Email, Shop, Owner, Mobile, Hash string
	}
	mk := func(id, email, shop, owner, mobile, raw string) s {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return s{ID: id, Email: email, Shop: shop, Owner: owner, Mobile: mobile, Hash: string(h)}
	}
	shops := []s{
		mk("sk-asha", "asha@shopledger.test", "Asha General Store", "Asha", "9000000001", "Passw0rd!"),
		mk("sk-bala", "bala@shopledger.test", "Bala Provisions", "Bala", "9000000002", "Passw0rd!"),
		mk("sk-chen", "chen@shopledger.test", "Chen Mart", "Chen", "9000000003", "Passw0rd!"),
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range shops {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO shopkeepers(id,email,shop_name,owner_name,mobile,password_hash)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT DO NOTHING
		`, x.ID, x.Email, x.Shop, x.Owner, x.Mobile, x.Hash); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	applog.L().Info("seed.demo", zap.Int("shopkeepers", len(shops)))
	return nil
}
