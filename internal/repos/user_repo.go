package repos

import (
	"context"

	"shopledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const shopkeeperCols = `id,email,shop_name,owner_name,mobile,password_hash`

// Create returns ErrConflict when the email is taken.
func (r *UserRepo) Create(ctx context.Context, s domain.Shopkeeper) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO shopkeepers(id,email,shop_name,owner_name,mobile,password_hash)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT DO NOTHING`, s.ID, s.Email, s.ShopName, s.OwnerName, s.Mobile, s.Hash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.Shopkeeper, error) {
	var u domain.Shopkeeper
	err := r.DB.GetContext(ctx, &u, `SELECT `+shopkeeperCols+` FROM shopkeepers WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.Shopkeeper, error) {
	var u domain.Shopkeeper
	err := r.DB.GetContext(ctx, &u, `SELECT `+shopkeeperCols+` FROM shopkeepers WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) BindSession(ctx context.Context, sid, shopkeeperID string) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO sessions(id,shopkeeper_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET shopkeeper_id=excluded.shopkeeper_id,last_seen=CURRENT_TIMESTAMP`, sid, shopkeeperID)
	return err
}

func (r *UserRepo) SessionUser(ctx context.Context, sid string) (*domain.Shopkeeper, error) {
	var u domain.Shopkeeper
	err := r.DB.GetContext(ctx, &u, `
      SELECT s.id,s.email,s.shop_name,s.owner_name,s.mobile,s.password_hash
      FROM sessions x
      JOIN shopkeepers s ON s.id=x.shopkeeper_id
      WHERE x.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, sid)
	return err
}
