package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shopledger/internal/cache"
	"shopledger/internal/clock"
	"shopledger/internal/domain"
	"shopledger/internal/expiry"
	"shopledger/internal/metrics"
	"shopledger/internal/repos"
)

// StockService is the stock ledger: it owns product quantities and the
// flags derived from them.
type StockService struct {
	Products *repos.ProductRepo
	Digest   cache.DigestCache
	Clock    clock.Clock
}

func NewStockService(products *repos.ProductRepo, digest cache.DigestCache, clk clock.Clock) *StockService {
	return &StockService{Products: products, Digest: digest, Clock: clk}
}

type AddStockInput struct {
	Name       string
	CategoryID string
	Mrp        decimal.Decimal
	CostPrice  decimal.Decimal
	Quantity   int
	ExpiryDate *time.Time
	Discount   decimal.Decimal
}

// AddStock merges quantity into the matching SKU-lot or creates it. merged
// is true when an existing lot absorbed the quantity.
func (s *StockService) AddStock(ctx context.Context, shopkeeperID string, in AddStockInput) (domain.Product, bool, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return domain.Product{}, false, domain.InvalidState("name is required")
	case in.Quantity < 0:
		return domain.Product{}, false, domain.InvalidState("quantity must not be negative")
	case in.Mrp.IsNegative() || in.CostPrice.IsNegative():
		return domain.Product{}, false, domain.InvalidState("prices must not be negative")
	}

	now := s.Clock.Now()
	var exp *time.Time
	if in.ExpiryDate != nil {
		t := in.ExpiryDate.UTC()
		exp = &t
	}
	st := expiry.Evaluate(exp, now)

	p, merged, err := s.Products.UpsertLot(ctx, domain.Product{
		ShopkeeperID: shopkeeperID,
		Name:         name,
		CategoryID:   in.CategoryID,
		Mrp:          in.Mrp,
		CostPrice:    in.CostPrice,
		Quantity:     in.Quantity,
		ExpiryDate:   exp,
		IsNearExpiry: st.NearExpiry,
		IsExpired:    st.Expired,
		Discount:     in.Discount,
	}, now)
	if err != nil {
		return domain.Product{}, false, domain.StoreFailure(err)
	}
	if merged {
		metrics.StockAdditions.WithLabelValues("merged").Inc()
	} else {
		metrics.StockAdditions.WithLabelValues("created").Inc()
	}
	return p, merged, nil
}

// ListProducts returns the shopkeeper's products with expiry and stock flags
// recomputed against now. Only products whose flags moved are written back.
func (s *StockService) ListProducts(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	products, err := s.Products.ListByShopkeeper(ctx, shopkeeperID)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	if _, err := s.refresh(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// RefreshAll recomputes flags for every shopkeeper's products and reports how
// many rows changed.
func (s *StockService) RefreshAll(ctx context.Context) (int, error) {
	products, err := s.Products.ListAll(ctx)
	if err != nil {
		return 0, domain.StoreFailure(err)
	}
	return s.refresh(ctx, products)
}

func (s *StockService) refresh(ctx context.Context, products []domain.Product) (int, error) {
	now := s.Clock.Now()
	changed := 0
	for i := range products {
		p := &products[i]
		st := expiry.Evaluate(p.ExpiryDate, now)
		oos := p.Quantity == 0
		if p.IsNearExpiry == st.NearExpiry && p.IsExpired == st.Expired && p.OutOfStock == oos {
			continue
		}
		if err := s.Products.UpdateFlags(ctx, p.ID, st.NearExpiry, st.Expired, oos, now); err != nil {
			return changed, domain.StoreFailure(err)
		}
		p.IsNearExpiry, p.IsExpired, p.OutOfStock = st.NearExpiry, st.Expired, oos
		p.UpdatedAt = now
		changed++
	}
	metrics.FlagRefreshes.Add(float64(changed))
	return changed, nil
}

// DeleteProduct removes a product owned by shopkeeperID.
func (s *StockService) DeleteProduct(ctx context.Context, shopkeeperID, id string) (domain.Product, error) {
	p, err := s.Products.Delete(ctx, shopkeeperID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.NotFound("product not found or unauthorized")
		}
		return domain.Product{}, domain.StoreFailure(err)
	}
	if p.ListedForDiscount {
		s.Digest.Invalidate(ctx)
	}
	return p, nil
}
