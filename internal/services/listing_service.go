package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"shopledger/internal/cache"
	"shopledger/internal/clock"
	"shopledger/internal/domain"
	"shopledger/internal/metrics"
	"shopledger/internal/repos"
)

// ListingService manages resale and discount listings and the views built
// on them, including the cross-shopkeeper marketplace.
type ListingService struct {
	Products *repos.ProductRepo
	Stock    *StockService
	Digest   cache.DigestCache
	Clock    clock.Clock
}

func NewListingService(products *repos.ProductRepo, stock *StockService, digest cache.DigestCache, clk clock.Clock) *ListingService {
	return &ListingService{Products: products, Stock: stock, Digest: digest, Clock: clk}
}

// ListForResale offers resaleQty units of an owned product to other shops.
// The quantity is checked against stock only now; later sales do not shrink
// an existing listing.
func (s *ListingService) ListForResale(ctx context.Context, shopkeeperID, id string, resaleQty int, price decimal.Decimal) (domain.Product, error) {
	if resaleQty < 0 {
		return domain.Product{}, domain.InvalidState("resale quantity must not be negative")
	}
	p, err := s.Products.MarkResale(ctx, shopkeeperID, id, resaleQty, price, s.Clock.Now())
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.Product{}, domain.NotFound("product not found")
	case errors.Is(err, repos.ErrInsufficientStock):
		metrics.Rejections.WithLabelValues("list_for_resale", string(domain.KindInvalidState)).Inc()
		return domain.Product{}, domain.InvalidState("resale quantity exceeds available stock")
	default:
		return domain.Product{}, domain.StoreFailure(err)
	}
}

// ListForDiscount marks an owned product as discounted. The percentage is
// stored as given.
func (s *ListingService) ListForDiscount(ctx context.Context, shopkeeperID, id string, percent decimal.Decimal) (domain.Product, error) {
	p, err := s.Products.MarkDiscount(ctx, shopkeeperID, id, percent, s.Clock.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.NotFound("product not found")
		}
		return domain.Product{}, domain.StoreFailure(err)
	}
	s.Digest.Invalidate(ctx)
	return p, nil
}

func (s *ListingService) ResaleListings(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	out, err := s.Products.ListResale(ctx, shopkeeperID)
	return out, domain.StoreFailure(err)
}

// NearExpiry refreshes the shopkeeper's flags before filtering so the view
// is never older than the request.
func (s *ListingService) NearExpiry(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	if _, err := s.Stock.ListProducts(ctx, shopkeeperID); err != nil {
		return nil, err
	}
	out, err := s.Products.ListNearExpiry(ctx, shopkeeperID)
	return out, domain.StoreFailure(err)
}

func (s *ListingService) Expired(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	if _, err := s.Stock.ListProducts(ctx, shopkeeperID); err != nil {
		return nil, err
	}
	out, err := s.Products.ListExpired(ctx, shopkeeperID)
	return out, domain.StoreFailure(err)
}

func (s *ListingService) Discounted(ctx context.Context, shopkeeperID string) ([]domain.Product, error) {
	out, err := s.Products.ListDiscounted(ctx, shopkeeperID)
	return out, domain.StoreFailure(err)
}

// MarketplaceDiscounted is the digest of every shop's discounted products.
func (s *ListingService) MarketplaceDiscounted(ctx context.Context) ([]domain.DiscountDigest, error) {
	if d, ok := s.Digest.Get(ctx); ok {
		metrics.DigestCache.WithLabelValues("hit").Inc()
		return d, nil
	}
	metrics.DigestCache.WithLabelValues("miss").Inc()
	d, err := s.Products.DiscountDigest(ctx)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	s.Digest.Set(ctx, d)
	return d, nil
}

// MarketplaceResale lists other shopkeepers' resale offers.
func (s *ListingService) MarketplaceResale(ctx context.Context, shopkeeperID string) ([]domain.ResaleOffer, error) {
	out, err := s.Products.ResaleOffers(ctx, shopkeeperID)
	return out, domain.StoreFailure(err)
}
