package services

import (
	"context"
	"database/sql"
	"errors"

	"shopledger/internal/clock"
	"shopledger/internal/domain"
	"shopledger/internal/metrics"
	"shopledger/internal/repos"
)

type InterestService struct {
	Auth      *AuthService
	Products  *repos.ProductRepo
	Interests *repos.InterestRepo
	Clock     clock.Clock
}

func NewInterestService(auth *AuthService, products *repos.ProductRepo, interests *repos.InterestRepo, clk clock.Clock) *InterestService {
	return &InterestService{Auth: auth, Products: products, Interests: interests, Clock: clk}
}

// RegisterInterest records that interestedID wants productID. Checks run in
// a fixed order: profile, product, self-interest, then duplicate.
func (s *InterestService) RegisterInterest(ctx context.Context, interestedID, productID string) (domain.InterestedUser, error) {
	profile, err := s.Auth.Profile(ctx, interestedID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InterestedUser{}, domain.NotFound("interested shopkeeper not found")
		}
		return domain.InterestedUser{}, err
	}

	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InterestedUser{}, domain.NotFound("product not found")
		}
		return domain.InterestedUser{}, domain.StoreFailure(err)
	}

	if p.ShopkeeperID == interestedID {
		metrics.Rejections.WithLabelValues("register_interest", string(domain.KindInvalidState)).Inc()
		return domain.InterestedUser{}, domain.InvalidState("you cannot express interest in your own product")
	}
	dup := domain.Duplicate("you have already expressed interest in this product")
	if p.HasInterest(interestedID) {
		metrics.Rejections.WithLabelValues("register_interest", string(domain.KindDuplicate)).Inc()
		return domain.InterestedUser{}, dup
	}

	u := domain.InterestedUser{
		ShopkeeperID: interestedID,
		ShopName:     profile.ShopName,
		OwnerName:    profile.OwnerName,
		Mobile:       profile.Mobile,
		Timestamp:    s.Clock.Now(),
	}
	if err := s.Interests.Add(ctx, p.ID, u); err != nil {
		if errors.Is(err, repos.ErrConflict) {
			return domain.InterestedUser{}, dup
		}
		return domain.InterestedUser{}, domain.StoreFailure(err)
	}
	return u, nil
}

// Interested lists a product's interested shopkeepers in registration order.
func (s *InterestService) Interested(ctx context.Context, ownerID, productID string) ([]domain.InterestedUser, error) {
	if _, err := s.Products.GetOwned(ctx, ownerID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("product not found")
		}
		return nil, domain.StoreFailure(err)
	}
	out, err := s.Interests.ListFor(ctx, productID)
	return out, domain.StoreFailure(err)
}
