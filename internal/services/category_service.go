package services

import (
	"context"
	"errors"
	"strings"

	"shopledger/internal/clock"
	"shopledger/internal/domain"
	"shopledger/internal/repos"
)

type CategoryService struct {
	Cats  *repos.CategoryRepo
	Clock clock.Clock
}

func NewCategoryService(cats *repos.CategoryRepo, clk clock.Clock) *CategoryService {
	return &CategoryService{Cats: cats, Clock: clk}
}

func (s *CategoryService) Create(ctx context.Context, shopkeeperID, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, domain.InvalidState("category name is required")
	}
	c, err := s.Cats.Create(ctx, shopkeeperID, name, s.Clock.Now())
	if err != nil {
		if errors.Is(err, repos.ErrConflict) {
			return domain.Category{}, domain.Duplicate("category already exists")
		}
		return domain.Category{}, domain.StoreFailure(err)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, shopkeeperID string) ([]domain.Category, error) {
	out, err := s.Cats.List(ctx, shopkeeperID)
	return out, domain.StoreFailure(err)
}
