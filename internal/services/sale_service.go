package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"shopledger/internal/clock"
	"shopledger/internal/domain"
	"shopledger/internal/metrics"
	"shopledger/internal/repos"
)

type SaleService struct {
	Sales *repos.SaleRepo
	Clock clock.Clock
}

func NewSaleService(sales *repos.SaleRepo, clk clock.Clock) *SaleService {
	return &SaleService{Sales: sales, Clock: clk}
}

type RecordSaleInput struct {
	Name      string
	Mrp       decimal.Decimal
	CostPrice decimal.Decimal
	Quantity  int
}

// RecordSale debits stock from the lot matching (name, mrp, costPrice) and
// appends the sale. The lot's expiry date plays no part in the match. It
// returns the sale snapshot and the product as left after the debit.
func (s *SaleService) RecordSale(ctx context.Context, shopkeeperID string, in RecordSaleInput) (domain.SoldProduct, domain.Product, error) {
	if in.Quantity < 1 {
		return domain.SoldProduct{}, domain.Product{}, domain.InvalidState("quantity must be at least 1")
	}
	sold, p, err := s.Sales.Record(ctx, domain.SoldProduct{
		ShopkeeperID: shopkeeperID,
		Name:         strings.TrimSpace(in.Name),
		Mrp:          in.Mrp,
		CostPrice:    in.CostPrice,
		Quantity:     in.Quantity,
	}, s.Clock.Now())
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		return domain.SoldProduct{}, domain.Product{}, domain.NotFound("product not found for sale")
	case errors.Is(err, repos.ErrInsufficientStock):
		metrics.Rejections.WithLabelValues("record_sale", string(domain.KindInvalidState)).Inc()
		return domain.SoldProduct{}, domain.Product{}, domain.InvalidState("not enough stock available")
	default:
		return domain.SoldProduct{}, domain.Product{}, domain.StoreFailure(err)
	}
	metrics.SalesRecorded.Inc()
	metrics.UnitsSold.Add(float64(sold.Quantity))
	return sold, p, nil
}
