package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"shopledger/internal/clock"
	"shopledger/internal/domain"
	"shopledger/internal/repos"
)

// SalesWindowDays is the trailing reporting window.
const SalesWindowDays = 30

// ReportService aggregates the sale log over the trailing window. Summary and
// product-wise views start the window at midnight; the raw sale list does
// not.
type ReportService struct {
	Sales *repos.SaleRepo
	Clock clock.Clock
}

func NewReportService(sales *repos.SaleRepo, clk clock.Clock) *ReportService {
	return &ReportService{Sales: sales, Clock: clk}
}

func windowStart(now time.Time) time.Time { return now.AddDate(0, 0, -SalesWindowDays) }

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Summary fails with EmptyResult when the window holds no sales.
func (s *ReportService) Summary(ctx context.Context, shopkeeperID string) (domain.SaleSummary, error) {
	sales, err := s.Sales.ListSince(ctx, shopkeeperID, startOfDay(windowStart(s.Clock.Now())))
	if err != nil {
		return domain.SaleSummary{}, domain.StoreFailure(err)
	}
	if len(sales) == 0 {
		return domain.SaleSummary{}, domain.EmptyResult("no record found")
	}
	var out domain.SaleSummary
	for _, sale := range sales {
		q := decimal.NewFromInt(int64(sale.Quantity))
		out.TotalSale = out.TotalSale.Add(sale.Mrp.Mul(q))
		out.TotalPurchase = out.TotalPurchase.Add(sale.CostPrice.Mul(q))
	}
	out.ProfitOrLoss = out.TotalSale.Sub(out.TotalPurchase)
	return out, nil
}

func (s *ReportService) Salewise(ctx context.Context, shopkeeperID string) ([]domain.SoldProduct, error) {
	sales, err := s.Sales.ListSince(ctx, shopkeeperID, windowStart(s.Clock.Now()))
	return sales, domain.StoreFailure(err)
}

// ProductWise groups the window's sales by (name, mrp, costPrice) in order of
// first appearance. An empty window yields an empty slice.
func (s *ReportService) ProductWise(ctx context.Context, shopkeeperID string) ([]domain.ProductStat, error) {
	sales, err := s.Sales.ListSince(ctx, shopkeeperID, startOfDay(windowStart(s.Clock.Now())))
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	type key struct{ name, mrp, cost string }
	idx := map[key]int{}
	out := []domain.ProductStat{}
	for _, sale := range sales {
		k := key{sale.Name, sale.Mrp.String(), sale.CostPrice.String()}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, domain.ProductStat{Name: sale.Name, Mrp: sale.Mrp, CostPrice: sale.CostPrice})
		}
		q := decimal.NewFromInt(int64(sale.Quantity))
		st := &out[i]
		st.TotalQuantity += sale.Quantity
		st.TotalSale = st.TotalSale.Add(sale.Mrp.Mul(q))
		st.TotalPurchase = st.TotalPurchase.Add(sale.CostPrice.Mul(q))
	}
	for i := range out {
		out[i].ProfitOrLoss = out[i].TotalSale.Sub(out[i].TotalPurchase)
	}
	return out, nil
}
