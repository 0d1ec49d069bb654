package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shopledger/internal/cache"
	"shopledger/internal/clock"
	"shopledger/internal/domain"
	"shopledger/internal/repos"
	"shopledger/internal/services"
)

var t0 = time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	db       *sqlx.DB
	clk      *clock.Fixed
	digest   *cache.Memory
	products *repos.ProductRepo

	auth     *services.AuthService
	stock    *services.StockService
	listing  *services.ListingService
	interest *services.InterestService
	sale     *services.SaleService
	report   *services.ReportService
	cats     *services.CategoryService
}

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memdb(t)
	clk := clock.NewFixed(t0)
	digest := cache.NewMemory(time.Hour)

	users := repos.NewUserRepo(db)
	products := repos.NewProductRepo(db)
	sales := repos.NewSaleRepo(db)

	auth := services.NewAuthService(users)
	stock := services.NewStockService(products, digest, clk)
	f := &fixture{
		ctx:      context.Background(),
		db:       db,
		clk:      clk,
		digest:   digest,
		products: products,
		auth:     auth,
		stock:    stock,
		listing:  services.NewListingService(products, stock, digest, clk),
		interest: services.NewInterestService(auth, products, repos.NewInterestRepo(db), clk),
		sale:     services.NewSaleService(sales, clk),
		report:   services.NewReportService(sales, clk),
		cats:     services.NewCategoryService(repos.NewCategoryRepo(db), clk),
	}
	for _, s := range []domain.Shopkeeper{
		{ID: "sk-a", Email: "a@shop.test", ShopName: "A Stores", OwnerName: "Anu", Mobile: "111"},
		{ID: "sk-b", Email: "b@shop.test", ShopName: "B Mart", OwnerName: "Bilal", Mobile: "222"},
		{ID: "sk-c", Email: "c@shop.test", ShopName: "C Corner", OwnerName: "Cora", Mobile: "333"},
	} {
		s.Hash = "x"
		require.NoError(t, users.Create(f.ctx, s))
	}
	return f
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *fixture) add(t *testing.T, shop, name string, mrp, cost int64, qty int, exp *time.Time) domain.Product {
	t.Helper()
	p, _, err := f.stock.AddStock(f.ctx, shop, services.AddStockInput{
		Name: name, Mrp: dec(mrp), CostPrice: dec(cost), Quantity: qty, ExpiryDate: exp,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) sell(shop, name string, mrp, cost int64, qty int) (domain.SoldProduct, domain.Product, error) {
	return f.sale.RecordSale(f.ctx, shop, services.RecordSaleInput{
		Name: name, Mrp: dec(mrp), CostPrice: dec(cost), Quantity: qty,
	})
}

func days(n int) *time.Time {
	t := t0.Add(time.Duration(n) * 24 * time.Hour)
	return &t
}
