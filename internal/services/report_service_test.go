package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/domain"
)

func TestSummaryEmptyWindow(t *testing.T) {
	f := newFixture(t)

	_, err := f.report.Summary(f.ctx, "sk-a")
	assert.True(t, errors.Is(err, domain.ErrEmptyResult))
	assert.Equal(t, "no record found", domain.Message(err))

	stats, err := f.report.ProductWise(f.ctx, "sk-a")
	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)

	sales, err := f.report.Salewise(f.ctx, "sk-a")
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestReportWindowBoundaries(t *testing.T) {
	f := newFixture(t)
	f.add(t, "sk-a", "Rice", 100, 80, 50, nil)

	// Before the midnight-aligned window start.
	f.clk.Set(time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC))
	_, _, err := f.sell("sk-a", "Rice", 100, 80, 7)
	require.NoError(t, err)

	// Inside the midnight-aligned window but before now minus 30 days.
	f.clk.Set(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	_, _, err = f.sell("sk-a", "Rice", 100, 80, 2)
	require.NoError(t, err)

	f.clk.Set(t0)
	_, _, err = f.sell("sk-a", "Rice", 100, 80, 1)
	require.NoError(t, err)

	sum, err := f.report.Summary(f.ctx, "sk-a")
	require.NoError(t, err)
	assert.Equal(t, "300", sum.TotalSale.String())
	assert.Equal(t, "240", sum.TotalPurchase.String())
	assert.Equal(t, "60", sum.ProfitOrLoss.String())

	stats, err := f.report.ProductWise(f.ctx, "sk-a")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].TotalQuantity)

	sales, err := f.report.Salewise(f.ctx, "sk-a")
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 1, sales[0].Quantity)
}

func TestProductWiseGroupsByLotIdentity(t *testing.T) {
	f := newFixture(t)
	f.add(t, "sk-a", "Rice", 100, 80, 20, nil)
	f.add(t, "sk-a", "Rice", 110, 80, 20, nil)
	f.add(t, "sk-a", "Dal", 90, 95, 20, nil)

	for _, s := range []struct {
		name      string
		mrp, cost int64
		qty       int
	}{
		{"Dal", 90, 95, 2},
		{"Rice", 100, 80, 3},
		{"Rice", 110, 80, 1},
		{"Rice", 100, 80, 4},
	} {
		_, _, err := f.sell("sk-a", s.name, s.mrp, s.cost, s.qty)
		require.NoError(t, err)
	}

	stats, err := f.report.ProductWise(f.ctx, "sk-a")
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "Dal", stats[0].Name)
	assert.Equal(t, 2, stats[0].TotalQuantity)
	assert.Equal(t, "-10", stats[0].ProfitOrLoss.String())

	assert.Equal(t, "Rice", stats[1].Name)
	assert.Equal(t, "100", stats[1].Mrp.String())
	assert.Equal(t, 7, stats[1].TotalQuantity)
	assert.Equal(t, "700", stats[1].TotalSale.String())
	assert.Equal(t, "560", stats[1].TotalPurchase.String())

	assert.Equal(t, "110", stats[2].Mrp.String())
	assert.Equal(t, 1, stats[2].TotalQuantity)

	sum, err := f.report.Summary(f.ctx, "sk-a")
	require.NoError(t, err)
	assert.Equal(t, "990", sum.TotalSale.String())
	assert.Equal(t, "830", sum.TotalPurchase.String())
	assert.Equal(t, "160", sum.ProfitOrLoss.String())
}

func TestReportsScopedToShopkeeper(t *testing.T) {
	f := newFixture(t)
	f.add(t, "sk-a", "Rice", 100, 80, 5, nil)
	_, _, err := f.sell("sk-a", "Rice", 100, 80, 1)
	require.NoError(t, err)

	_, err = f.report.Summary(f.ctx, "sk-b")
	assert.True(t, errors.Is(err, domain.ErrEmptyResult))
}
