package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/domain"
)

func TestRecordSaleDebitsLot(t *testing.T) {
	f := newFixture(t)
	f.add(t, "sk-a", "Rice", 100, 80, 10, nil)

	sold, p, err := f.sell("sk-a", "Rice", 100, 80, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, sold.Quantity)
	assert.Equal(t, "Rice", sold.Name)
	assert.True(t, sold.CreatedAt.Equal(t0))
	assert.Equal(t, 6, p.Quantity)
	assert.False(t, p.OutOfStock)

	sum, err := f.report.Summary(f.ctx, "sk-a")
	require.NoError(t, err)
	assert.Equal(t, "400", sum.TotalSale.String())
	assert.Equal(t, "320", sum.TotalPurchase.String())
	assert.Equal(t, "80", sum.ProfitOrLoss.String())
}

func TestRecordSaleToZeroMarksOutOfStock(t *testing.T) {
	f := newFixture(t)
	lot := f.add(t, "sk-a", "Dal", 90, 70, 3, nil)

	_, p, err := f.sell("sk-a", "Dal", 90, 70, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.True(t, p.OutOfStock)

	stored, err := f.products.Get(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutOfStock)

	_, _, err = f.sell("sk-a", "Dal", 90, 70, 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "an empty lot is still a match")
}

func TestRecordSaleRejections(t *testing.T) {
	f := newFixture(t)
	f.add(t, "sk-a", "Oil", 150, 120, 2, nil)

	_, _, err := f.sell("sk-a", "Oil", 150, 120, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	_, _, err = f.sell("sk-a", "Oil", 150, 120, 3)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	assert.Equal(t, "not enough stock available", domain.Message(err))

	_, _, err = f.sell("sk-a", "Oil", 151, 120, 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, _, err = f.sell("sk-b", "Oil", 150, 120, 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "other shops' stock is never matched")

	sales, err := f.report.Salewise(f.ctx, "sk-a")
	require.NoError(t, err)
	assert.Empty(t, sales, "rejected sales leave no trace")
}

func TestRecordSaleIgnoresExpiry(t *testing.T) {
	f := newFixture(t)
	lot := f.add(t, "sk-a", "Milk", 30, 25, 5, days(-3))
	require.True(t, lot.IsExpired)

	_, p, err := f.sell("sk-a", "Milk", 30, 25, 2)
	require.NoError(t, err)
	assert.Equal(t, lot.ID, p.ID)
	assert.Equal(t, 3, p.Quantity)
}

func TestRecordSalePicksEarliestLot(t *testing.T) {
	f := newFixture(t)
	older := f.add(t, "sk-a", "Milk", 30, 25, 5, days(20))
	f.clk.Advance(1)
	f.add(t, "sk-a", "Milk", 30, 25, 5, days(40))

	_, p, err := f.sell("sk-a", "Milk", 30, 25, 1)
	require.NoError(t, err)
	assert.Equal(t, older.ID, p.ID)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	lot := f.add(t, "sk-a", "Rice", 100, 80, 10, nil)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.sell("sk-a", "Rice", 100, 80, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, short int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInvalidState):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, short)

	stored, err := f.products.Get(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
	assert.True(t, stored.OutOfStock)

	sales, err := f.report.Salewise(f.ctx, "sk-a")
	require.NoError(t, err)
	assert.Len(t, sales, 10)
}
