package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/domain"
)

func TestRegisterInterest(t *testing.T) {
	f := newFixture(t)
	p := f.add(t, "sk-a", "Rice", 100, 80, 10, nil)

	u, err := f.interest.RegisterInterest(f.ctx, "sk-b", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "sk-b", u.ShopkeeperID)
	assert.Equal(t, "B Mart", u.ShopName)
	assert.Equal(t, "Bilal", u.OwnerName)
	assert.Equal(t, "222", u.Mobile)
	assert.True(t, u.Timestamp.Equal(t0))

	f.clk.Advance(time.Minute)
	_, err = f.interest.RegisterInterest(f.ctx, "sk-c", p.ID)
	require.NoError(t, err)

	list, err := f.interest.Interested(f.ctx, "sk-a", p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sk-b", list[0].ShopkeeperID)
	assert.Equal(t, "sk-c", list[1].ShopkeeperID)

	got, err := f.products.Get(f.ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.HasInterest("sk-c"))
}

func TestRegisterInterestRejections(t *testing.T) {
	f := newFixture(t)
	p := f.add(t, "sk-a", "Rice", 100, 80, 10, nil)

	_, err := f.interest.RegisterInterest(f.ctx, "sk-a", p.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	_, err = f.interest.RegisterInterest(f.ctx, "sk-b", "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "product not found", domain.Message(err))

	_, err = f.interest.RegisterInterest(f.ctx, "ghost", "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "interested shopkeeper not found", domain.Message(err), "profile is resolved first")

	_, err = f.interest.RegisterInterest(f.ctx, "sk-b", p.ID)
	require.NoError(t, err)
	_, err = f.interest.RegisterInterest(f.ctx, "sk-b", p.ID)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestInterestedOwnerOnly(t *testing.T) {
	f := newFixture(t)
	p := f.add(t, "sk-a", "Rice", 100, 80, 10, nil)

	list, err := f.interest.Interested(f.ctx, "sk-a", p.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = f.interest.Interested(f.ctx, "sk-b", p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteProductDropsInterests(t *testing.T) {
	f := newFixture(t)
	p := f.add(t, "sk-a", "Rice", 100, 80, 10, nil)
	_, err := f.interest.RegisterInterest(f.ctx, "sk-b", p.ID)
	require.NoError(t, err)

	deleted, err := f.stock.DeleteProduct(f.ctx, "sk-a", p.ID)
	require.NoError(t, err)
	assert.Len(t, deleted.InterestedUsers, 1)

	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM product_interests WHERE product_id = ?`, p.ID))
	assert.Zero(t, n)
}

func TestConcurrentInterestRegistersOnce(t *testing.T) {
	f := newFixture(t)
	p := f.add(t, "sk-a", "Rice", 100, 80, 10, nil)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.interest.RegisterInterest(f.ctx, "sk-b", p.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicate):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)

	list, err := f.interest.Interested(f.ctx, "sk-a", p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
