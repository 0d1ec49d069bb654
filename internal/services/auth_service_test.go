package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/domain"
	"shopledger/internal/services"
)

func TestRegisterLoginLogout(t *testing.T) {
	f := newFixture(t)

	u, err := f.auth.Register(f.ctx, services.RegisterInput{
		Email: " Dev@Shop.Test ", Password: "Passw0rd!", ShopName: "D Depot", OwnerName: "Dev", Mobile: "444",
	})
	require.NoError(t, err)
	assert.Equal(t, "dev@shop.test", u.Email)
	assert.NotEqual(t, "Passw0rd!", u.Hash)

	_, err = f.auth.Register(f.ctx, services.RegisterInput{Email: "DEV@shop.test", Password: "x"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, _, err = f.auth.Login(f.ctx, "dev@shop.test", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = f.auth.Login(f.ctx, "nobody@shop.test", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	token, who, err := f.auth.Login(f.ctx, "DEV@shop.test", "Passw0rd!")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, u.ID, who.ID)

	cur, err := f.auth.CurrentUser(f.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "D Depot", cur.ShopName)

	require.NoError(t, f.auth.Logout(f.ctx, token))
	_, err = f.auth.CurrentUser(f.ctx, token)
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)

	p, err := f.auth.Profile(f.ctx, "sk-c")
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{ShopName: "C Corner", OwnerName: "Cora", Mobile: "333"}, p)

	_, err = f.auth.Profile(f.ctx, "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
