package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_Deposit(t *testing.T) {
	account := NewAccount(1)
	require.NoError(t, account.Deposit(units(1)))
	assert.Equal(t, units(1), account.Available)
	assert.Equal(t, Amount(0), account.Held)
}

func TestAccount_Withdraw(t *testing.T) {
	account := NewAccount(1)
	require.NoError(t, account.Deposit(units(1)))

	require.NoError(t, account.Withdraw(units(1)))
	assert.Equal(t, Amount(0), account.Available)

	// 餘額不足
	assert.ErrorIs(t, account.Withdraw(units(1)), ErrInsufficientFunds)
	assert.Equal(t, Amount(0), account.Available)
}

func TestAccount_DisputeHold(t *testing.T) {
	account := NewAccount(1)
	require.NoError(t, account.Deposit(units(1)))

	require.NoError(t, account.DisputeHold(units(1)))
	assert.Equal(t, Amount(0), account.Available)
	assert.Equal(t, units(1), account.Held)

	// 可用餘額不足時不可再保留
	assert.ErrorIs(t, account.DisputeHold(units(1)), ErrInsufficientFunds)
	assert.Equal(t, units(1), account.Held)
	assert.Equal(t, units(1), account.Total())
}

func TestAccount_ResolveRelease(t *testing.T) {
	account := &Account{ClientID: 1, Held: units(1)}
	require.NoError(t, account.ResolveRelease(units(1)))
	assert.Equal(t, units(1), account.Available)
	assert.Equal(t, Amount(0), account.Held)
}

func TestAccount_Chargeback(t *testing.T) {
	account := &Account{ClientID: 1, Held: units(1)}
	require.NoError(t, account.Chargeback(units(1)))
	assert.Equal(t, Amount(0), account.Held)
	assert.True(t, account.Locked)
}

func TestAccount_LockedRejectsEverything(t *testing.T) {
	ops := map[string]func(*Account) error{
		"deposit":    func(a *Account) error { return a.Deposit(1) },
		"withdraw":   func(a *Account) error { return a.Withdraw(1) },
		"dispute":    func(a *Account) error { return a.DisputeHold(1) },
		"resolve":    func(a *Account) error { return a.ResolveRelease(1) },
		"chargeback": func(a *Account) error { return a.Chargeback(1) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			account := &Account{ClientID: 1, Available: 10, Held: 10, Locked: true}
			assert.ErrorIs(t, op(account), ErrAccountLocked)
			assert.Equal(t, Account{ClientID: 1, Available: 10, Held: 10, Locked: true}, *account)
		})
	}
}

func TestAccounts_GetOrCreate(t *testing.T) {
	accounts := Accounts{}
	first := accounts.GetOrCreate(7)
	first.Available = 5

	assert.Same(t, first, accounts.GetOrCreate(7))
	assert.Len(t, accounts, 1)
	assert.Equal(t, uint16(7), first.ClientID)
}
