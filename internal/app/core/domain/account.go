package domain

type Account struct {
	Available Amount
	Held      Amount
	ClientID  uint16
	Locked    bool
}

func NewAccount(clientID uint16) *Account {
	return &Account{
		ClientID: clientID,
	}
}

// Total 可用 + 保留
func (a *Account) Total() Amount {
	return a.Available + a.Held
}

// Deposit 存款
func (a *Account) Deposit(amount Amount) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Available = a.Available + amount
	return nil
}

// Withdraw 提款
func (a *Account) Withdraw(amount Amount) error {
	if a.Locked {
		return ErrAccountLocked
	}

	if a.Available < amount {
		return ErrInsufficientFunds
	}

	a.Available = a.Available - amount
	return nil
}

// DisputeHold 將金額從可用移到保留
// 只能保留目前可用的金額，即使原交易的金額曾經存入過
func (a *Account) DisputeHold(amount Amount) error {
	if a.Locked {
		return ErrAccountLocked
	}

	if a.Available < amount {
		return ErrInsufficientFunds
	}

	a.Available = a.Available - amount
	a.Held = a.Held + amount
	return nil
}

// ResolveRelease 將保留金額還回可用
func (a *Account) ResolveRelease(amount Amount) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Available = a.Available + amount
	a.Held = a.Held - amount
	return nil
}

// Chargeback 扣除保留金額並凍結帳戶，之後所有交易都會被拒絕
func (a *Account) Chargeback(amount Amount) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Held = a.Held - amount
	a.Locked = true
	return nil
}

// Accounts 客戶 ID -> 帳戶
type Accounts map[uint16]*Account

// GetOrCreate 取得帳戶，不存在時建立一個空帳戶
func (as Accounts) GetOrCreate(clientID uint16) *Account {
	account, ok := as[clientID]
	if !ok {
		account = NewAccount(clientID)
		as[clientID] = account
	}
	return account
}
