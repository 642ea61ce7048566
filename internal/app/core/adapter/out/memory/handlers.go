package memory

import (
	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
)

// handleDeposit 處理存款邏輯
func handleDeposit(tran *domain.Transaction, accounts domain.Accounts, log domain.TransactionLog) error {
	if _, ok := log[tran.TransactionID]; ok {
		return domain.ErrDuplicateTransaction
	}
	logged, err := domain.NewLoggedTransaction(tran)
	if err != nil {
		return err
	}

	account := accounts.GetOrCreate(tran.ClientID)
	if err := account.Deposit(logged.Amount); err != nil {
		return err
	}

	log[tran.TransactionID] = logged
	return nil
}

// handleWithdrawal 處理提款邏輯
func handleWithdrawal(tran *domain.Transaction, accounts domain.Accounts, log domain.TransactionLog) error {
	if _, ok := log[tran.TransactionID]; ok {
		return domain.ErrDuplicateTransaction
	}
	logged, err := domain.NewLoggedTransaction(tran)
	if err != nil {
		return err
	}

	account := accounts.GetOrCreate(tran.ClientID)
	if err := account.Withdraw(logged.Amount); err != nil {
		return err
	}

	log[tran.TransactionID] = logged
	return nil
}

// referencedTransaction 找出爭議類交易參照的紀錄，並檢查客戶是否一致
func referencedTransaction(tran *domain.Transaction, log domain.TransactionLog) (*domain.LoggedTransaction, error) {
	logged, ok := log[tran.TransactionID]
	if !ok {
		return nil, domain.ErrUnknownTransactionReference
	}
	if logged.ClientID != tran.ClientID {
		return nil, domain.ErrClientMismatch
	}
	return logged, nil
}

// handleDispute 保留原交易金額，成功後才標記為爭議中
func handleDispute(tran *domain.Transaction, accounts domain.Accounts, log domain.TransactionLog) error {
	logged, err := referencedTransaction(tran, log)
	if err != nil {
		return err
	}
	if logged.Disputed {
		return domain.ErrAlreadyDisputed
	}

	account := accounts.GetOrCreate(logged.ClientID)
	if err := account.DisputeHold(logged.Amount); err != nil {
		return err
	}

	logged.Disputed = true
	return nil
}

// handleResolve 釋放保留金額，交易回到非爭議狀態，可再次被爭議
func handleResolve(tran *domain.Transaction, accounts domain.Accounts, log domain.TransactionLog) error {
	logged, err := referencedTransaction(tran, log)
	if err != nil {
		return err
	}
	if !logged.Disputed {
		return domain.ErrNotDisputed
	}

	account := accounts.GetOrCreate(logged.ClientID)
	if err := account.ResolveRelease(logged.Amount); err != nil {
		return err
	}

	logged.Disputed = false
	return nil
}

// handleChargeback 扣除保留金額並凍結帳戶
// Disputed 保持 true，帳戶已凍結所以不會再有後續交易
func handleChargeback(tran *domain.Transaction, accounts domain.Accounts, log domain.TransactionLog) error {
	logged, err := referencedTransaction(tran, log)
	if err != nil {
		return err
	}
	if !logged.Disputed {
		return domain.ErrNotDisputed
	}

	account := accounts.GetOrCreate(logged.ClientID)
	return account.Chargeback(logged.Amount)
}
