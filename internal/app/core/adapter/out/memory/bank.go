package memory

import (
	"context"

	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
	"github.com/JoeShih716/go-payments-engine/internal/app/core/usecase"
)

// Bank 是單執行緒的記憶體帳本
//
// 結構:
//
//	accounts: 客戶 ID -> 帳戶
//	log: 交易 ID -> 已處理的存款/提款
//	sequence: 已收到的交易數，用來分配 Transaction.Sequence
//
// 所有交易依序在呼叫端的 goroutine 內完成，不需要 Lock
type Bank struct {
	accounts domain.Accounts
	log      domain.TransactionLog
	sequence uint64
}

// NewBank 建立一個空的帳本
func NewBank() *Bank {
	return &Bank{
		accounts: make(domain.Accounts),
		log:      make(domain.TransactionLog),
	}
}

// handler 單一交易類型的處理規則
// 失敗時不得修改 accounts 或 log 的任何既有狀態
type handler func(tran *domain.Transaction, accounts domain.Accounts, log domain.TransactionLog) error

// PostTransaction 處理單筆交易
//
// 參數:
//
//	ctx: 上下文
//	tran: 交易物件
//
// 回傳:
//
//	error: *domain.ProcessError，可用 errors.Is 判斷錯誤種類
func (b *Bank) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	b.sequence++
	tran.Sequence = b.sequence

	var h handler
	switch tran.Type {
	case domain.TransactionTypeDeposit:
		h = handleDeposit
	case domain.TransactionTypeWithdrawal:
		h = handleWithdrawal
	case domain.TransactionTypeDispute:
		h = handleDispute
	case domain.TransactionTypeResolve:
		h = handleResolve
	case domain.TransactionTypeChargeback:
		h = handleChargeback
	default:
		return b.fail(tran, domain.ErrUnknownTransactionType)
	}

	if err := h(tran, b.accounts, b.log); err != nil {
		return b.fail(tran, err)
	}
	return nil
}

func (b *Bank) fail(tran *domain.Transaction, err error) error {
	return &domain.ProcessError{
		Err:           err,
		TransactionID: tran.TransactionID,
		ClientID:      tran.ClientID,
		Type:          tran.Type,
	}
}

// GetAccount 取得指定帳戶的快照
//
// 回傳:
//
//	domain.Account: 帳戶副本
//	error: 帳戶不存在時回傳 domain.ErrAccountNotFound
func (b *Bank) GetAccount(ctx context.Context, clientID uint16) (domain.Account, error) {
	account, ok := b.accounts[clientID]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return *account, nil
}

// LoadAllAccounts 回傳所有帳戶的副本，順序為 map 的迭代順序 (不排序)
func (b *Bank) LoadAllAccounts(ctx context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(b.accounts))
	for _, account := range b.accounts {
		out = append(out, *account)
	}
	return out, nil
}

// LoadTransactionLog 回傳交易紀錄的副本
func (b *Bank) LoadTransactionLog(ctx context.Context) (map[uint32]domain.LoggedTransaction, error) {
	out := make(map[uint32]domain.LoggedTransaction, len(b.log))
	for txID, logged := range b.log {
		out[txID] = *logged
	}
	return out, nil
}

var _ usecase.Ledger = (*Bank)(nil)
