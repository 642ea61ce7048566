package usecase

import (
	"context"

	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
type Ledger interface {
	// 不分 Deposit/Withdrawal/Dispute...，直接看 tran.Type 決定
	PostTransaction(ctx context.Context, tran *domain.Transaction) error
	// GetAccount 取得帳戶快照
	GetAccount(ctx context.Context, clientID uint16) (domain.Account, error)
	// LoadAllAccounts 載入所有帳戶快照
	LoadAllAccounts(ctx context.Context) ([]domain.Account, error)
	// LoadTransactionLog 載入所有已記錄交易的快照
	LoadTransactionLog(ctx context.Context) (map[uint32]domain.LoggedTransaction, error)
}

// RecordSource 逐筆提供輸入交易
// 讀完回傳 io.EOF；無法解析的列回傳包含 domain.ErrMalformedRecord 的錯誤，可繼續讀下一筆
type RecordSource interface {
	Next() (*domain.Transaction, error)
}

// Journal 記錄已套用的交易
type Journal interface {
	Write(v any) error
}

// SnapshotSink 接收最終的帳戶狀態
type SnapshotSink interface {
	WriteSnapshot(ctx context.Context, accounts []domain.Account, log map[uint32]domain.LoggedTransaction) error
}
