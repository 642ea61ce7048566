package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord 輸入列無法解析成交易
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnknownTransactionType 無法識別的交易類型
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrDuplicateTransaction 交易 ID 已存在於交易紀錄
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrMissingAmount 存款/提款缺少金額
	ErrMissingAmount = errors.New("missing amount")

	// ErrAccountLocked 帳戶已凍結
	ErrAccountLocked = errors.New("account locked")

	// ErrInsufficientFunds 可用餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnknownTransactionReference 參照的交易不存在
	ErrUnknownTransactionReference = errors.New("unknown transaction reference")

	// ErrClientMismatch 客戶 ID 與原交易不符
	ErrClientMismatch = errors.New("client mismatch")

	// ErrAlreadyDisputed 交易已在爭議中
	ErrAlreadyDisputed = errors.New("transaction already disputed")

	// ErrNotDisputed 交易不在爭議中
	ErrNotDisputed = errors.New("transaction not disputed")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAmountOutOfRange 金額超出可表示範圍
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// kinds 依序比對，第一個符合的就是錯誤種類
var kinds = []error{
	ErrMalformedRecord,
	ErrUnknownTransactionType,
	ErrDuplicateTransaction,
	ErrMissingAmount,
	ErrAccountLocked,
	ErrInsufficientFunds,
	ErrUnknownTransactionReference,
	ErrClientMismatch,
	ErrAlreadyDisputed,
	ErrNotDisputed,
}

// ErrorKind 回傳錯誤對應的 sentinel 名稱，供 log 使用
func ErrorKind(err error) string {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "unknown"
}

// ProcessError 單筆交易處理失敗，帶上交易上下文
type ProcessError struct {
	Err           error
	TransactionID uint32
	ClientID      uint16
	Type          TransactionType
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("[%s] transaction %d (client %d): %v", e.Type, e.TransactionID, e.ClientID, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
