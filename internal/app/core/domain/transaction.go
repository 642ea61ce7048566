package domain

import "strings"

// TransactionType 交易類型
// 為了極致節省記憶體，使用 uint8
type TransactionType uint8

const (
	// 無法識別
	TransactionTypeUnknown TransactionType = iota
	// 存款
	TransactionTypeDeposit
	// 提款
	TransactionTypeWithdrawal
	// 爭議
	TransactionTypeDispute
	// 解除爭議
	TransactionTypeResolve
	// 退單
	TransactionTypeChargeback
)

var transactionTypeNames = map[TransactionType]string{
	TransactionTypeDeposit:    "deposit",
	TransactionTypeWithdrawal: "withdrawal",
	TransactionTypeDispute:    "dispute",
	TransactionTypeResolve:    "resolve",
	TransactionTypeChargeback: "chargeback",
}

// ParseTransactionType 不分大小寫解析交易類型，無法識別時回傳 TransactionTypeUnknown
func ParseTransactionType(s string) TransactionType {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range transactionTypeNames {
		if n == name {
			return t
		}
	}
	return TransactionTypeUnknown
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Transaction 一筆輸入交易 注意欄位排序以避免 Padding
type Transaction struct {
	// Sequence: 輸入順序號 (由帳本分配，1, 2, 3...)
	Sequence uint64
	// Amount: 只有存款/提款需要，爭議類交易會忽略
	Amount *Amount
	// TransactionID: 存款/提款全域唯一；爭議類交易則是參照的交易 ID
	TransactionID uint32
	// ClientID: 客戶 ID
	ClientID uint16
	// Type: 放到最後面，利用 Padding 空間
	Type TransactionType
}

// LoggedTransaction 已處理的存款/提款，供之後的爭議流程參照
// 不保留 tx，因為 TransactionLog 以 tx 為 key
type LoggedTransaction struct {
	Amount   Amount
	ClientID uint16
	Disputed bool
}

// NewLoggedTransaction 將交易轉為紀錄，缺少金額時回傳 ErrMissingAmount
func NewLoggedTransaction(tran *Transaction) (*LoggedTransaction, error) {
	if tran.Amount == nil {
		return nil, ErrMissingAmount
	}
	return &LoggedTransaction{
		Amount:   *tran.Amount,
		ClientID: tran.ClientID,
	}, nil
}

// TransactionLog 交易 ID -> 已處理的交易
type TransactionLog map[uint32]*LoggedTransaction
