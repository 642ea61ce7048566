package mysql

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
	"github.com/JoeShih716/go-payments-engine/internal/app/core/usecase"
	"github.com/JoeShih716/go-payments-engine/pkg/mysql"
)

// 每批寫入的筆數
const batchSize = 500

// sqlAccountSnapshot 對應資料庫的 account_snapshots 表
// 金額以 1/10000 為單位存 int64
type sqlAccountSnapshot struct {
	RunID     []byte `gorm:"column:run_id;type:binary(16);primaryKey"`
	ClientID  uint16 `gorm:"column:client_id;primaryKey;autoIncrement:false"`
	Available int64
	Held      int64
	Total     int64
	Locked    bool
	CreatedAt int64 `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlAccountSnapshot) TableName() string {
	return "account_snapshots"
}

// sqlTransactionSnapshot 對應資料庫的 transaction_snapshots 表
type sqlTransactionSnapshot struct {
	RunID         []byte `gorm:"column:run_id;type:binary(16);primaryKey"`
	TransactionID uint32 `gorm:"column:tx_id;primaryKey;autoIncrement:false"`
	ClientID      uint16 `gorm:"index"`
	Amount        int64
	Disputed      bool
	CreatedAt     int64 `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlTransactionSnapshot) TableName() string {
	return "transaction_snapshots"
}

// SnapshotExporter 將一次執行的最終狀態寫入 MySQL
// 只寫不讀，每次執行以 runID 區分
type SnapshotExporter struct {
	client *mysql.Client
	runID  uuid.UUID
}

func NewSnapshotExporter(client *mysql.Client, runID uuid.UUID) *SnapshotExporter {
	return &SnapshotExporter{
		client: client,
		runID:  runID,
	}
}

// Migrate 建立/更新資料表
func (e *SnapshotExporter) Migrate(ctx context.Context) error {
	return e.client.DB(ctx).AutoMigrate(&sqlAccountSnapshot{}, &sqlTransactionSnapshot{})
}

// WriteSnapshot 在同一個 Transaction 內寫入帳戶與交易紀錄
// 重複匯出同一個 runID 會覆蓋舊資料
func (e *SnapshotExporter) WriteSnapshot(ctx context.Context, accounts []domain.Account, log map[uint32]domain.LoggedTransaction) error {
	accountRows := toAccountRows(e.runID, accounts)
	transactionRows := toTransactionRows(e.runID, log)

	return e.client.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if len(accountRows) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				CreateInBatches(accountRows, batchSize).Error; err != nil {
				return err
			}
		}
		if len(transactionRows) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				CreateInBatches(transactionRows, batchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func toAccountRows(runID uuid.UUID, accounts []domain.Account) []sqlAccountSnapshot {
	rows := make([]sqlAccountSnapshot, 0, len(accounts))
	for _, account := range accounts {
		rows = append(rows, sqlAccountSnapshot{
			RunID:     runID[:],
			ClientID:  account.ClientID,
			Available: int64(account.Available),
			Held:      int64(account.Held),
			Total:     int64(account.Total()),
			Locked:    account.Locked,
		})
	}
	return rows
}

// toTransactionRows 依 tx 排序，讓批次寫入的順序固定
func toTransactionRows(runID uuid.UUID, log map[uint32]domain.LoggedTransaction) []sqlTransactionSnapshot {
	rows := make([]sqlTransactionSnapshot, 0, len(log))
	for txID, logged := range log {
		rows = append(rows, sqlTransactionSnapshot{
			RunID:         runID[:],
			TransactionID: txID,
			ClientID:      logged.ClientID,
			Amount:        int64(logged.Amount),
			Disputed:      logged.Disputed,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TransactionID < rows[j].TransactionID
	})
	return rows
}

var _ usecase.SnapshotSink = (*SnapshotExporter)(nil)
