package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層
type CoreUseCase struct {
	ledger  Ledger
	logger  *zap.Logger
	journal Journal
	// 同一個 journal 檔會累積多次執行，用 runID 區分
	runID string
}

// Option 設定 CoreUseCase 的選項
type Option func(*CoreUseCase)

// WithJournal 每筆成功套用的交易都寫入 journal
func WithJournal(journal Journal) Option {
	return func(c *CoreUseCase) {
		c.journal = journal
	}
}

// WithRunID 在每筆 journal 紀錄標上這次執行的 ID
func WithRunID(id uuid.UUID) Option {
	return func(c *CoreUseCase) {
		c.runID = id.String()
	}
}

func NewCoreUseCase(ledger Ledger, logger *zap.Logger, opts ...Option) *CoreUseCase {
	c := &CoreUseCase{
		ledger: ledger,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Stats 一次執行的統計
type Stats struct {
	Read      int
	Applied   int
	Rejected  int
	Malformed int
	// 以錯誤種類統計被拒絕的交易
	RejectedByKind map[string]int
}

// JournalEntry 寫入 journal 的一筆紀錄
type JournalEntry struct {
	RunID         string  `json:"run_id,omitempty"`
	Sequence      uint64  `json:"seq"`
	Type          string  `json:"type"`
	ClientID      uint16  `json:"client"`
	TransactionID uint32  `json:"tx"`
	Amount        *string `json:"amount,omitempty"`
}

func newJournalEntry(runID string, tran *domain.Transaction) JournalEntry {
	entry := JournalEntry{
		RunID:         runID,
		Sequence:      tran.Sequence,
		Type:          tran.Type.String(),
		ClientID:      tran.ClientID,
		TransactionID: tran.TransactionID,
	}
	// 爭議類交易的金額不會被使用，不寫入
	if tran.Amount != nil && (tran.Type == domain.TransactionTypeDeposit || tran.Type == domain.TransactionTypeWithdrawal) {
		s := tran.Amount.String()
		entry.Amount = &s
	}
	return entry
}

// Run 依序讀取並套用所有交易
// 單筆交易失敗不會中斷執行，只有 source 的 I/O 錯誤會回傳
//
// 參數:
//
//	ctx: 上下文
//	source: 交易來源
//
// 回傳:
//
//	Stats: 執行統計
//	error: 讀取來源失敗
func (c *CoreUseCase) Run(ctx context.Context, source RecordSource) (Stats, error) {
	stats := Stats{RejectedByKind: make(map[string]int)}
	for {
		tran, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, domain.ErrMalformedRecord) {
				stats.Malformed++
				c.logger.Warn("skipping malformed record", zap.Error(err))
				continue
			}
			return stats, fmt.Errorf("read transactions: %w", err)
		}

		stats.Read++
		if err := c.PostTransaction(ctx, tran); err != nil {
			kind := domain.ErrorKind(err)
			stats.Rejected++
			stats.RejectedByKind[kind]++
			c.logger.Warn("transaction rejected, skipping",
				zap.String("kind", kind),
				zap.String("type", tran.Type.String()),
				zap.Uint32("tx", tran.TransactionID),
				zap.Uint16("client", tran.ClientID),
				zap.Error(err),
			)
			continue
		}
		stats.Applied++
	}

	c.logger.Info("transactions processed",
		zap.Int("read", stats.Read),
		zap.Int("applied", stats.Applied),
		zap.Int("rejected", stats.Rejected),
		zap.Int("malformed", stats.Malformed),
		zap.Any("rejected_by_kind", stats.RejectedByKind),
	)
	return stats, nil
}

// PostTransaction 處理單筆交易，成功後寫入 journal
func (c *CoreUseCase) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	if err := c.ledger.PostTransaction(ctx, tran); err != nil {
		return err
	}

	if c.journal != nil {
		// 帳本狀態已經更新，journal 失敗只記錄不回滾
		if err := c.journal.Write(newJournalEntry(c.runID, tran)); err != nil {
			c.logger.Error("failed to write journal",
				zap.Uint64("seq", tran.Sequence),
				zap.Uint32("tx", tran.TransactionID),
				zap.Error(err),
			)
		}
	}

	// 取得最新餘額 (Best Effort)，只在 debug 開啟時查詢
	if c.logger.Core().Enabled(zapcore.DebugLevel) {
		c.logAppliedBalance(ctx, tran)
	}
	return nil
}

func (c *CoreUseCase) logAppliedBalance(ctx context.Context, tran *domain.Transaction) {
	account, err := c.ledger.GetAccount(ctx, tran.ClientID)
	if err != nil {
		c.logger.Debug("failed to load account after apply",
			zap.Uint16("client", tran.ClientID),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("transaction applied",
		zap.Uint64("seq", tran.Sequence),
		zap.String("type", tran.Type.String()),
		zap.Uint32("tx", tran.TransactionID),
		zap.Uint16("client", tran.ClientID),
		zap.Stringer("available", account.Available),
		zap.Stringer("held", account.Held),
		zap.Bool("locked", account.Locked),
	)
}

// Publish 將最終狀態送到每一個 sink，任一失敗即回傳
func (c *CoreUseCase) Publish(ctx context.Context, sinks ...SnapshotSink) error {
	accounts, err := c.ledger.LoadAllAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	log, err := c.ledger.LoadTransactionLog(ctx)
	if err != nil {
		return fmt.Errorf("load transaction log: %w", err)
	}

	for _, sink := range sinks {
		if err := sink.WriteSnapshot(ctx, accounts, log); err != nil {
			return err
		}
	}
	return nil
}
