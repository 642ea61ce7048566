package report

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
	"github.com/JoeShih716/go-payments-engine/internal/app/core/usecase"
)

// Header 輸出的標題列
const Header = "client, available, held, total, locked"

// Writer 以表格輸出帳戶最終狀態
type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteSnapshot 依傳入順序輸出每個帳戶，金額固定 4 位小數
func (w *Writer) WriteSnapshot(ctx context.Context, accounts []domain.Account, _ map[uint32]domain.LoggedTransaction) error {
	bw := bufio.NewWriter(w.out)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}
	for _, account := range accounts {
		if _, err := fmt.Fprintf(bw, "%d, %s, %s, %s, %t\n",
			account.ClientID,
			account.Available,
			account.Held,
			account.Total(),
			account.Locked,
		); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

var _ usecase.SnapshotSink = (*Writer)(nil)
