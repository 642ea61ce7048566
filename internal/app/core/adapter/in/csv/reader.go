package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
	"github.com/JoeShih716/go-payments-engine/internal/app/core/usecase"
)

const (
	columnType   = "type"
	columnClient = "client"
	columnTx     = "tx"
	columnAmount = "amount"
)

// Reader 從 CSV 逐筆讀出交易
// 依照標題列找欄位，欄位順序不限、amount 欄可省略
type Reader struct {
	r       *stdcsv.Reader
	closer  io.Closer
	columns map[string]int
}

// Open 開啟 CSV 檔案，檔案無法開啟時回傳錯誤
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transactions file: %w", err)
	}
	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.closer = file
	return reader, nil
}

// NewReader 讀取標題列並建立 Reader
// 空的輸入不是錯誤，Next 會直接回傳 io.EOF
func NewReader(r io.Reader) (*Reader, error) {
	cr := stdcsv.NewReader(r)
	// 允許每列欄位數不同 (e.g. dispute 沒有 amount)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	reader := &Reader{
		r:       cr,
		columns: make(map[string]int),
	}

	header, err := cr.Read()
	if err == io.EOF {
		return reader, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := reader.columns[name]; !ok {
			reader.columns[name] = i
		}
	}
	return reader, nil
}

// Next 讀取下一筆交易
//
// 回傳:
//
//	*domain.Transaction: 交易
//	error: 讀完回傳 io.EOF；無法解析的列回傳包含 domain.ErrMalformedRecord 的錯誤
func (r *Reader) Next() (*domain.Transaction, error) {
	record, err := r.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var parseErr *stdcsv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
		}
		return nil, err
	}

	line, _ := r.r.FieldPos(0)
	tran, err := r.parse(record)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedRecord, line, err)
	}
	return tran, nil
}

// Close 關閉底層檔案
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) field(record []string, name string) (string, bool) {
	i, ok := r.columns[name]
	if !ok || i >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[i]), true
}

func (r *Reader) required(record []string, name string) (string, error) {
	value, ok := r.field(record, name)
	if !ok || value == "" {
		return "", fmt.Errorf("missing field %q", name)
	}
	return value, nil
}

func (r *Reader) parse(record []string) (*domain.Transaction, error) {
	rawType, err := r.required(record, columnType)
	if err != nil {
		return nil, err
	}
	rawClient, err := r.required(record, columnClient)
	if err != nil {
		return nil, err
	}
	rawTx, err := r.required(record, columnTx)
	if err != nil {
		return nil, err
	}

	client, err := strconv.ParseUint(rawClient, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid client %q: %w", rawClient, err)
	}
	tx, err := strconv.ParseUint(rawTx, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid tx %q: %w", rawTx, err)
	}

	tran := &domain.Transaction{
		Type:          domain.ParseTransactionType(rawType),
		ClientID:      uint16(client),
		TransactionID: uint32(tx),
	}

	// 金額在進入系統時就截斷精度
	if rawAmount, ok := r.field(record, columnAmount); ok && rawAmount != "" {
		amount, err := domain.ParseAmount(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		tran.Amount = &amount
	}
	return tran, nil
}

var _ usecase.RecordSource = (*Reader)(nil)
