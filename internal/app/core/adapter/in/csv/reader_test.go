package csv

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
)

// readAll 讀出所有交易，malformed 的列另外計數
func readAll(t *testing.T, r *Reader) ([]*domain.Transaction, int) {
	t.Helper()
	var trans []*domain.Transaction
	malformed := 0
	for {
		tran, err := r.Next()
		if err == io.EOF {
			return trans, malformed
		}
		if err != nil {
			require.ErrorIs(t, err, domain.ErrMalformedRecord)
			malformed++
			continue
		}
		trans = append(trans, tran)
	}
}

func newReader(t *testing.T, input string) *Reader {
	t.Helper()
	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	return r
}

func TestReader_Basic(t *testing.T) {
	r := newReader(t, "type, client, tx, amount\n"+
		"deposit, 1, 1, 1.0\n"+
		"withdrawal,2,5,0.55555\n"+
		"dispute, 1, 1,\n"+
		"resolve, 1, 1\n")

	trans, malformed := readAll(t, r)
	assert.Zero(t, malformed)
	require.Len(t, trans, 4)

	assert.Equal(t, domain.TransactionTypeDeposit, trans[0].Type)
	assert.Equal(t, uint16(1), trans[0].ClientID)
	assert.Equal(t, uint32(1), trans[0].TransactionID)
	require.NotNil(t, trans[0].Amount)
	assert.Equal(t, "1.0000", trans[0].Amount.String())

	assert.Equal(t, domain.TransactionTypeWithdrawal, trans[1].Type)
	assert.Equal(t, uint16(2), trans[1].ClientID)
	assert.Equal(t, "0.5555", trans[1].Amount.String())

	assert.Equal(t, domain.TransactionTypeDispute, trans[2].Type)
	assert.Nil(t, trans[2].Amount)
	assert.Equal(t, domain.TransactionTypeResolve, trans[3].Type)
	assert.Nil(t, trans[3].Amount)
}

func TestReader_Capitalization(t *testing.T) {
	r := newReader(t, "Type,Client,TX,Amount\nDEPOSIT,1,1,1\nDePosit,1,2,1\ndeposit,1,3,1\n")
	trans, _ := readAll(t, r)
	require.Len(t, trans, 3)
	for _, tran := range trans {
		assert.Equal(t, domain.TransactionTypeDeposit, tran.Type)
	}
}

func TestReader_ColumnOrderAndMissingAmountColumn(t *testing.T) {
	r := newReader(t, "tx,client,type\n7,3,chargeback\n")
	trans, malformed := readAll(t, r)
	assert.Zero(t, malformed)
	require.Len(t, trans, 1)
	assert.Equal(t, domain.Transaction{Type: domain.TransactionTypeChargeback, ClientID: 3, TransactionID: 7}, *trans[0])
}

func TestReader_UnknownTypeIsNotMalformed(t *testing.T) {
	r := newReader(t, "type,client,tx,amount\ntransfer,1,1,1.0\n")
	trans, malformed := readAll(t, r)
	assert.Zero(t, malformed)
	require.Len(t, trans, 1)
	assert.Equal(t, domain.TransactionTypeUnknown, trans[0].Type)
}

func TestReader_MalformedRows(t *testing.T) {
	r := newReader(t, "type,client,tx,amount\n"+
		"deposit,70000,1,1.0\n"+ // client 超出 uint16
		"deposit,1,-1,1.0\n"+
		"deposit,1,4294967296,1.0\n"+ // tx 超出 uint32
		"deposit,1,2,abc\n"+
		"deposit,1,6,1e4000000\n"+ // 指數過大，直接判定超出範圍
		"deposit,,3,1.0\n"+
		"deposit\n"+
		",1,4,1.0\n"+
		"deposit,1,5,2.5\n")

	trans, malformed := readAll(t, r)
	assert.Equal(t, 8, malformed)
	require.Len(t, trans, 1)
	assert.Equal(t, uint32(5), trans[0].TransactionID)
	assert.Equal(t, "2.5000", trans[0].Amount.String())
}

func TestReader_MalformedErrorCarriesLine(t *testing.T) {
	r := newReader(t, "type,client,tx,amount\ndeposit,1,1,1\ndeposit,x,2,1\n")
	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.ErrorIs(t, err, domain.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 3")
}

func TestReader_MissingRequiredColumn(t *testing.T) {
	r := newReader(t, "type,tx,amount\ndeposit,1,1.0\n")
	trans, malformed := readAll(t, r)
	assert.Empty(t, trans)
	assert.Equal(t, 1, malformed)
}

func TestReader_Empty(t *testing.T) {
	r := newReader(t, "")
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)

	r = newReader(t, "type,client,tx,amount\n")
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte("type,client,tx,amount\ndeposit,1,1,3.2345\n"), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	trans, _ := readAll(t, r)
	require.Len(t, trans, 1)
	assert.Equal(t, "3.2345", trans[0].Amount.String())
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
