package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// amount 使用int64，並定義精度：小數點後 4 位
const (
	CurrencyScale = 10000
	// CurrencyPlaces 對應 CurrencyScale 的小數位數
	CurrencyPlaces = 4
)

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// Amount 以 1/10000 為單位的定點金額
type Amount int64

// 整數位數的上限，超過時一定超出 int64 範圍 (int64 最多 19 位)
const maxIntegerDigits = 19

// Clamp 將原始小數往負無限大方向截斷到小數點後第 4 位
// 0.55555 -> 0.5555, -0.00001 -> -0.0001
//
// 參數:
//
//	raw: 原始金額
//
// 回傳:
//
//	Amount: 截斷後的金額
//	error: 超出 int64 範圍時回傳 ErrAmountOutOfRange
func Clamp(raw decimal.Decimal) (Amount, error) {
	if raw.IsZero() {
		return 0, nil
	}

	// 先用位數判斷量級，避免 1e4000000 這種輸入展開成巨大的 big.Int
	magnitude := int64(raw.NumDigits()) + int64(raw.Exponent())
	if magnitude > maxIntegerDigits {
		return 0, ErrAmountOutOfRange
	}
	if magnitude <= -CurrencyPlaces {
		// |raw| < 0.0001
		if raw.Sign() < 0 {
			return -1, nil
		}
		return 0, nil
	}

	units := raw.Shift(CurrencyPlaces).Floor()
	if units.GreaterThan(maxAmount) || units.LessThan(minAmount) {
		return 0, ErrAmountOutOfRange
	}
	return Amount(units.IntPart()), nil
}

// ParseAmount 解析字串金額並截斷精度
func ParseAmount(s string) (Amount, error) {
	raw, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	amount, err := Clamp(raw)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return amount, nil
}

// Decimal 轉回 decimal.Decimal
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -CurrencyPlaces)
}

// String 固定輸出 4 位小數
func (a Amount) String() string {
	return a.Decimal().StringFixed(CurrencyPlaces)
}
