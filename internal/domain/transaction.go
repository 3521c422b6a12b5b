package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one observed charge from a statement export.
// It is immutable once ingested; downstream stages only read, group and
// filter transactions, they never rewrite them.
type Transaction struct {
	Date     time.Time       // when the charge occurred
	Merchant string          // opaque merchant identifier, compared exactly
	Amount   decimal.Decimal // signed, currency-less
	Index    int             // position in the input, tie-break for same-date charges
}

// HikeEvent is a derived fact: a recurring merchant charged strictly more
// than it did the time before. Delta is always NewAmount - PreviousAmount
// and always positive. Events live only for the duration of one analysis;
// nothing persists them.
type HikeEvent struct {
	Merchant       string          `json:"merchant"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	NewAmount      decimal.Decimal `json:"new_amount"`
	Delta          decimal.Decimal `json:"delta"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
