package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// The bot runs a single fun currency.
const (
	CurrencyName   = "Zephyr"
	CurrencySymbol = "✦"
)

type Account struct {
	ID          int64
	DisplayName string
	Handle      string
	Balance     decimal.Decimal
}

type Transaction struct {
	ID          string
	FromAccount int64
	ToAccount   int64
	Amount      decimal.Decimal
	Timestamp   time.Time
	Description string
}

// PendingTransfer is a transfer request waiting for the sender's Y/N.
// Lives in memory only; a restart drops it.
type PendingTransfer struct {
	Sender      int64
	Recipient   int64
	Amount      decimal.Decimal
	Description string
}
