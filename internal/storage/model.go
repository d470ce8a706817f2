// Package storage persists the ledger as two JSON documents
// (users.json, transactions.json) in a GitHub gist. It only handles
// serialization and I/O; business rules stay in internal/wallet.
package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRecord is the persisted form of an account.
type AccountRecord struct {
	ID          int64           `json:"id"`
	DisplayName string          `json:"displayName"`
	Handle      string          `json:"handle"`
	Balance     decimal.Decimal `json:"balance"`
}

// TransactionRecord is the persisted form of a committed transfer.
// Timestamps are RFC 3339 UTC.
type TransactionRecord struct {
	ID          string          `json:"id"`
	FromAccount int64           `json:"fromAccount"`
	ToAccount   int64           `json:"toAccount"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description"`
}

// Snapshot is the full persisted state. Accounts marshal as an object
// keyed by the decimal account id; transactions keep commit order.
// Pending transfer requests are deliberately absent.
type Snapshot struct {
	Accounts     map[int64]AccountRecord
	Transactions []TransactionRecord
}
