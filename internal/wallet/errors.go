// Package wallet holds the ledger: accounts, the transaction log and
// pending transfer requests. All balance invariants are enforced here;
// text formatting lives in internal/bot.
package wallet

import "errors"

// Domain errors. The command router turns these into user-facing replies;
// none of them is fatal to the process.
var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrSelfTransfer          = errors.New("sender and recipient are the same account")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrNoPendingTransfer     = errors.New("no pending transfer")
	ErrAmbiguousConfirmation = errors.New("response must be Y or N")
)
