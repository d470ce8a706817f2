package wallet

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrperfect138/TelegramWalletBot/internal/domain"
	"github.com/mrperfect138/TelegramWalletBot/internal/storage"
)

// DefaultHistoryLimit applies when a history query passes a count <= 0.
const DefaultHistoryLimit = 10

// Ledger owns all mutable wallet state: the account map, the append-only
// transaction log and the table of pending transfer requests (at most one
// per sender). A single mutex serializes every operation, so cross-account
// transfers commit atomically and no partial state is ever observable.
type Ledger struct {
	mu       sync.Mutex
	seed     decimal.Decimal
	accounts map[int64]*domain.Account
	txs      []domain.Transaction
	pending  map[int64]domain.PendingTransfer
}

// NewLedger builds an empty ledger. New accounts start with the given
// seed balance.
func NewLedger(seed decimal.Decimal) *Ledger {
	return &Ledger{
		seed:     seed,
		accounts: make(map[int64]*domain.Account),
		pending:  make(map[int64]domain.PendingTransfer),
	}
}

// GetOrCreate returns the account for id, creating it with the seed
// balance on first contact. Display metadata is refreshed from the
// transport on every call; the balance is never touched for an existing
// account. The bool reports whether the account was created.
func (l *Ledger) GetOrCreate(id int64, displayName, handle string) (domain.Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		a = &domain.Account{ID: id, DisplayName: displayName, Handle: handle, Balance: l.seed}
		l.accounts[id] = a
		return *a, true
	}
	if displayName != "" {
		a.DisplayName = displayName
	}
	if handle != "" {
		a.Handle = handle
	}
	return *a, false
}

// Get returns a snapshot of the account or ErrAccountNotFound.
func (l *Ledger) Get(id int64) (domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		return domain.Account{}, ErrAccountNotFound
	}
	return *a, nil
}

// TransferRequest is the outcome of a successful RequestTransfer: the
// captured request plus account snapshots for the confirmation prompt.
type TransferRequest struct {
	Sender      domain.Account
	Recipient   domain.Account
	Amount      decimal.Decimal
	Description string
}

// RequestTransfer validates a transfer and parks it as pending, waiting
// for the sender's confirmation. A prior pending request from the same
// sender is overwritten; only the latest one can be confirmed. On any
// validation failure nothing changes.
func (l *Ledger) RequestTransfer(sender, recipient int64, amount decimal.Decimal, description string) (TransferRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.accounts[sender]
	if !ok {
		return TransferRequest{}, ErrAccountNotFound
	}
	r, ok := l.accounts[recipient]
	if !ok {
		return TransferRequest{}, ErrAccountNotFound
	}
	if sender == recipient {
		return TransferRequest{}, ErrSelfTransfer
	}
	if amount.Sign() <= 0 {
		return TransferRequest{}, ErrInvalidAmount
	}
	if s.Balance.LessThan(amount) {
		return TransferRequest{}, ErrInsufficientFunds
	}

	l.pending[sender] = domain.PendingTransfer{
		Sender:      sender,
		Recipient:   recipient,
		Amount:      amount,
		Description: description,
	}
	return TransferRequest{Sender: *s, Recipient: *r, Amount: amount, Description: description}, nil
}

// HasPending reports whether the sender has a transfer awaiting Y/N.
func (l *Ledger) HasPending(sender int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.pending[sender]
	return ok
}

// Outcome of a resolved confirmation.
type Outcome int

const (
	Committed Outcome = iota
	Cancelled
)

// Resolution reports what happened to a pending transfer. Tx and
// Recipient are only set when the transfer committed; Sender and
// Recipient balances are post-commit snapshots.
type Resolution struct {
	Outcome   Outcome
	Tx        domain.Transaction
	Sender    domain.Account
	Recipient domain.Account
}

// Resolve applies the sender's response to their pending transfer.
// "Y" (any case) re-validates funds and commits: the balance may have
// dropped since the request, in which case the pending entry is cleared
// and ErrInsufficientFunds returned without touching any balance.
// "N" clears the entry. Any other token keeps the entry and returns
// ErrAmbiguousConfirmation so the caller can re-prompt.
func (l *Ledger) Resolve(sender int64, response string) (Resolution, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.pending[sender]
	if !ok {
		return Resolution{}, ErrNoPendingTransfer
	}

	switch strings.ToUpper(strings.TrimSpace(response)) {
	case "Y":
		tx, err := l.execute(p.Sender, p.Recipient, p.Amount, p.Description)
		delete(l.pending, sender)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{
			Outcome:   Committed,
			Tx:        tx,
			Sender:    *l.accounts[p.Sender],
			Recipient: *l.accounts[p.Recipient],
		}, nil
	case "N":
		delete(l.pending, sender)
		return Resolution{Outcome: Cancelled, Sender: *l.accounts[sender]}, nil
	default:
		return Resolution{}, ErrAmbiguousConfirmation
	}
}

// Execute moves funds immediately, bypassing the confirmation step.
// Used programmatically and by Resolve after a "Y".
func (l *Ledger) Execute(sender, recipient int64, amount decimal.Decimal, description string) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.execute(sender, recipient, amount, description)
}

// execute does the actual commit. Caller must hold l.mu. All checks run
// before the first mutation: a failed transfer leaves balances and the
// log untouched.
func (l *Ledger) execute(sender, recipient int64, amount decimal.Decimal, description string) (domain.Transaction, error) {
	s, ok := l.accounts[sender]
	if !ok {
		return domain.Transaction{}, ErrAccountNotFound
	}
	r, ok := l.accounts[recipient]
	if !ok {
		return domain.Transaction{}, ErrAccountNotFound
	}
	if sender == recipient {
		return domain.Transaction{}, ErrSelfTransfer
	}
	if amount.Sign() <= 0 {
		return domain.Transaction{}, ErrInvalidAmount
	}
	if s.Balance.LessThan(amount) {
		return domain.Transaction{}, ErrInsufficientFunds
	}

	s.Balance = s.Balance.Sub(amount)
	r.Balance = r.Balance.Add(amount)

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		FromAccount: sender,
		ToAccount:   recipient,
		Amount:      amount,
		Timestamp:   time.Now().UTC(),
		Description: description,
	}
	l.txs = append(l.txs, tx)
	return tx, nil
}

// History returns the most recent transactions involving the account,
// newest first, at most limit entries.
func (l *Ledger) History(id int64, limit int) []domain.Transaction {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Transaction, 0, limit)
	// The log is in commit order, so walking backwards yields newest first.
	for i := len(l.txs) - 1; i >= 0 && len(out) < limit; i-- {
		t := l.txs[i]
		if t.FromAccount == id || t.ToAccount == id {
			out = append(out, t)
		}
	}
	return out
}

// TotalCirculation sums every account balance. Transfers are zero-sum,
// so this always equals the total seed amount issued.
func (l *Ledger) TotalCirculation() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for _, a := range l.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// Snapshot copies accounts and the transaction log out for persistence.
// Pending transfers are not included; they do not survive a restart.
func (l *Ledger) Snapshot() storage.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := storage.Snapshot{
		Accounts:     make(map[int64]storage.AccountRecord, len(l.accounts)),
		Transactions: make([]storage.TransactionRecord, 0, len(l.txs)),
	}
	for id, a := range l.accounts {
		snap.Accounts[id] = storage.AccountRecord{
			ID:          a.ID,
			DisplayName: a.DisplayName,
			Handle:      a.Handle,
			Balance:     a.Balance,
		}
	}
	for _, t := range l.txs {
		snap.Transactions = append(snap.Transactions, storage.TransactionRecord{
			ID:          t.ID,
			FromAccount: t.FromAccount,
			ToAccount:   t.ToAccount,
			Amount:      t.Amount,
			Timestamp:   t.Timestamp,
			Description: t.Description,
		})
	}
	return snap
}

// Restore replaces the ledger state from a snapshot. Called once at
// startup, before the first update is processed.
func (l *Ledger) Restore(snap storage.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = make(map[int64]*domain.Account, len(snap.Accounts))
	for id, rec := range snap.Accounts {
		l.accounts[id] = &domain.Account{
			ID:          rec.ID,
			DisplayName: rec.DisplayName,
			Handle:      rec.Handle,
			Balance:     rec.Balance,
		}
	}
	l.txs = make([]domain.Transaction, 0, len(snap.Transactions))
	for _, rec := range snap.Transactions {
		l.txs = append(l.txs, domain.Transaction{
			ID:          rec.ID,
			FromAccount: rec.FromAccount,
			ToAccount:   rec.ToAccount,
			Amount:      rec.Amount,
			Timestamp:   rec.Timestamp,
			Description: rec.Description,
		})
	}
	l.pending = make(map[int64]domain.PendingTransfer)
}
