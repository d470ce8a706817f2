package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mrperfect138/TelegramWalletBot/internal/wallet"
)

const maxHistoryCount = 50

// Router maps inbound commands onto ledger operations and formats the
// replies. It knows nothing about Telegram, which keeps it testable
// without the transport.
type Router struct {
	ledger       *wallet.Ledger
	historyLimit int
}

func NewRouter(ledger *wallet.Ledger, historyLimit int) *Router {
	if historyLimit <= 0 {
		historyLimit = wallet.DefaultHistoryLimit
	}
	return &Router{ledger: ledger, historyLimit: historyLimit}
}

// Notification is a message for some other account, delivered by the
// transport as a DM on a best-effort basis.
type Notification struct {
	AccountID int64
	Text      string
}

// Reply is the outcome of one dispatched message. Mutated tells the
// transport that persistent state changed and a save is due.
type Reply struct {
	Text     string
	Markdown bool
	Mutated  bool
	Notify   *Notification
}

// Dispatch processes one inbound message. The account is created on
// first contact. While the sender has a transfer awaiting confirmation,
// the whole message is treated as the Y/N response, ahead of any
// command parsing.
func (r *Router) Dispatch(accountID int64, displayName, handle, text string) Reply {
	acct, created := r.ledger.GetOrCreate(accountID, displayName, handle)

	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{Mutated: created}
	}

	if r.ledger.HasPending(accountID) {
		rep := r.resolvePending(accountID, text)
		rep.Mutated = rep.Mutated || created
		return rep
	}

	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])
	// Telegram appends @botname in group-style mentions.
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}
	args := fields[1:]

	rep := Reply{Mutated: created}
	switch command {
	case "/start":
		rep.Text = startText
		rep.Markdown = true
	case "/help":
		rep.Text = helpText
		rep.Markdown = true
	case "/balance":
		rep.Text = fmt.Sprintf("💳 *Your Balance:* %s", formatBalance(acct.Balance))
		rep.Markdown = true
	case "/profile":
		rep.Text = formatProfile(acct)
	case "/pool":
		rep.Text = fmt.Sprintf("💰 Total Zephyr in circulation: %s", formatAmount(r.ledger.TotalCirculation()))
	case "/transfer":
		rep = r.transfer(accountID, args)
		rep.Mutated = rep.Mutated || created
	case "/history":
		rep.Text = r.history(accountID, args)
	default:
		rep.Text = "❌ Unknown command. Use /help for available commands."
	}
	return rep
}

// transfer validates arguments before the ledger sees them, then parks
// the request pending the sender's confirmation.
func (r *Router) transfer(accountID int64, args []string) Reply {
	if len(args) < 2 {
		return Reply{
			Text:     "❌ Usage: `/transfer <recipientId> <amount> [description]`\nExample: `/transfer 123456 50 lunch`",
			Markdown: true,
		}
	}

	recipientID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return Reply{Text: "❌ Recipient must be a numeric account id."}
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil || amount.Sign() <= 0 {
		return Reply{Text: "❌ Please enter a valid amount (greater than 0)."}
	}
	description := strings.Join(args[2:], " ")

	req, err := r.ledger.RequestTransfer(accountID, recipientID, amount, description)
	switch {
	case errors.Is(err, wallet.ErrAccountNotFound):
		return Reply{Text: fmt.Sprintf("❌ Account %d not found. The recipient must message the bot first.", recipientID)}
	case errors.Is(err, wallet.ErrSelfTransfer):
		return Reply{Text: "❌ You cannot send Zephyr to yourself."}
	case errors.Is(err, wallet.ErrInvalidAmount):
		return Reply{Text: "❌ Please enter a valid amount (greater than 0)."}
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return Reply{Text: "❌ Insufficient funds!"}
	case err != nil:
		return Reply{Text: "❌ Transfer failed. Please try again."}
	}

	desc := req.Description
	if desc == "" {
		desc = "(none)"
	}
	return Reply{
		Text: fmt.Sprintf(
			"🔁 *Transfer request*\nTo: %s\nAmount: %s\nDescription: %s\n\nReply *Y* to confirm or *N* to cancel.",
			displayAccount(req.Recipient), formatAmount(req.Amount), desc),
		Markdown: true,
	}
}

// resolvePending turns the sender's free-form response into a commit or
// a cancellation.
func (r *Router) resolvePending(accountID int64, response string) Reply {
	res, err := r.ledger.Resolve(accountID, response)
	switch {
	case errors.Is(err, wallet.ErrAmbiguousConfirmation):
		return Reply{Text: "Please reply Y to confirm or N to cancel the transfer."}
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return Reply{Text: "❌ Insufficient funds! The transfer was cancelled."}
	case err != nil:
		return Reply{Text: "❌ The transfer could not be completed and was cancelled."}
	}

	switch res.Outcome {
	case wallet.Committed:
		desc := res.Tx.Description
		if desc == "" {
			desc = "(none)"
		}
		return Reply{
			Text:    fmt.Sprintf("✅ Sent %s to %s\nDescription: %s", formatAmount(res.Tx.Amount), displayAccount(res.Recipient), desc),
			Mutated: true,
			Notify: &Notification{
				AccountID: res.Recipient.ID,
				Text: fmt.Sprintf("💰 You received %s from %s!\nNew balance: %s",
					formatAmount(res.Tx.Amount), displayAccount(res.Sender), formatBalance(res.Recipient.Balance)),
			},
		}
	default:
		return Reply{Text: "🚫 Transfer cancelled."}
	}
}

func (r *Router) history(accountID int64, args []string) string {
	limit := r.historyLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "❌ Usage: /history [count]"
		}
		limit = n
	}
	if limit > maxHistoryCount {
		limit = maxHistoryCount
	}

	txs := r.ledger.History(accountID, limit)
	if len(txs) == 0 {
		return "📭 No transactions yet."
	}
	return formatHistory(accountID, txs)
}
