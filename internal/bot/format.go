package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mrperfect138/TelegramWalletBot/internal/domain"
)

const startText = "💰 *Wallet Bot* 💰\n\n" +
	"Your digital pocket for fun currency!\n\n" +
	"*/balance* - Check your balance\n" +
	"*/transfer* <recipientId> <amount> - Send Zephyr\n" +
	"*/help* - Show all commands"

const helpText = "💡 *Available Commands:*\n\n" +
	"*/start* - Welcome message\n" +
	"*/balance* - Check your Zephyr\n" +
	"*/profile* - Your account details\n" +
	"*/transfer <recipientId> <amount> [description]* - Send Zephyr\n" +
	"*/history [count]* - Your recent transactions\n" +
	"*/pool* - Total Zephyr in circulation\n" +
	"*/help* - This message\n\n" +
	"Example: `/transfer 123456 50 lunch`"

func formatAmount(a decimal.Decimal) string {
	return a.String() + " " + domain.CurrencyName
}

func formatBalance(a decimal.Decimal) string {
	return a.String() + " " + domain.CurrencySymbol + " " + domain.CurrencyName
}

// displayAccount prefers the @handle, falling back to name or id.
func displayAccount(a domain.Account) string {
	if a.Handle != "" {
		return "@" + a.Handle
	}
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return fmt.Sprintf("account %d", a.ID)
}

func formatProfile(a domain.Account) string {
	handle := a.Handle
	if handle == "" {
		handle = "unknown"
	}
	return fmt.Sprintf("👤 Profile\nName: %s\nUsername: @%s\nUser ID: %d\nBalance: %s",
		a.DisplayName, handle, a.ID, formatBalance(a.Balance))
}

// formatHistory renders transactions newest first, with the direction
// relative to the queried account.
func formatHistory(accountID int64, txs []domain.Transaction) string {
	var b strings.Builder
	b.WriteString("🧾 Your recent transactions:\n")
	for _, t := range txs {
		direction := "Received"
		if t.FromAccount == accountID {
			direction = "Sent"
		}
		b.WriteString(fmt.Sprintf("\n%s | %s %s", t.Timestamp.Format("2006-01-02 15:04"), direction, formatAmount(t.Amount)))
		if t.Description != "" {
			b.WriteString("\nDesc: " + t.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
