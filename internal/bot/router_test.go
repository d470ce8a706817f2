package bot

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrperfect138/TelegramWalletBot/internal/wallet"
)

const (
	alice int64 = 100
	bob   int64 = 200
)

func newTestRouter(t *testing.T) (*Router, *wallet.Ledger) {
	t.Helper()
	l := wallet.NewLedger(decimal.NewFromInt(1000))
	r := NewRouter(l, 10)
	// Both users have talked to the bot before.
	r.Dispatch(alice, "Alice", "alice", "/start")
	r.Dispatch(bob, "Bob", "bob", "/start")
	return r, l
}

func dispatch(r *Router, id int64, text string) Reply {
	return r.Dispatch(id, "", "", text)
}

func TestFirstContactCreatesAccount(t *testing.T) {
	l := wallet.NewLedger(decimal.NewFromInt(1000))
	r := NewRouter(l, 10)

	rep := r.Dispatch(alice, "Alice", "alice", "/start")
	assert.True(t, rep.Mutated, "account creation must trigger a save")
	assert.Contains(t, rep.Text, "Wallet Bot")

	rep = dispatch(r, alice, "/start")
	assert.False(t, rep.Mutated)
}

func TestBalanceAndProfile(t *testing.T) {
	r, _ := newTestRouter(t)

	rep := dispatch(r, alice, "/balance")
	assert.Contains(t, rep.Text, "1000 ✦ Zephyr")
	assert.True(t, rep.Markdown)

	rep = dispatch(r, alice, "/profile")
	assert.Contains(t, rep.Text, "Name: Alice")
	assert.Contains(t, rep.Text, "@alice")
	assert.Contains(t, rep.Text, "User ID: 100")
}

func TestPool(t *testing.T) {
	r, _ := newTestRouter(t)
	rep := dispatch(r, alice, "/pool")
	assert.Contains(t, rep.Text, "Total Zephyr in circulation: 2000 Zephyr")
}

func TestUnknownCommand(t *testing.T) {
	r, l := newTestRouter(t)
	rep := dispatch(r, alice, "/foo")
	assert.Contains(t, rep.Text, "Unknown command")
	assert.False(t, rep.Mutated)
	assert.True(t, l.TotalCirculation().Equal(decimal.NewFromInt(2000)))
}

func TestCommandWithBotSuffix(t *testing.T) {
	r, _ := newTestRouter(t)
	rep := dispatch(r, alice, "/balance@zephyr_bot")
	assert.Contains(t, rep.Text, "Your Balance")
}

func TestTransferMalformedArguments(t *testing.T) {
	r, l := newTestRouter(t)

	for _, text := range []string{
		"/transfer",
		"/transfer 200",
		"/transfer bob 50",
		"/transfer 200 abc",
		"/transfer 200 -5",
		"/transfer 200 0",
	} {
		rep := dispatch(r, alice, text)
		assert.True(t, strings.HasPrefix(rep.Text, "❌"), "%q should be rejected, got %q", text, rep.Text)
		assert.False(t, l.HasPending(alice), "%q must not create a pending transfer", text)
	}
}

func TestTransferUnknownRecipient(t *testing.T) {
	r, _ := newTestRouter(t)
	rep := dispatch(r, alice, "/transfer 555 50")
	assert.Contains(t, rep.Text, "Account 555 not found")
}

func TestTransferConfirmFlow(t *testing.T) {
	r, l := newTestRouter(t)

	rep := dispatch(r, alice, "/transfer 200 200 lunch")
	assert.Contains(t, rep.Text, "@bob")
	assert.Contains(t, rep.Text, "200 Zephyr")
	assert.Contains(t, rep.Text, "lunch")
	assert.False(t, rep.Mutated, "a request alone must not trigger a save")
	require.True(t, l.HasPending(alice))

	rep = dispatch(r, alice, "y")
	assert.Contains(t, rep.Text, "✅ Sent 200 Zephyr to @bob")
	assert.True(t, rep.Mutated)
	require.NotNil(t, rep.Notify)
	assert.Equal(t, bob, rep.Notify.AccountID)
	assert.Contains(t, rep.Notify.Text, "You received 200 Zephyr from @alice")
	assert.Contains(t, rep.Notify.Text, "1200 ✦ Zephyr")

	a, err := l.Get(alice)
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(800)))
}

func TestTransferCancelFlow(t *testing.T) {
	r, l := newTestRouter(t)

	dispatch(r, alice, "/transfer 200 200")
	rep := dispatch(r, alice, "N")
	assert.Contains(t, rep.Text, "cancelled")
	assert.False(t, rep.Mutated)
	assert.False(t, l.HasPending(alice))
}

func TestPendingTakesPriorityOverCommands(t *testing.T) {
	r, l := newTestRouter(t)

	dispatch(r, alice, "/transfer 200 200")
	require.True(t, l.HasPending(alice))

	// Even a valid command is read as a confirmation response.
	rep := dispatch(r, alice, "/balance")
	assert.Contains(t, rep.Text, "Y to confirm or N to cancel")
	assert.True(t, l.HasPending(alice), "ambiguous response must keep the request pending")

	rep = dispatch(r, alice, "n")
	assert.Contains(t, rep.Text, "cancelled")

	// Back to normal dispatch afterwards.
	rep = dispatch(r, alice, "/balance")
	assert.Contains(t, rep.Text, "Your Balance")
}

func TestConfirmAfterDrainReportsInsufficientFunds(t *testing.T) {
	r, l := newTestRouter(t)

	dispatch(r, alice, "/transfer 200 800")
	_, err := l.Execute(alice, bob, decimal.NewFromInt(500), "")
	require.NoError(t, err)

	rep := dispatch(r, alice, "y")
	assert.Contains(t, rep.Text, "Insufficient funds")
	assert.False(t, rep.Mutated)
	assert.False(t, l.HasPending(alice))
}

func TestResponseWithoutPending(t *testing.T) {
	r, _ := newTestRouter(t)
	rep := dispatch(r, alice, "Y")
	assert.Contains(t, rep.Text, "Unknown command")
}

func TestHistoryCommand(t *testing.T) {
	r, l := newTestRouter(t)

	rep := dispatch(r, alice, "/history")
	assert.Contains(t, rep.Text, "No transactions yet")

	for i := 0; i < 3; i++ {
		_, err := l.Execute(alice, bob, decimal.NewFromInt(10), "coffee")
		require.NoError(t, err)
	}
	_, err := l.Execute(bob, alice, decimal.NewFromInt(5), "change")
	require.NoError(t, err)

	rep = dispatch(r, alice, "/history")
	assert.Contains(t, rep.Text, "Sent 10 Zephyr")
	assert.Contains(t, rep.Text, "Received 5 Zephyr")
	assert.Contains(t, rep.Text, "Desc: coffee")

	rep = dispatch(r, alice, "/history 1")
	assert.Contains(t, rep.Text, "Received 5 Zephyr")
	assert.NotContains(t, rep.Text, "Sent")

	rep = dispatch(r, alice, "/history zero")
	assert.Contains(t, rep.Text, "Usage: /history")
}
