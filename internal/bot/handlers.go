package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/mrperfect138/TelegramWalletBot/internal/storage"
	"github.com/mrperfect138/TelegramWalletBot/internal/wallet"
)

// Store is the persistence surface the handler needs: both documents
// loaded and saved together.
type Store interface {
	Load(ctx context.Context) (storage.Snapshot, error)
	Save(ctx context.Context, snap storage.Snapshot) error
}

// Handler glues Telegram updates to the router and triggers a save
// after every mutating command.
type Handler struct {
	api    *tgbotapi.BotAPI
	router *Router
	ledger *wallet.Ledger
	store  Store
	log    zerolog.Logger
}

func NewHandler(api *tgbotapi.BotAPI, router *Router, ledger *wallet.Ledger, store Store, log zerolog.Logger) *Handler {
	return &Handler{api: api, router: router, ledger: ledger, store: store, log: log}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil || upd.Message.From == nil || upd.Message.Text == "" {
		return
	}
	msg := upd.Message
	// The wallet works in private chats only.
	if !msg.Chat.IsPrivate() {
		return
	}

	h.log.Debug().
		Int64("from", msg.From.ID).
		Str("text", msg.Text).
		Msg("update received")

	rep := h.router.Dispatch(msg.From.ID, msg.From.FirstName, msg.From.UserName, msg.Text)

	if rep.Text != "" {
		h.reply(msg.Chat.ID, rep.Text, rep.Markdown)
	}
	if rep.Notify != nil {
		// Best effort: the recipient may never have opened the bot.
		h.sendDM(rep.Notify.AccountID, rep.Notify.Text)
	}
	if rep.Mutated {
		h.persist(ctx)
	}
}

// persist snapshots under the ledger lock, then saves outside it so the
// remote call never blocks command processing state.
func (h *Handler) persist(ctx context.Context) {
	snap := h.ledger.Snapshot()
	if err := h.store.Save(ctx, snap); err != nil {
		h.log.Error().Err(err).Msg("save snapshot, continuing with in-memory state")
	}
}

func (h *Handler) reply(chatID int64, text string, markdown bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = "Markdown"
	}
	if _, err := h.api.Send(msg); err != nil {
		h.log.Warn().Err(err).Int64("chat", chatID).Msg("send reply")
	}
}

func (h *Handler) sendDM(accountID int64, text string) {
	msg := tgbotapi.NewMessage(accountID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.log.Debug().Err(err).Int64("account", accountID).Msg("could not notify recipient")
	}
}
