package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mrperfect138/TelegramWalletBot/internal/bot"
	"github.com/mrperfect138/TelegramWalletBot/internal/config"
	"github.com/mrperfect138/TelegramWalletBot/internal/logger"
	"github.com/mrperfect138/TelegramWalletBot/internal/storage"
	"github.com/mrperfect138/TelegramWalletBot/internal/wallet"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewGistStore(cfg.GithubToken, cfg.GistID, log)
	ledger := wallet.NewLedger(cfg.SeedBalance)

	snap, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("load snapshot failed, starting with an empty ledger")
	} else {
		ledger.Restore(snap)
		log.Info().
			Int("accounts", len(snap.Accounts)).
			Int("transactions", len(snap.Transactions)).
			Msg("ledger restored")
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("bot init")
	}
	botAPI.Debug = false

	router := bot.NewRouter(ledger, cfg.HistoryLimit)
	h := bot.NewHandler(botAPI, router, ledger, store, log)

	// Graceful shutdown
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	log.Info().Str("username", botAPI.Self.UserName).Msg("wallet bot started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown")
			return
		case upd := <-updates:
			h.HandleUpdate(ctx, upd)
		}
	}
}
