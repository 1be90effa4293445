// Package tgbot wires the workflow core to Telegram: the /mongo command,
// the callback query handler, and the restore-by-reply flow. Each update is
// handled in its own goroutine by the bot library, so a long-running dump
// for one job never blocks another job's taps.
package tgbot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/telebackup/mongobot/internal/config"
	"github.com/telebackup/mongobot/internal/dump"
	"github.com/telebackup/mongobot/internal/job"
	"github.com/telebackup/mongobot/internal/mongoadmin"
	"github.com/telebackup/mongobot/internal/payload"
	"github.com/telebackup/mongobot/internal/router"
)

// Service is the running bot.
type Service struct {
	cfg    config.Config
	b      *bot.Bot
	jobs   *job.Registry
	runner *dump.Runner
	router *router.Router
	http   *http.Client
	log    *slog.Logger
}

// New builds the bot, registers handlers, and wires the callback router.
func New(cfg config.Config, jobs *job.Registry, admin *mongoadmin.Admin, runner *dump.Runner, log *slog.Logger) (*Service, error) {
	s := &Service{
		cfg:    cfg,
		jobs:   jobs,
		runner: runner,
		http:   &http.Client{Timeout: 5 * time.Minute},
		log:    log,
	}

	b, err := bot.New(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}
	s.b = b

	s.router = &router.Router{
		Jobs:     jobs,
		Lister:   admin,
		Dropper:  admin,
		Dumper:   runner,
		Chat:     &chatAdapter{b: b, log: log},
		PageSize: cfg.PageSize,
		Log:      log,
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, "/mongo", bot.MatchTypePrefix, s.onMongo)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, payload.Prefix, bot.MatchTypePrefix, s.onCallback)

	return s, nil
}

// Run long-polls Telegram until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("bot started", "pageSize", s.cfg.PageSize, "backupDir", s.cfg.BackupDir)
	s.b.Start(ctx)
}

func (s *Service) onCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	s.router.HandleCallback(ctx, router.Event{
		CallbackID: cq.ID,
		FromID:     cq.From.ID,
		Data:       cq.Data,
	})
}

// reply sends a plain text message into the command's chat.
func (s *Service) reply(ctx context.Context, chatID int64, text string) {
	if _, err := s.b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		s.log.Warn("reply failed", "chatId", chatID, "error", err)
	}
}
