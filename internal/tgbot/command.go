package tgbot

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/telebackup/mongobot/internal/job"
	"github.com/telebackup/mongobot/internal/menu"
	"github.com/telebackup/mongobot/internal/mongouri"
	"github.com/telebackup/mongobot/internal/router"
)

const usageText = "Usage: /mongo <mongodb-uri> [{json}] [{gz}] [{import}]\n\n" +
	"Default backups are gzipped archives. Add {json} for a plain BSON dump. " +
	"Reply to a backup file with /mongo <uri> {import} to restore it."

// onMongo handles the /mongo command: either the restore entry point
// ({import} flag) or the creation of an interactive backup job.
func (s *Service) onMongo(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	args := commandArgs(msg.Text)
	if args == "" {
		s.reply(ctx, msg.Chat.ID, "❌ Please provide a MongoDB URI.\n\n"+usageText)
		return
	}

	uri, ok := mongouri.Extract(args)
	if !ok {
		s.reply(ctx, msg.Chat.ID, "❌ Invalid or missing MongoDB URI.")
		return
	}

	flags := strings.ToLower(args)
	if strings.Contains(flags, "{import}") {
		s.runRestore(ctx, msg, uri)
		return
	}

	// The format is fixed here, once, and travels with the job so that
	// menu navigation can never change it.
	j := s.jobs.Create(uri, formatFromFlags(flags), msg.Chat.ID, msg.From.ID)
	s.log.Info("created job", "jobId", j.ID, "uri", mongouri.Mask(uri), "format", j.Format, "owner", j.OwnerID)

	sent, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        router.MainMenuText(j),
		ReplyMarkup: menu.Main(j.ID),
	})
	if err != nil {
		s.jobs.Remove(j.ID)
		s.log.Warn("menu send failed", "jobId", j.ID, "error", err)
		return
	}
	j.MessageID = sent.ID
}

// commandArgs strips the leading /mongo token (including a possible
// @botname suffix) and returns the remaining argument text.
func commandArgs(text string) string {
	_, rest, found := strings.Cut(text, " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}

// formatFromFlags resolves the requested backup format: {json} without
// {gz} means a plain dump, everything else the gzipped archive default.
func formatFromFlags(flags string) job.Format {
	if strings.Contains(flags, "{json}") && !strings.Contains(flags, "{gz}") {
		return job.FormatPlain
	}
	return job.FormatArchive
}
