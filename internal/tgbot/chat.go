package tgbot

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Telegram rejects callback answers longer than this.
const maxNoticeLen = 200

// chatAdapter implements router.Chat on top of the bot API. Failures the
// router can do nothing about (a vanished message, an expired callback) are
// logged and swallowed here.
type chatAdapter struct {
	b   *bot.Bot
	log *slog.Logger
}

func (c *chatAdapter) Notify(ctx context.Context, callbackID, text string) {
	if len(text) > maxNoticeLen {
		text = text[:maxNoticeLen]
	}
	_, err := c.b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		c.log.Warn("callback answer failed", "error", err)
	}
}

func (c *chatAdapter) EditMenu(ctx context.Context, chatID int64, messageID int, text string, markup *models.InlineKeyboardMarkup) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
	// A typed nil must not end up in the ReplyMarkup interface field.
	if markup != nil {
		params.ReplyMarkup = markup
	}
	_, err := c.b.EditMessageText(ctx, params)
	return err
}

func (c *chatAdapter) SendDocument(ctx context.Context, chatID int64, path, caption string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = c.b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filepath.Base(path), Data: f},
		Caption:  caption,
	})
	return err
}

func (c *chatAdapter) DeleteMessage(ctx context.Context, chatID int64, messageID int) {
	_, err := c.b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		c.log.Warn("message delete failed", "chatId", chatID, "messageId", messageID, "error", err)
	}
}
