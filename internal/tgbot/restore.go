package tgbot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/telebackup/mongobot/internal/mongouri"
)

// runRestore is the import entry point. It is not part of the job state
// machine: the command must be a reply to a document with a recognized
// backup extension, and it runs to completion in this handler's goroutine.
// The downloaded copy is removed on every path.
func (s *Service) runRestore(ctx context.Context, msg *models.Message, uri string) {
	reply := msg.ReplyToMessage
	if reply == nil || reply.Document == nil || !isBackupFile(reply.Document.FileName) {
		s.reply(ctx, msg.Chat.ID, "❌ Reply to a MongoDB backup file (.gz or .json) with this command.")
		return
	}

	s.reply(ctx, msg.Chat.ID, "📦 Importing MongoDB backup...")

	path, err := s.download(ctx, reply.Document)
	if err != nil {
		s.log.Warn("backup download failed", "error", err)
		s.reply(ctx, msg.Chat.ID, "❌ Failed to download backup file: "+err.Error())
		return
	}
	defer os.Remove(path)

	if err := s.runner.Restore(ctx, uri, path); err != nil {
		s.reply(ctx, msg.Chat.ID, "❌ Import failed: "+err.Error())
		return
	}

	s.reply(ctx, msg.Chat.ID, "✅ MongoDB import complete to "+mongouri.Mask(uri))
}

// isBackupFile reports whether the attachment name carries a recognized
// backup extension.
func isBackupFile(name string) bool {
	return strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".json")
}

// download fetches the document into the backup directory and returns the
// local path. The original extension is preserved because Restore selects
// its mode from it.
func (s *Service) download(ctx context.Context, doc *models.Document) (string, error) {
	f, err := s.b.GetFile(ctx, &bot.GetFileParams{FileID: doc.FileID})
	if err != nil {
		return "", fmt.Errorf("resolving file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.b.FileDownloadLink(f), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading file: %s", resp.Status)
	}

	name := fmt.Sprintf("restore_%d_%s", time.Now().UnixNano(), filepath.Base(doc.FileName))
	path := filepath.Join(s.cfg.BackupDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
