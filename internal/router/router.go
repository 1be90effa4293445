// Package router drives the interactive backup workflow. Every inline
// keyboard tap arrives here as an Event; the router decodes it, validates it
// against the job registry, advances the job, and either re-renders a menu
// or hands off to an executor. All collaborator boundaries are interfaces so
// the state machine is testable without Telegram or a MongoDB deployment.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/telebackup/mongobot/internal/dump"
	"github.com/telebackup/mongobot/internal/job"
	"github.com/telebackup/mongobot/internal/menu"
	"github.com/telebackup/mongobot/internal/mongouri"
	"github.com/telebackup/mongobot/internal/payload"
)

// Lister enumerates user databases at a connection string.
type Lister interface {
	ListDatabases(ctx context.Context, uri string) ([]string, error)
}

// Dropper wipes every user database at a connection string.
type Dropper interface {
	DropAll(ctx context.Context, uri string) error
}

// Dumper produces a backup artifact. An empty db targets all databases.
type Dumper interface {
	Dump(ctx context.Context, uri string, format job.Format, db string) (string, error)
}

// Chat is the slice of the chat platform the router needs. Notify answers
// the callback with an ephemeral notice (empty text just clears the client
// spinner); delivery and cleanup errors it can do nothing about are
// swallowed by the implementation.
type Chat interface {
	Notify(ctx context.Context, callbackID, text string)
	EditMenu(ctx context.Context, chatID int64, messageID int, text string, markup *models.InlineKeyboardMarkup) error
	SendDocument(ctx context.Context, chatID int64, path, caption string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int)
}

// Event is one incoming callback tap, already stripped of transport detail.
type Event struct {
	CallbackID string
	FromID     int64
	Data       string
}

// Router owns the transition logic. PageSize controls database pagination.
type Router struct {
	Jobs     *job.Registry
	Lister   Lister
	Dropper  Dropper
	Dumper   Dumper
	Chat     Chat
	PageSize int
	Log      *slog.Logger
}

func (r *Router) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// HandleCallback processes one tap. It never returns an error: every
// failure mode ends in a user-visible notice, and a malformed or stale
// payload is rejected without touching any job.
func (r *Router) HandleCallback(ctx context.Context, ev Event) {
	p, ok := payload.Decode(ev.Data)
	if !ok {
		r.logger().Debug("rejected malformed callback", "data", ev.Data)
		r.Chat.Notify(ctx, ev.CallbackID, "Invalid action.")
		return
	}

	if p.Action == payload.ActionNoop {
		r.Chat.Notify(ctx, ev.CallbackID, "")
		return
	}

	j := r.Jobs.Get(p.JobID)
	if j == nil {
		// Stale tap for a finished or cancelled job. Common after a
		// duplicate tap on an execute button; must never re-execute.
		r.Chat.Notify(ctx, ev.CallbackID, "This action has expired.")
		return
	}

	if ev.FromID != j.OwnerID {
		r.Chat.Notify(ctx, ev.CallbackID, "This menu is not for you.")
		return
	}

	switch p.Action {
	case payload.ActionBackupAll:
		r.execute(ctx, ev, j, "")

	case payload.ActionSingle:
		r.showDatabases(ctx, ev, j)

	case payload.ActionDeleteAll:
		r.Chat.Notify(ctx, ev.CallbackID, "")
		r.edit(ctx, j, "⚠️ This will permanently delete every database on the server. Are you sure?",
			menu.DeleteConfirm(j.ID))

	case payload.ActionConfirmDelete:
		r.confirmDelete(ctx, ev, j)

	case payload.ActionCancel:
		r.Jobs.Remove(j.ID)
		r.Chat.Notify(ctx, ev.CallbackID, "Cancelled.")
		r.edit(ctx, j, "❌ Operation cancelled.", nil)

	case payload.ActionBack:
		r.Chat.Notify(ctx, ev.CallbackID, "")
		r.edit(ctx, j, MainMenuText(j), menu.Main(j.ID))

	case payload.ActionPage:
		j.Page = menu.ClampPage(p.Arg, len(j.Databases), r.PageSize)
		r.Chat.Notify(ctx, ev.CallbackID, "")
		r.edit(ctx, j, "Select a database to back up:",
			menu.Databases(j.ID, j.Databases, j.Page, r.PageSize))

	case payload.ActionPick:
		name, ok := j.NameFor(p.Arg)
		if !ok {
			r.Chat.Notify(ctx, ev.CallbackID, "Invalid selection.")
			return
		}
		r.execute(ctx, ev, j, name)
	}
}

// showDatabases lazily populates the job's database index. Listing failures
// and empty results leave the job alive at the main menu; both are
// recoverable.
func (r *Router) showDatabases(ctx context.Context, ev Event, j *job.Job) {
	dbs, err := r.Lister.ListDatabases(ctx, j.URI)
	if err != nil {
		r.logger().Warn("database listing failed", "jobId", j.ID, "error", err)
		r.Chat.Notify(ctx, ev.CallbackID, "Failed to list databases: "+err.Error())
		return
	}
	if len(dbs) == 0 {
		r.Chat.Notify(ctx, ev.CallbackID, "No databases found on this server.")
		return
	}

	j.SetDatabases(dbs)
	j.Page = 0
	r.Chat.Notify(ctx, ev.CallbackID, "")
	r.edit(ctx, j, "Select a database to back up:",
		menu.Databases(j.ID, j.Databases, 0, r.PageSize))
}

// confirmDelete is one-shot: whatever the outcome, the job is removed so a
// duplicate tap can never wipe the server twice.
func (r *Router) confirmDelete(ctx context.Context, ev Event, j *job.Job) {
	r.Chat.Notify(ctx, ev.CallbackID, "")
	r.edit(ctx, j, "🗑 Deleting all databases...", nil)

	err := r.Dropper.DropAll(ctx, j.URI)
	r.Jobs.Remove(j.ID)

	if err != nil {
		r.logger().Error("drop all failed", "jobId", j.ID, "error", err)
		r.edit(ctx, j, "❌ Deletion failed: "+err.Error(), nil)
		return
	}
	r.edit(ctx, j, "✅ All databases deleted from "+mongouri.Mask(j.URI), nil)
}

// execute runs the backup and finalizes the job. The artifact and the
// placeholder menu message are both gone by the time the job is removed.
func (r *Router) execute(ctx context.Context, ev Event, j *job.Job, db string) {
	r.Chat.Notify(ctx, ev.CallbackID, "")
	r.edit(ctx, j, fmt.Sprintf("📦 Creating backup in %s format...", strings.ToUpper(string(j.Format))), nil)

	path, err := r.Dumper.Dump(ctx, j.URI, j.Format, db)
	if err != nil {
		r.edit(ctx, j, "❌ Backup failed: "+err.Error(), nil)
		r.Jobs.Remove(j.ID)
		return
	}

	// Directory-tree dumps are packed into one file for delivery.
	artifact := path
	if fi, statErr := os.Stat(path); statErr == nil && fi.IsDir() {
		artifact, err = dump.PackageDir(path)
		if err != nil {
			r.edit(ctx, j, "❌ Backup failed: "+err.Error(), nil)
			os.RemoveAll(path)
			r.Jobs.Remove(j.ID)
			return
		}
	}

	target := db
	if target == "" {
		target = "all databases"
	}
	caption := fmt.Sprintf("✅ MongoDB backup complete.\n\nURI: %s\nFormat: %s\nTarget: %s",
		mongouri.Mask(j.URI), strings.ToUpper(string(j.Format)), target)

	if err := r.Chat.SendDocument(ctx, j.ChatID, artifact, caption); err != nil {
		r.edit(ctx, j, "❌ Failed to deliver backup: "+err.Error(), nil)
	} else {
		r.Chat.DeleteMessage(ctx, j.ChatID, j.MessageID)
	}

	os.RemoveAll(path)
	if artifact != path {
		os.Remove(artifact)
	}
	r.Jobs.Remove(j.ID)
}

func (r *Router) edit(ctx context.Context, j *job.Job, text string, markup *models.InlineKeyboardMarkup) {
	if err := r.Chat.EditMenu(ctx, j.ChatID, j.MessageID, text, markup); err != nil {
		r.logger().Warn("menu edit failed", "jobId", j.ID, "error", err)
	}
}

// MainMenuText is shown above the main menu keyboard, both on job creation
// and when navigating back.
func MainMenuText(j *job.Job) string {
	return fmt.Sprintf("Target: %s\nFormat: %s\n\nChoose an action:",
		mongouri.Mask(j.URI), strings.ToUpper(string(j.Format)))
}
