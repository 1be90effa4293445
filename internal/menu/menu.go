// Package menu renders job state into Telegram inline keyboards. Every
// builder is a pure function of its arguments: no I/O, no errors, no access
// to the registry. Each button's callback data is produced by the payload
// package and round-trips through the callback router.
package menu

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/telebackup/mongobot/internal/payload"
)

// Main renders the top-level menu. It always has exactly four options,
// regardless of how many databases the target server holds.
func Main(jobID string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "📦 Backup all databases", CallbackData: payload.Encode(jobID, payload.ActionBackupAll)}},
			{{Text: "🗂 Pick one database", CallbackData: payload.Encode(jobID, payload.ActionSingle)}},
			{{Text: "🗑 Delete all databases", CallbackData: payload.Encode(jobID, payload.ActionDeleteAll)}},
			{{Text: "❌ Cancel", CallbackData: payload.Encode(jobID, payload.ActionCancel)}},
		},
	}
}

// DeleteConfirm renders the irreversible-action confirmation menu: exactly
// two options, confirm or return to the main menu.
func DeleteConfirm(jobID string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "⚠️ Yes, delete everything", CallbackData: payload.Encode(jobID, payload.ActionConfirmDelete)}},
			{{Text: "🔙 No, go back", CallbackData: payload.Encode(jobID, payload.ActionBack)}},
		},
	}
}

// ClampPage clamps a requested page into the valid range for n entries at
// the given page size. An out-of-range request never errors, it clamps.
func ClampPage(page, n, pageSize int) int {
	if page < 0 {
		return 0
	}
	last := lastPage(n, pageSize)
	if page > last {
		return last
	}
	return page
}

func lastPage(n, pageSize int) int {
	if n <= pageSize {
		return 0
	}
	return (n - 1) / pageSize
}

// Databases renders one page of the database-selection menu: database
// buttons two per row, then a navigation row (previous, page indicator,
// next, each present only when meaningful), then the "backup all" and
// "back" rows. An empty database list yields only the trailing rows.
func Databases(jobID string, dbs []string, page, pageSize int) *models.InlineKeyboardMarkup {
	page = ClampPage(page, len(dbs), pageSize)
	last := lastPage(len(dbs), pageSize)

	start := page * pageSize
	end := start + pageSize
	if end > len(dbs) {
		end = len(dbs)
	}

	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for key := start; key < end; key++ {
		row = append(row, models.InlineKeyboardButton{
			Text:         dbs[key],
			CallbackData: payload.EncodeArg(jobID, payload.ActionPick, key),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []models.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, models.InlineKeyboardButton{
			Text:         "⬅️ Prev",
			CallbackData: payload.EncodeArg(jobID, payload.ActionPage, page-1),
		})
	}
	if last > 0 {
		nav = append(nav, models.InlineKeyboardButton{
			Text:         fmt.Sprintf("%d/%d", page+1, last+1),
			CallbackData: payload.Encode(jobID, payload.ActionNoop),
		})
	}
	if page < last {
		nav = append(nav, models.InlineKeyboardButton{
			Text:         "➡️ Next",
			CallbackData: payload.EncodeArg(jobID, payload.ActionPage, page+1),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows,
		[]models.InlineKeyboardButton{{Text: "📦 Backup all databases", CallbackData: payload.Encode(jobID, payload.ActionBackupAll)}},
		[]models.InlineKeyboardButton{{Text: "🔙 Back", CallbackData: payload.Encode(jobID, payload.ActionBack)}},
	)

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
