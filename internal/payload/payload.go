// Package payload encodes the callback data attached to inline keyboard
// buttons. Telegram round-trips callback data as an opaque string of at
// most 64 bytes, so a payload carries only the job ID, an action tag and
// at most one small integer argument.
package payload

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix namespaces every payload produced by this bot so the callback
// handler can be registered on a single prefix match.
const Prefix = "mdb_"

// Action identifies what the user selected.
type Action string

const (
	// ActionBackupAll dumps every database on the target server.
	ActionBackupAll Action = "all"
	// ActionSingle opens the database-selection menu.
	ActionSingle Action = "single"
	// ActionDeleteAll opens the delete confirmation menu.
	ActionDeleteAll Action = "delete"
	// ActionConfirmDelete drops every database. One-shot, irreversible.
	ActionConfirmDelete Action = "confirm"
	// ActionCancel aborts the job.
	ActionCancel Action = "cancel"
	// ActionBack returns to the main menu.
	ActionBack Action = "back"
	// ActionPage re-renders the database menu at page Arg.
	ActionPage Action = "page"
	// ActionPick dumps the database with short key Arg.
	ActionPick Action = "pick"
	// ActionNoop is attached to non-interactive buttons such as the
	// page indicator.
	ActionNoop Action = "noop"
)

// hasArg reports whether the action carries an integer argument.
func (a Action) hasArg() bool {
	return a == ActionPage || a == ActionPick
}

func (a Action) valid() bool {
	switch a {
	case ActionBackupAll, ActionSingle, ActionDeleteAll, ActionConfirmDelete,
		ActionCancel, ActionBack, ActionPage, ActionPick, ActionNoop:
		return true
	}
	return false
}

// Payload is the decoded form of a callback data string.
type Payload struct {
	JobID  string
	Action Action
	Arg    int
}

// Encode renders the payload as wire-format callback data.
func Encode(jobID string, action Action) string {
	return Prefix + jobID + "_" + string(action)
}

// EncodeArg renders a payload that carries an integer argument.
func EncodeArg(jobID string, action Action, arg int) string {
	return fmt.Sprintf("%s%s_%s_%d", Prefix, jobID, action, arg)
}

// Decode parses callback data back into a Payload. Decoding is total:
// any string that does not match the wire format yields ok=false, never
// a panic or error. Job IDs are UUIDs and contain no underscores, so the
// fields after the prefix split unambiguously.
func Decode(data string) (Payload, bool) {
	rest, ok := strings.CutPrefix(data, Prefix)
	if !ok {
		return Payload{}, false
	}

	parts := strings.Split(rest, "_")
	if len(parts) < 2 || parts[0] == "" {
		return Payload{}, false
	}

	p := Payload{JobID: parts[0], Action: Action(parts[1])}
	if !p.Action.valid() {
		return Payload{}, false
	}

	switch {
	case p.Action.hasArg():
		if len(parts) != 3 {
			return Payload{}, false
		}
		arg, err := strconv.Atoi(parts[2])
		if err != nil {
			return Payload{}, false
		}
		p.Arg = arg
	default:
		if len(parts) != 2 {
			return Payload{}, false
		}
	}

	return p, true
}
