package dataapp

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Action identifies one sidebar entry.
type Action int

const (
	ActionAdd Action = iota
	ActionUpdate
	ActionDelete
	ActionSearch
	ActionView
)

// actionTitles is the sidebar menu in display order.
var actionTitles = []string{
	ActionAdd:    "Add contact",
	ActionUpdate: "Update contact",
	ActionDelete: "Delete contact",
	ActionSearch: "Search contacts",
	ActionView:   "View all contacts",
}

// String returns the menu title.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionTitles) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionTitles[a]
}

// Status kinds shown under the form.
const (
	statusNone = iota
	statusSuccess
	statusWarning
	statusError
)

// Messages shown for input problems and empty result sets.
const (
	msgRequired   = "Please fill in all required fields."
	msgNoContacts = "No contacts found."
	msgTableEmpty = "Table is empty."
	msgUnexpected = "unexpected result from %s"
)

// resultMsg carries the outcome of one procedure call back to Update.
type resultMsg struct {
	action  Action
	kind    int
	text    string
	changes string
	rows    []types.Contact
}

// call runs the procedure for action with args and converts its result set
// into a resultMsg. Exactly one procedure call is made.
func call(ctx context.Context, caller types.Caller, action Action, args []string) tea.Cmd {
	return func() tea.Msg {
		switch action {
		case ActionAdd:
			recs, err := caller.Call(ctx, types.ProcAddContact, args[0], args[1], args[2])
			return messageResult(action, recs, err)
		case ActionUpdate:
			recs, err := caller.Call(ctx, types.ProcUpdateContact, args[0], args[1], args[2], args[3])
			msg := messageResult(action, recs, err)
			if msg.kind == statusSuccess {
				before, _ := recs[0]["before"].(types.Record)
				after, _ := recs[0]["after"].(types.Record)
				msg.changes = describeChanges(before.Contact(), after.Contact())
			}
			return msg
		case ActionDelete:
			recs, err := caller.Call(ctx, types.ProcDeleteContact, args[0])
			return messageResult(action, recs, err)
		case ActionSearch:
			recs, err := caller.Call(ctx, types.ProcSearchContacts, args[0])
			if err != nil {
				return errorResult(action, err)
			}
			if len(recs) == 0 {
				return resultMsg{action: action, kind: statusWarning, text: msgNoContacts}
			}
			return rowsResult(action, recs)
		case ActionView:
			recs, err := caller.Call(ctx, types.ProcShowTable, args[0])
			if err != nil {
				return errorResult(action, err)
			}
			if len(recs) == 0 {
				return resultMsg{action: action, kind: statusWarning, text: msgTableEmpty}
			}
			if e := recs[0].String("error"); e != "" {
				return resultMsg{action: action, kind: statusError, text: e}
			}
			return rowsResult(action, recs)
		default:
			return errorResult(action, fmt.Errorf("unknown action %d", int(action)))
		}
	}
}

// messageResult reports the "message" column of a single-row result set.
func messageResult(action Action, recs []types.Record, err error) resultMsg {
	if err != nil {
		return errorResult(action, err)
	}
	if len(recs) == 0 || recs[0].String("message") == "" {
		return resultMsg{action: action, kind: statusError, text: fmt.Sprintf(msgUnexpected, action)}
	}
	return resultMsg{action: action, kind: statusSuccess, text: recs[0].String("message")}
}

func rowsResult(action Action, recs []types.Record) resultMsg {
	rows := make([]types.Contact, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, r.Contact())
	}
	return resultMsg{
		action: action,
		kind:   statusSuccess,
		text:   fmt.Sprintf("%d contact(s)", len(rows)),
		rows:   rows,
	}
}

func errorResult(action Action, err error) resultMsg {
	return resultMsg{action: action, kind: statusError, text: errorText(action, err)}
}

// errorText prefixes the failure with the action that caused it.
func errorText(action Action, err error) string {
	reason := err.Error()
	switch {
	case errors.Is(err, types.ErrNotFound):
		reason = "contact not found"
	case errors.Is(err, types.ErrDuplicatePhone):
		reason = "a contact with this phone number already exists"
	}
	return fmt.Sprintf("%s failed: %s", action, reason)
}
