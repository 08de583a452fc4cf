package domain

import (
	"strconv"
	"time"
)

// ActivityAction describes what a logged operation did.
type ActivityAction string

// Logged actions.
const (
	ActivityCreate  ActivityAction = "create"
	ActivityUpdate  ActivityAction = "update"
	ActivityDelete  ActivityAction = "delete"
	ActivityRefresh ActivityAction = "refresh"
)

// ActivityHeaders is the header row of the activity sheet.
var ActivityHeaders = []string{"ID", "Timestamp", "Actor", "Action", "Sheet", "Row", "Detail"}

// ActivityEntry is one row of the activity log.
type ActivityEntry struct {
	ID        string
	Timestamp time.Time
	Actor     string
	Action    ActivityAction
	SheetKey  string
	Row       int
	Detail    string
}

// Values returns the entry as a row in ActivityHeaders order.
func (e ActivityEntry) Values() []string {
	row := ""
	if e.Row > 0 {
		row = strconv.Itoa(e.Row)
	}
	return []string{
		e.ID,
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Actor,
		string(e.Action),
		e.SheetKey,
		row,
		e.Detail,
	}
}

// ActivityEntryFromRecord decodes an activity sheet row.
// Unparseable timestamps and row numbers are left zero.
func ActivityEntryFromRecord(r Record) ActivityEntry {
	e := ActivityEntry{
		ID:       r.Field("ID"),
		Actor:    r.Field("Actor"),
		Action:   ActivityAction(r.Field("Action")),
		SheetKey: r.Field("Sheet"),
		Detail:   r.Field("Detail"),
	}
	if ts, err := time.Parse(time.RFC3339, r.Field("Timestamp")); err == nil {
		e.Timestamp = ts
	}
	if n, err := strconv.Atoi(r.Field("Row")); err == nil {
		e.Row = n
	}
	return e
}
