package store

import "time"

// Journalled action names.
const (
	ActionForceClose  = "force_close"
	ActionSuspend     = "empty_session.suspend"
	ActionResume      = "empty_session.resume"
	ActionBlock       = "network.block"
	ActionUnblock     = "network.unblock"
	ActionAntiAFK     = "anti_afk.keys"
	ActionLaunch      = "launch"
	ActionElevate     = "elevate"
	ActionUpdateCheck = "update.check"
)

// ActionCategory tells how an action is treated when the journal is shown.
type ActionCategory int

const (
	// CategoryOneOff actions are always shown individually.
	CategoryOneOff ActionCategory = iota
	// CategoryPeriodic actions repeat on a timer and are folded together.
	CategoryPeriodic
)

const (
	maxDetailLen     = 500
	truncatedDetail  = 200
	truncationMarker = "... [truncated]"
)

// Category returns how the named action is displayed.
func Category(name string) ActionCategory {
	if name == ActionAntiAFK {
		return CategoryPeriodic
	}
	return CategoryOneOff
}

// Entry is one line of a compacted journal.
type Entry struct {
	Action
	// Count is how many consecutive identical actions the entry stands for.
	Count int
	// FirstAt is when the oldest of them happened.
	FirstAt time.Time
}

// CompactActions folds consecutive periodic actions with the same target
// and outcome into one entry and shortens long details. actions are newest
// first, as returned by ListActions.
func CompactActions(actions []Action) []Entry {
	entries := make([]Entry, 0, len(actions))

	for _, a := range actions {
		if len(a.Detail) > maxDetailLen {
			a.Detail = a.Detail[:truncatedDetail] + truncationMarker
		}

		if n := len(entries); n > 0 && Category(a.Name) == CategoryPeriodic {
			last := &entries[n-1]
			if last.Name == a.Name && last.Target == a.Target && last.OK == a.OK && last.RunID == a.RunID {
				last.Count++
				last.FirstAt = a.CreatedAt
				continue
			}
		}

		entries = append(entries, Entry{Action: a, Count: 1, FirstAt: a.CreatedAt})
	}

	return entries
}
