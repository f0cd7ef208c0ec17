// Package notify publishes festival activity to external channels.
//
// Delivery is best effort: senders log failures and never surface them
// to the caller, so a dead webhook cannot fail a write request.
package notify

// ReviewEvent is a snapshot of a posted review with the display fields
// a notification needs.
type ReviewEvent struct {
	UserName    string
	BreweryID   int64
	BreweryName string
	SakeName    string
	Rating      int
	Tags        []string
	Comment     *string
}

// NoteEvent is a snapshot of a posted brewery note.
type NoteEvent struct {
	UserName    string
	BreweryID   int64
	BreweryName string
	Comment     string
}

// Notifier receives activity events after they are committed.
type Notifier interface {
	ReviewPosted(event ReviewEvent)
	NotePosted(event NoteEvent)
}

// Noop discards all events. Used when no webhook is configured.
type Noop struct{}

func (Noop) ReviewPosted(ReviewEvent) {}
func (Noop) NotePosted(NoteEvent)     {}
