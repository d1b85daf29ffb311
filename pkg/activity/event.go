package activity

import (
	"strings"
	"time"
)

const (
	VerbItemCreated  = "item.created"
	VerbItemModified = "item.modified"

	ObjectTypeItem = "item"
)

// ItemRef identifies the item an event is about.
type ItemRef struct {
	ID       string
	Format   string
	Filename string
}

// Actor is the identity an emitter stamps on events that carry none.
type Actor struct {
	ActorID  string
	UserID   string
	TenantID string
}

func (a Actor) empty() bool {
	return a.ActorID == "" && a.UserID == "" && a.TenantID == ""
}

// Event reports a lifecycle change of one item.
type Event struct {
	Verb string
	Item ItemRef
	// Property is the canonical name whose write produced an item.modified
	// event. It is empty for item.created.
	Property string
	Actor    Actor
	Channel  string
	At       time.Time
}

// ItemCreated describes a fresh, unsaved item.
func ItemCreated(ref ItemRef) Event {
	return Event{Verb: VerbItemCreated, Item: ref}
}

// ItemModified describes the first content write on a clean item.
func ItemModified(ref ItemRef, property string) Event {
	return Event{Verb: VerbItemModified, Item: ref, Property: property}
}

// Subject returns the identifier the event is recorded under: the item ID,
// or the filename for items built without one.
func (e Event) Subject() string {
	if e.Item.ID != "" {
		return e.Item.ID
	}
	return e.Item.Filename
}

// Normalize trims every field and stamps At when it is missing.
func (e Event) Normalize() Event {
	out := Event{
		Verb: strings.TrimSpace(e.Verb),
		Item: ItemRef{
			ID:       strings.TrimSpace(e.Item.ID),
			Format:   strings.TrimSpace(e.Item.Format),
			Filename: strings.TrimSpace(e.Item.Filename),
		},
		Property: strings.TrimSpace(e.Property),
		Actor: Actor{
			ActorID:  strings.TrimSpace(e.Actor.ActorID),
			UserID:   strings.TrimSpace(e.Actor.UserID),
			TenantID: strings.TrimSpace(e.Actor.TenantID),
		},
		Channel: strings.TrimSpace(e.Channel),
		At:      e.At,
	}
	if out.At.IsZero() {
		out.At = time.Now()
	}
	return out
}

// Valid reports whether the event names a verb and a subject.
func (e Event) Valid() bool {
	return e.Verb != "" && e.Subject() != ""
}
