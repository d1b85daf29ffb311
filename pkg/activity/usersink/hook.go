package usersink

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-items/pkg/activity"
)

// Hook records item activity in a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify converts the event into an ActivityRecord whose object is the event
// subject. Format, filename and property land in the record data. Identities
// that are not UUIDs are recorded as uuid.Nil and kept in the data under
// "<field>_ref".
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = event.Normalize()
	if !event.Valid() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data := map[string]any{}
	put := func(key, value string) {
		if value != "" {
			data[key] = value
		}
	}
	put("format", event.Item.Format)
	put("filename", event.Item.Filename)
	put("property", event.Property)

	record := usertypes.ActivityRecord{
		Verb:       event.Verb,
		ObjectType: activity.ObjectTypeItem,
		ObjectID:   event.Subject(),
		Channel:    event.Channel,
		OccurredAt: event.At,
		ActorID:    parseID("actor", event.Actor.ActorID, data),
		UserID:     parseID("user", event.Actor.UserID, data),
		TenantID:   parseID("tenant", event.Actor.TenantID, data),
	}
	if len(data) > 0 {
		record.Data = data
	}
	return h.Sink.Log(ctx, record)
}

func parseID(field, value string, data map[string]any) uuid.UUID {
	if value == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		data[field+"_ref"] = value
		return uuid.Nil
	}
	return id
}
