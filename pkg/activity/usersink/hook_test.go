package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-items/pkg/activity"
	"github.com/goliatone/go-items/pkg/activity/usersink"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookMapsItemEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	itemID := uuid.New().String()

	event := activity.ItemModified(activity.ItemRef{ID: itemID, Format: "yaml"}, "title")
	event.Actor = activity.Actor{ActorID: actorID.String(), TenantID: "tenant-a"}
	event.Channel = "items"
	event.At = at

	require.NoError(t, hook.Notify(context.Background(), event))
	require.Len(t, sink.records, 1)

	record := sink.records[0]
	assert.Equal(t, actorID, record.ActorID)
	assert.Equal(t, uuid.Nil, record.UserID)
	assert.Equal(t, uuid.Nil, record.TenantID)
	assert.Equal(t, activity.VerbItemModified, record.Verb)
	assert.Equal(t, activity.ObjectTypeItem, record.ObjectType)
	assert.Equal(t, itemID, record.ObjectID)
	assert.Equal(t, "items", record.Channel)
	assert.Equal(t, at, record.OccurredAt)
	assert.Equal(t, "title", record.Data["property"])
	assert.Equal(t, "yaml", record.Data["format"])
	assert.Equal(t, "tenant-a", record.Data["tenant_ref"])
}

func TestHookSkipsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	require.NoError(t, hook.Notify(context.Background(), activity.Event{Verb: activity.VerbItemCreated}))
	assert.Empty(t, sink.records)
}

func TestHookUsesFilenameWithoutID(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	require.NoError(t, hook.Notify(context.Background(), activity.ItemCreated(activity.ItemRef{Filename: "/data/a.yaml"})))
	require.Len(t, sink.records, 1)
	assert.Equal(t, "/data/a.yaml", sink.records[0].ObjectID)
	assert.Equal(t, "/data/a.yaml", sink.records[0].Data["filename"])
	assert.NotContains(t, sink.records[0].Data, "property")
}

func TestHookWithoutSink(t *testing.T) {
	require.NoError(t, usersink.Hook{}.Notify(context.Background(), activity.ItemCreated(activity.ItemRef{ID: "1"})))
}

func TestHookReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}

	err := hook.Notify(context.Background(), activity.ItemCreated(activity.ItemRef{ID: "1"}))
	assert.ErrorIs(t, err, boom)
}
