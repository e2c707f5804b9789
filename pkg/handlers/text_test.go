package handlers

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	args, rest := splitArgs("  2025-01-01 10:00\tonetime Office hours\nRoom 101 ", 3)

	assert.Equal(t, []string{"2025-01-01", "10:00", "onetime"}, args)
	assert.Equal(t, "Office hours\nRoom 101", rest)

	args, rest = splitArgs("only", 3)
	assert.Equal(t, []string{"only"}, args)
	assert.Empty(t, rest)

	args, rest = splitArgs("   ", 1)
	assert.Empty(t, args)
	assert.Empty(t, rest)
}

func TestHandleTextIgnoresOtherMessages(t *testing.T) {
	h := newTestHandler(t, 0)

	for _, content := range []string{
		"hello",
		"schedule_announcement 2025-01-01 10:00 onetime no prefix",
		"!",
		"!help",
		"?view_announcements",
	} {
		_, ok := h.HandleText(content, 1, nil)
		assert.False(t, ok, content)
	}
}

func TestHandleTextSchedule(t *testing.T) {
	h := newTestHandler(t, 0)

	reply, ok := h.HandleText("!schedule_announcement 2025-01-01 10:00 onetime Office hours\nRoom 101", 4, nil)

	require.True(t, ok)
	jobs := h.Bot.Scheduler.List()
	require.Len(t, jobs, 1)
	assert.Equal(t, "Office hours\nRoom 101", jobs[0].Payload)
	assert.EqualValues(t, 4, jobs[0].Target)
	assert.Contains(t, reply.Content, jobs[0].ID)
}

func TestHandleTextScheduleUsage(t *testing.T) {
	h := newTestHandler(t, 0)

	reply, ok := h.HandleText("!schedule_announcement 2025-01-01 10:00", 4, nil)

	require.True(t, ok)
	assert.Equal(t, scheduleUsage, reply.Content)
	assert.Zero(t, h.Bot.Scheduler.Len())
}

func TestHandleTextBadDate(t *testing.T) {
	h := newTestHandler(t, 0)

	reply, ok := h.HandleText("!schedule_announcement 2025/01/01 10:00 onetime text", 4, nil)

	require.True(t, ok)
	assert.Contains(t, reply.Content, "Could not parse the schedule")
	assert.Zero(t, h.Bot.Scheduler.Len())
}

func TestHandleTextEditViewDelete(t *testing.T) {
	h := newTestHandler(t, 0)
	_, ok := h.HandleText("!schedule_announcement 2025-01-01 09:00 recurring Stand-up", 4, nil)
	require.True(t, ok)
	id := h.Bot.Scheduler.List()[0].ID

	reply, ok := h.HandleText("!edit_announcement "+id+" Stand-up moved\nto room 2", 4, nil)
	require.True(t, ok)
	assert.Equal(t, "Announcement edited successfully.", reply.Content)
	job, err := h.Bot.Scheduler.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Stand-up moved\nto room 2", job.Payload)

	reply, ok = h.HandleText("!edit_announcement zzz text", 4, nil)
	require.True(t, ok)
	assert.Equal(t, "Announcement with ID zzz not found.", reply.Content)

	reply, ok = h.HandleText("!view_announcements", 4, nil)
	require.True(t, ok)
	require.Len(t, reply.Embeds, 1)
	assert.Len(t, reply.Embeds[0].Fields, 1)

	reply, ok = h.HandleText("!delete_announcement", 4, nil)
	require.True(t, ok)
	assert.Contains(t, reply.Content, "Usage")

	reply, ok = h.HandleText("!delete_announcement "+id, 4, nil)
	require.True(t, ok)
	assert.Contains(t, reply.Content, "deleted successfully")

	reply, ok = h.HandleText("!view_announcements", 4, nil)
	require.True(t, ok)
	assert.Equal(t, "No upcoming announcements.", reply.Content)
}

func TestHandleTextManagerRole(t *testing.T) {
	h := newTestHandler(t, 42)

	reply, ok := h.HandleText("!view_announcements", 4, []snowflake.ID{7})
	require.True(t, ok)
	assert.Equal(t, notAllowed, reply.Content)

	reply, ok = h.HandleText("!view_announcements", 4, []snowflake.ID{7, 42})
	require.True(t, ok)
	assert.Equal(t, "No upcoming announcements.", reply.Content)
}
