package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"community-bot/pkg"
	"community-bot/pkg/announce"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, announce.Job) error {
	return nil
}

func newTestHandler(t *testing.T, managerRoleID snowflake.ID) *Handler {
	t.Helper()
	now := time.Date(2025, time.January, 1, 8, 0, 0, 0, time.Local)
	s := announce.New(nopDispatcher{},
		announce.WithClock(func() time.Time {
			return now
		}),
		announce.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return &Handler{
		Bot:    &pkg.Bot{Scheduler: s},
		Config: &pkg.Config{Prefix: "!", ManagerRoleID: managerRoleID},
	}
}

func TestParseSchedule(t *testing.T) {
	schedule, start, err := ParseSchedule("2025-01-01", "10:00", "onetime")
	require.NoError(t, err)
	assert.Equal(t, announce.KindOneTime, schedule.Kind)
	assert.Equal(t, time.Date(2025, time.January, 1, 10, 0, 0, 0, time.Local), schedule.RunAt)
	assert.Equal(t, schedule.RunAt, start)

	schedule, _, err = ParseSchedule("2025-01-01", "09:30", "Recurring")
	require.NoError(t, err)
	assert.Equal(t, announce.Daily(9, 30), schedule)
}

func TestParseScheduleErrors(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		kind  string
	}{
		{name: "bad date", date: "2025-13-01", clock: "10:00", kind: "onetime"},
		{name: "bad time", date: "2025-01-01", clock: "25:00", kind: "onetime"},
		{name: "us date", date: "01/01/2025", clock: "10:00", kind: "onetime"},
		{name: "unknown kind", date: "2025-01-01", clock: "10:00", kind: "weekly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseSchedule(tt.date, tt.clock, tt.kind)

			var parseErr *announce.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestScheduleAnnouncement(t *testing.T) {
	h := newTestHandler(t, 0)

	reply := h.scheduleAnnouncement("2025-01-01", "10:00", "onetime", "Office hours at 10", 9)

	jobs := h.Bot.Scheduler.List()
	require.Len(t, jobs, 1)
	assert.Contains(t, reply.Content, "**2025-01-01 10:00**")
	assert.Contains(t, reply.Content, jobs[0].ID)
	assert.EqualValues(t, 9, jobs[0].Target)
}

func TestScheduleAnnouncementFailures(t *testing.T) {
	h := newTestHandler(t, 0)

	for _, reply := range []string{
		h.scheduleAnnouncement("2025-01-01", "10:00", "onetime", "  ", 0).Content,
		h.scheduleAnnouncement("tomorrow", "10:00", "onetime", "text", 0).Content,
		h.scheduleAnnouncement("2024-12-31", "10:00", "onetime", "text", 0).Content,
	} {
		assert.NotEmpty(t, reply)
	}
	assert.Zero(t, h.Bot.Scheduler.Len())
}

func TestEditAndDeleteAnnouncement(t *testing.T) {
	h := newTestHandler(t, 0)
	job, err := h.Bot.Scheduler.Schedule(announce.Daily(9, 0), time.Time{}, 0, "old")
	require.NoError(t, err)

	assert.Equal(t, "Announcement edited successfully.", h.editAnnouncement(job.ID, "new").Content)
	assert.Equal(t, "Announcement with ID zzz not found.", h.editAnnouncement("zzz", "new").Content)
	edited, err := h.Bot.Scheduler.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", edited.Payload)

	assert.Contains(t, h.deleteAnnouncement(job.ID).Content, "deleted successfully")
	assert.Equal(t, "Announcement with ID "+job.ID+" not found.", h.deleteAnnouncement(job.ID).Content)
	assert.Zero(t, h.Bot.Scheduler.Len())
}

func TestViewAnnouncements(t *testing.T) {
	h := newTestHandler(t, 0)
	assert.Equal(t, "No upcoming announcements.", h.viewAnnouncements().Content)

	later, err := h.Bot.Scheduler.Schedule(announce.Daily(11, 0), time.Time{}, 0, "later")
	require.NoError(t, err)
	sooner, err := h.Bot.Scheduler.Schedule(announce.Daily(9, 0), time.Time{}, 0, "  line one\n  line two")
	require.NoError(t, err)

	reply := h.viewAnnouncements()

	require.Len(t, reply.Embeds, 1)
	fields := reply.Embeds[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "**Job ID:** "+sooner.ID, fields[0].Name)
	assert.Equal(t, "**Job ID:** "+later.ID, fields[1].Name)
	assert.Contains(t, fields[0].Value, "**Date and Time:** 2025-01-01 09:00")
	assert.Contains(t, fields[0].Value, "**Type:** Recurring")
	assert.Contains(t, fields[0].Value, "line one\nline two")
}

func TestJobFieldTruncates(t *testing.T) {
	job := announce.Job{Payload: strings.Repeat("é", 2000), Schedule: announce.Daily(9, 0)}

	value := jobField(job)

	assert.Len(t, []rune(value), maxFieldLength)
	assert.True(t, strings.HasSuffix(value, "..."))
}

func TestParseScheduleKeepsWallClockOnDaylightSavingGap(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	local := time.Local
	time.Local = loc
	t.Cleanup(func() {
		time.Local = local
	})

	schedule, _, err := ParseSchedule("2025-03-09", "02:30", "recurring")

	require.NoError(t, err)
	assert.Equal(t, announce.Daily(2, 30), schedule)
}

func TestViewAnnouncementsFitsEmbedLimit(t *testing.T) {
	h := newTestHandler(t, 0)
	for i := range 8 {
		_, err := h.Bot.Scheduler.Schedule(announce.Daily(9, i), time.Time{}, 0, strings.Repeat("x", 900))
		require.NoError(t, err)
	}

	reply := h.viewAnnouncements()

	require.Len(t, reply.Embeds, 1)
	embed := reply.Embeds[0]
	total := len([]rune(embed.Title))
	for _, field := range embed.Fields {
		total += len([]rune(field.Name)) + len([]rune(field.Value))
	}
	require.NotNil(t, embed.Footer)
	total += len([]rune(embed.Footer.Text))

	assert.LessOrEqual(t, total, maxEmbedLength)
	assert.Less(t, len(embed.Fields), 8)
	assert.Equal(t, fmt.Sprintf("%d more not shown", 8-len(embed.Fields)), embed.Footer.Text)
}

func TestAnnouncementTextTooLong(t *testing.T) {
	h := newTestHandler(t, 0)
	long := strings.Repeat("é", MaxTextLength+1)

	reply := h.scheduleAnnouncement("2025-01-01", "10:00", "onetime", long, 0)
	assert.Contains(t, reply.Content, "longer than **4096** characters")
	assert.Zero(t, h.Bot.Scheduler.Len())

	job, err := h.Bot.Scheduler.Schedule(announce.Daily(9, 0), time.Time{}, 0, "keep")
	require.NoError(t, err)
	reply = h.editAnnouncement(job.ID, long)
	assert.Contains(t, reply.Content, "longer than **4096** characters")
	kept, err := h.Bot.Scheduler.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", kept.Payload)

	reply = h.scheduleAnnouncement("2025-01-01", "10:00", "onetime", strings.Repeat("é", MaxTextLength), 0)
	assert.Contains(t, reply.Content, "scheduled for")
}

func TestSlashTextOptionsAreCapped(t *testing.T) {
	command := Commands[0].(discord.SlashCommandCreate)
	capped := 0
	for _, option := range command.Options {
		sub := option.(discord.ApplicationCommandOptionSubCommand)
		for _, o := range sub.Options {
			if s, ok := o.(discord.ApplicationCommandOptionString); ok && s.Name == "text" {
				require.NotNil(t, s.MaxLength)
				assert.Equal(t, MaxTextLength, *s.MaxLength)
				capped++
			}
		}
	}
	assert.Equal(t, 2, capped)
}
