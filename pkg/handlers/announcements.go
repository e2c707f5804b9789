package handlers

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"community-bot/pkg/announce"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

// MaxTextLength is the longest announcement text an embed description holds.
const MaxTextLength = 4096

const (
	dateTimeLayout = "2006-01-02 15:04"
	clockLayout    = "15:04"
	listColor      = 0x3498DB
	listTitle      = "Upcoming Announcements"
	maxFields      = 25
	maxFieldLength = 1024
	maxEmbedLength = 6000
	footerReserve  = 32
	scheduleUsage  = "Usage: `schedule_announcement <YYYY-MM-DD> <HH:MM> <recurring|onetime> <text>`"
)

// ParseSchedule turns the date, time and kind arguments into a schedule and
// the start time used to anchor recurring schedules. Times are host-local; a
// recurring schedule keeps the requested wall-clock time even when the start
// date has a daylight saving gap.
func ParseSchedule(date string, clock string, kind string) (announce.Schedule, time.Time, error) {
	input := date + " " + clock
	day, err := time.ParseInLocation(time.DateOnly, date, time.Local)
	if err != nil {
		return announce.Schedule{}, time.Time{}, &announce.ParseError{Input: input, Err: err}
	}
	hm, err := time.Parse(clockLayout, clock)
	if err != nil {
		return announce.Schedule{}, time.Time{}, &announce.ParseError{Input: input, Err: err}
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, time.Local)
	switch strings.ToLower(kind) {
	case "recurring", "daily":
		return announce.Daily(hm.Hour(), hm.Minute()), at, nil
	case "onetime", "one-time", "once":
		return announce.OneTime(at), at, nil
	}
	return announce.Schedule{}, time.Time{}, &announce.ParseError{Input: kind, Err: errors.New("expected recurring or onetime")}
}

func (h *Handler) scheduleAnnouncement(date string, clock string, kind string, text string, channelID snowflake.ID) discord.MessageCreate {
	messageCreate := discord.NewMessageCreate()
	text = strings.TrimSpace(text)
	if text == "" {
		return messageCreate.WithContent("The announcement text is missing. " + scheduleUsage)
	}
	if tooLong(text) {
		return messageCreate.WithContentf("The announcement text is longer than **%d** characters.", MaxTextLength)
	}
	schedule, start, err := ParseSchedule(date, clock, kind)
	if err != nil {
		return messageCreate.WithContentf("Could not parse the schedule (%v). %s", err, scheduleUsage)
	}
	job, err := h.Bot.Scheduler.Schedule(schedule, start, channelID, text)
	if err != nil {
		if errors.Is(err, announce.ErrInPast) {
			return messageCreate.WithContentf("**%s** is already in the past.", start.Format(dateTimeLayout))
		}
		slog.Error("handlers: error while scheduling an announcement", slog.Any("channel.id", channelID), tint.Err(err))
		return messageCreate.WithContentf("There was an error while scheduling the announcement: %v", err)
	}
	return messageCreate.WithContentf("%s announcement scheduled for **%s**. ID: `%s`",
		kindLabel(job.Schedule.Kind), job.NextRunAt.Format(dateTimeLayout), job.ID)
}

func (h *Handler) editAnnouncement(id string, text string) discord.MessageCreate {
	messageCreate := discord.NewMessageCreate()
	text = strings.TrimSpace(text)
	if id == "" || text == "" {
		return messageCreate.WithContent("Usage: `edit_announcement <job_id> <new text>`")
	}
	if tooLong(text) {
		return messageCreate.WithContentf("The announcement text is longer than **%d** characters.", MaxTextLength)
	}
	if _, err := h.Bot.Scheduler.Edit(id, text); err != nil {
		if errors.Is(err, announce.ErrNotFound) {
			return messageCreate.WithContentf("Announcement with ID %s not found.", id)
		}
		slog.Error("handlers: error while editing an announcement", slog.String("job.id", id), tint.Err(err))
		return messageCreate.WithContentf("There was an error while editing the announcement: %v", err)
	}
	return messageCreate.WithContent("Announcement edited successfully.")
}

func (h *Handler) deleteAnnouncement(id string) discord.MessageCreate {
	messageCreate := discord.NewMessageCreate()
	if id == "" {
		return messageCreate.WithContent("Usage: `delete_announcement <job_id>`")
	}
	if _, err := h.Bot.Scheduler.Delete(id); err != nil {
		if errors.Is(err, announce.ErrNotFound) {
			return messageCreate.WithContentf("Announcement with ID %s not found.", id)
		}
		slog.Error("handlers: error while deleting an announcement", slog.String("job.id", id), tint.Err(err))
		return messageCreate.WithContentf("There was an error while deleting the announcement: %v", err)
	}
	return messageCreate.WithContentf("Announcement with ID %s has been deleted successfully.", id)
}

func (h *Handler) viewAnnouncements() discord.MessageCreate {
	jobs := h.Bot.Scheduler.List()
	if len(jobs) == 0 {
		return discord.NewMessageCreate().WithContent("No upcoming announcements.")
	}
	slices.SortStableFunc(jobs, func(a, b announce.Job) int {
		return a.NextRunAt.Compare(b.NextRunAt)
	})

	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle(listTitle)
	embedBuilder.SetColor(listColor)
	budget := maxEmbedLength - utf8.RuneCountInString(listTitle) - footerReserve
	for i, job := range jobs {
		name := "**Job ID:** " + job.ID
		value := jobField(job)
		size := utf8.RuneCountInString(name) + utf8.RuneCountInString(value)
		if i == maxFields || size > budget {
			embedBuilder.SetFooterText(fmt.Sprintf("%d more not shown", len(jobs)-i))
			break
		}
		budget -= size
		embedBuilder.AddField(name, value, false)
	}
	return discord.NewMessageCreate().WithEmbeds(embedBuilder.Build())
}

func jobField(job announce.Job) string {
	lines := strings.Split(job.Payload, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	value := fmt.Sprintf("**Date and Time:** %s\n**Type:** %s\n**Description:** \n%s",
		job.NextRunAt.Format(dateTimeLayout), job.Schedule.Kind, strings.Join(lines, "\n"))
	if runes := []rune(value); len(runes) > maxFieldLength {
		value = string(runes[:maxFieldLength-3]) + "..."
	}
	return value
}

func tooLong(text string) bool {
	return utf8.RuneCountInString(text) > MaxTextLength
}

func kindLabel(kind announce.Kind) string {
	if kind == announce.KindRecurring {
		return "Recurring"
	}
	return "One-time"
}
