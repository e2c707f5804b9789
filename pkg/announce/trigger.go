package announce

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func (s Schedule) Validate() error {
	switch s.Kind {
	case KindOneTime:
		if s.RunAt.IsZero() {
			return errors.New("one-time schedule requires a run time")
		}
	case KindRecurring:
		if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
			return errors.Newf("invalid time of day %02d:%02d", s.Hour, s.Minute)
		}
	default:
		return errors.Newf("unknown schedule kind %d", s.Kind)
	}
	return nil
}

// Cron returns the crontab expression of a recurring schedule.
func (s Schedule) Cron() string {
	return fmt.Sprintf("%d %d * * *", s.Minute, s.Hour)
}

func (s Schedule) daily() (cron.Schedule, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return cronParser.Parse(s.Cron())
}

// FirstRun computes the initial fire time of a schedule. Recurring schedules
// start at the first occurrence at or after start that is strictly after now;
// a zero start means now.
func FirstRun(s Schedule, now time.Time, start time.Time) (time.Time, error) {
	switch s.Kind {
	case KindOneTime:
		if err := s.Validate(); err != nil {
			return time.Time{}, err
		}
		if !s.RunAt.After(now) {
			return time.Time{}, errors.WithDetailf(ErrInPast, "run at %s, now %s", s.RunAt.Format(time.DateTime), now.Format(time.DateTime))
		}
		return s.RunAt, nil
	case KindRecurring:
		daily, err := s.daily()
		if err != nil {
			return time.Time{}, err
		}
		anchor := now
		if !start.IsZero() && start.Add(-time.Second).After(now) {
			anchor = start.Add(-time.Second)
		}
		return daily.Next(anchor), nil
	}
	return time.Time{}, errors.Newf("unknown schedule kind %d", s.Kind)
}

// IsDue reports whether a job's next run has been reached.
func IsDue(job Job, now time.Time) bool {
	return job.Status == StatusPending && !job.NextRunAt.IsZero() && !now.Before(job.NextRunAt)
}

// NextAfterFire returns the occurrence following a fire observed at now.
// One-time schedules are exhausted and return false. Recurring schedules skip
// any windows missed while the loop was not observing, so one late wake-up
// yields exactly one fire.
func NextAfterFire(s Schedule, now time.Time) (time.Time, bool) {
	if s.Kind != KindRecurring {
		return time.Time{}, false
	}
	daily, err := s.daily()
	if err != nil {
		return time.Time{}, false
	}
	return daily.Next(now), true
}
