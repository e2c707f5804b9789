package announce

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type Kind int

const (
	KindOneTime Kind = iota
	KindRecurring
)

func (k Kind) String() string {
	switch k {
	case KindOneTime:
		return "Once"
	case KindRecurring:
		return "Recurring"
	}
	return "Unknown"
}

type Status int

const (
	StatusPending Status = iota
	StatusFired
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFired:
		return "fired"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Schedule is either a one-time run at RunAt or a daily run at Hour:Minute,
// depending on Kind.
type Schedule struct {
	Kind Kind

	RunAt time.Time

	Hour   int
	Minute int
}

func OneTime(at time.Time) Schedule {
	return Schedule{Kind: KindOneTime, RunAt: at}
}

func Daily(hour int, minute int) Schedule {
	return Schedule{Kind: KindRecurring, Hour: hour, Minute: minute}
}

type Job struct {
	ID        string
	Schedule  Schedule
	Target    snowflake.ID
	Payload   string
	NextRunAt time.Time
	Status    Status
	CreatedAt time.Time
}
