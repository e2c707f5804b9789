package announce

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrNotFound       = errors.New("announcement not found")
	ErrInPast         = errors.New("announcement time is in the past")
	ErrAlreadyRunning = errors.New("scheduler is already running")
)

// ParseError is returned when a date, time or schedule kind cannot be parsed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type ChannelMissingError struct {
	Name string
}

func (e *ChannelMissingError) Error() string {
	return fmt.Sprintf("channel %q not found", e.Name)
}

type DeliveryError struct {
	ChannelID snowflake.ID
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to channel %s failed: %v", e.ChannelID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
