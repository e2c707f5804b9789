package config

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Guild is the per-guild state kept in the database.
type Guild struct {
	RolesChannelID int64 `db:"roles_channel_id"`
	RolesMessageID int64 `db:"roles_message_id"`
}

type TargetMode int

const (
	TargetModeFixed TargetMode = iota
	TargetModeOrigin
)

func (t TargetMode) String() string {
	switch t {
	case TargetModeFixed:
		return "Post to the announcement channel"
	case TargetModeOrigin:
		return "Post to the channel the announcement was scheduled from"
	}
	return "Unknown"
}

func ParseTargetMode(s string) (TargetMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return TargetModeFixed, nil
	case "origin":
		return TargetModeOrigin, nil
	}
	return 0, errors.Newf("unknown target mode %q", s)
}
