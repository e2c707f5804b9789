package pkg

import (
	"community-bot/pkg/announce"
	"community-bot/pkg/db"
	"community-bot/pkg/greet"
	"community-bot/pkg/platform"
	"community-bot/pkg/roles"
)

// Bot holds the process-scoped components. It is built once in main and
// lives until shutdown; DB is nil when no database is configured.
type Bot struct {
	DB        *db.DB
	Guild     *platform.Guild
	Scheduler *announce.Scheduler
	Roles     *roles.Menu
	Greeter   *greet.Greeter
}
