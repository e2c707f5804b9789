package pkg

import (
	"os"
	"strconv"
	"strings"
	"time"

	"community-bot/pkg/announce"
	"community-bot/pkg/config"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
)

type Config struct {
	Token        string
	GuildID      snowflake.ID
	Prefix       string
	SyncCommands bool

	ServerName          string
	AnnouncementChannel string
	RolesChannel        string
	WelcomeChannel      string
	TargetMode          config.TargetMode
	ThumbnailURL        string
	ManagerRoleID       snowflake.ID

	PollInterval    time.Duration
	DeliveryTimeout time.Duration

	DatabaseURL  string
	SentryDSN    string
	Environment  string
	DebugLogPath string
}

func LoadConfig() (*Config, error) {
	c := &Config{
		Token:               os.Getenv("COMMUNITY_BOT_TOKEN"),
		Prefix:              envOr("COMMUNITY_PREFIX", "!"),
		ServerName:          envOr("COMMUNITY_SERVER_NAME", "SHPE UF Tech Cabinet"),
		AnnouncementChannel: envOr("COMMUNITY_ANNOUNCEMENT_CHANNEL", "office-hours"),
		RolesChannel:        envOr("COMMUNITY_ROLES_CHANNEL", "roles"),
		WelcomeChannel:      envOr("COMMUNITY_WELCOME_CHANNEL", "welcome"),
		ThumbnailURL:        envOr("COMMUNITY_THUMBNAIL_URL", announce.DefaultThumbnailURL),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		SentryDSN:           os.Getenv("SENTRY_DSN"),
		Environment:         os.Getenv("COMMUNITY_ENVIRONMENT"),
		DebugLogPath:        os.Getenv("COMMUNITY_DEBUG_LOG"),
	}
	if c.Token == "" {
		return nil, errors.New("COMMUNITY_BOT_TOKEN is required")
	}

	var err error
	if c.GuildID, err = envID("COMMUNITY_GUILD_ID"); err != nil {
		return nil, err
	}
	if c.ManagerRoleID, err = envID("COMMUNITY_MANAGER_ROLE_ID"); err != nil {
		return nil, err
	}
	if c.TargetMode, err = config.ParseTargetMode(os.Getenv("COMMUNITY_TARGET_MODE")); err != nil {
		return nil, errors.Wrap(err, "COMMUNITY_TARGET_MODE")
	}
	if c.PollInterval, err = envDuration("COMMUNITY_POLL_INTERVAL", announce.DefaultPollInterval); err != nil {
		return nil, err
	}
	if c.DeliveryTimeout, err = envDuration("COMMUNITY_DELIVERY_TIMEOUT", announce.DefaultDeliveryTimeout); err != nil {
		return nil, err
	}
	if v := os.Getenv("COMMUNITY_SYNC_COMMANDS"); v != "" {
		if c.SyncCommands, err = strconv.ParseBool(v); err != nil {
			return nil, errors.Wrap(err, "COMMUNITY_SYNC_COMMANDS")
		}
	}
	return c, nil
}

func (c *Config) IsProd() bool {
	return strings.EqualFold(c.Environment, "PROD")
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envID(key string) (snowflake.ID, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	id, err := snowflake.Parse(v)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	return id, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	if d <= 0 {
		return 0, errors.Newf("%s must be positive", key)
	}
	return d, nil
}
