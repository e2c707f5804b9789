package main

import (
	"community-bot/pkg"
	"community-bot/pkg/announce"
	"community-bot/pkg/db"
	"community-bot/pkg/greet"
	"community-bot/pkg/handlers"
	"community-bot/pkg/platform"
	"community-bot/pkg/roles"
	"community-bot/pkg/util"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry"
	"golang.org/x/sync/errgroup"
)

const (
	setupTimeout = 30 * time.Second
)

func main() {
	cfg, err := pkg.LoadConfig()
	if err != nil {
		panic(err)
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:           cfg.SentryDSN,
		Environment:   cfg.Environment,
		EnableTracing: false,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if cfg.IsProd() { // only log events in prod
				return event
			}
			return nil
		},
	})
	if err != nil {
		panic(err)
	}

	defer sentry.Flush(2 * time.Second)

	logHandlers := []slog.Handler{
		tint.NewHandler(os.Stdout, &tint.Options{
			Level: slog.LevelInfo,
		}),
		slogsentry.Option{Level: slog.LevelWarn}.NewSentryHandler(),
	}
	if cfg.DebugLogPath != "" {
		fileWriter, err := os.OpenFile(cfg.DebugLogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			panic(err)
		}
		defer fileWriter.Close()
		logHandlers = append(logHandlers, slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(slog.New(slogmulti.Fanout(logHandlers...)))

	slog.Info("starting the bot...", slog.String("disgo.version", disgo.Version))

	b := &pkg.Bot{}
	var store roles.MessageStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			panic(err)
		}
		defer pool.Close()
		b.DB = db.NewDB(pool)
		if err := b.DB.Migrate(context.Background()); err != nil {
			panic(err)
		}
		store = b.DB
	}

	h := handlers.NewHandler(b, cfg)

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMembers,
			gateway.IntentGuildMessages,
			gateway.IntentGuildMessageReactions,
			gateway.IntentMessageContent),
			gateway.WithPresenceOpts(gateway.WithWatchingActivity("the office hours"))),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagChannels, cache.FlagRoles)),
		bot.WithRestClientConfigOpts(rest.WithHTTPClient(util.NewRestClient(cfg.DeliveryTimeout))),
		bot.WithEventListeners(h, &events.ListenerAdapter{
			OnReady: func(ev *events.Ready) {
				onReady(ev, b)
			},
			OnGuildMemberJoin: func(ev *events.GuildMemberJoin) {
				if ev.GuildID != b.Guild.GuildID() {
					return
				}
				ctx, cancel := context.WithTimeout(context.Background(), cfg.DeliveryTimeout)
				defer cancel()
				if err := b.Greeter.Welcome(ctx, ev.Member.User); err != nil {
					slog.Error("greet: error while welcoming a member", slog.Any("user.id", ev.Member.User.ID), tint.Err(err))
				}
			},
			OnGuildMessageReactionAdd: func(ev *events.GuildMessageReactionAdd) {
				if ev.GuildID != b.Guild.GuildID() {
					return
				}
				ctx, cancel := context.WithTimeout(context.Background(), cfg.DeliveryTimeout)
				defer cancel()
				if err := b.Roles.HandleReactionAdd(ctx, ev.UserID, ev.MessageID, util.EmojiKey(ev.Emoji), ev.Member.User.Bot); err != nil {
					slog.Error("roles: error while assigning a role", slog.Any("user.id", ev.UserID), slog.Any("message.id", ev.MessageID), tint.Err(err))
				}
			},
			OnGuildMessageReactionRemove: func(ev *events.GuildMessageReactionRemove) {
				if ev.GuildID != b.Guild.GuildID() {
					return
				}
				ctx, cancel := context.WithTimeout(context.Background(), cfg.DeliveryTimeout)
				defer cancel()
				if err := b.Roles.HandleReactionRemove(ctx, ev.UserID, ev.MessageID, util.EmojiKey(ev.Emoji)); err != nil {
					slog.Error("roles: error while removing a role", slog.Any("user.id", ev.UserID), slog.Any("message.id", ev.MessageID), tint.Err(err))
				}
			},
			OnGuildMessageCreate: h.OnGuildMessageCreate,
		}))
	if err != nil {
		panic(err)
	}

	b.Guild = platform.New(client.Rest, cfg.GuildID)
	b.Roles = roles.NewMenu(b.Guild, store, cfg.RolesChannel, roles.DefaultOptions)
	b.Greeter = greet.New(b.Guild, cfg.ServerName, cfg.WelcomeChannel, cfg.RolesChannel)
	b.Scheduler = announce.New(announce.NewAnnouncer(b.Guild, b.Guild, announce.AnnouncerConfig{
		Mode:         cfg.TargetMode,
		ChannelName:  cfg.AnnouncementChannel,
		ThumbnailURL: cfg.ThumbnailURL,
	}),
		announce.WithPollInterval(cfg.PollInterval),
		announce.WithDeliveryTimeout(cfg.DeliveryTimeout))

	if cfg.SyncCommands {
		var guildIDs []snowflake.ID
		if cfg.GuildID != 0 {
			guildIDs = append(guildIDs, cfg.GuildID)
		}
		if err := handler.SyncCommands(client, handlers.Commands, guildIDs); err != nil {
			slog.Error("error while syncing commands", tint.Err(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	defer client.Close(context.TODO())

	if err := client.OpenGateway(ctx); err != nil {
		panic(err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return b.Scheduler.Run(ctx)
	})

	slog.Info("community bot is now running.")
	<-ctx.Done()
	if err := eg.Wait(); err != nil {
		slog.Error("error while stopping the scheduler", tint.Err(err))
	}
	slog.Info("shutting down.", slog.Int("announcements.dropped", b.Scheduler.Len()))
}

func onReady(ev *events.Ready, b *pkg.Bot) {
	b.Guild.SetSelf(ev.User.ID)
	if len(ev.Guilds) != 0 && b.Guild.SetGuild(ev.Guilds[0].ID) {
		slog.Info("using guild from the ready event", slog.Any("guild.id", ev.Guilds[0].ID))
	}
	if b.Guild.GuildID() == 0 {
		slog.Warn("bot is not a member of any guild")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
		defer cancel()
		if err := b.Roles.Ensure(ctx); err != nil {
			slog.Error("roles: error while setting up the role selection message", slog.Any("guild.id", b.Guild.GuildID()), tint.Err(err))
		}
	}()
}
