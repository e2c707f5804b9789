package announce

import (
	"context"

	"community-bot/pkg/config"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
)

const (
	DefaultTitle        = "Office Hours"
	DefaultFooter       = "Join if you need any help!"
	DefaultThumbnailURL = "https://oai.tech.uci.edu/wp-content/uploads/2023/02/shpe-logo.png"
	DefaultColor        = 0x2ECC71
)

type Notification struct {
	Title        string
	Body         string
	Footer       string
	ThumbnailURL string
	Color        int
}

type Deliverer interface {
	Deliver(ctx context.Context, channelID snowflake.ID, n Notification) error
}

type ChannelResolver interface {
	ResolveChannel(ctx context.Context, name string) (snowflake.ID, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

type AnnouncerConfig struct {
	Mode         config.TargetMode
	ChannelName  string
	Title        string
	Footer       string
	ThumbnailURL string
	Color        int
}

// Announcer turns due jobs into announcement embeds.
type Announcer struct {
	deliverer Deliverer
	resolver  ChannelResolver
	cfg       AnnouncerConfig
}

func NewAnnouncer(deliverer Deliverer, resolver ChannelResolver, cfg AnnouncerConfig) *Announcer {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Footer == "" {
		cfg.Footer = DefaultFooter
	}
	if cfg.Color == 0 {
		cfg.Color = DefaultColor
	}
	return &Announcer{
		deliverer: deliverer,
		resolver:  resolver,
		cfg:       cfg,
	}
}

func (a *Announcer) Notification(payload string) Notification {
	return Notification{
		Title:        a.cfg.Title,
		Body:         payload,
		Footer:       a.cfg.Footer,
		ThumbnailURL: a.cfg.ThumbnailURL,
		Color:        a.cfg.Color,
	}
}

func (a *Announcer) Dispatch(ctx context.Context, job Job) error {
	channelID, err := a.target(ctx, job)
	if err != nil {
		return err
	}
	if err := a.deliverer.Deliver(ctx, channelID, a.Notification(job.Payload)); err != nil {
		return &DeliveryError{ChannelID: channelID, Err: err}
	}
	return nil
}

func (a *Announcer) target(ctx context.Context, job Job) (snowflake.ID, error) {
	if a.cfg.Mode == config.TargetModeOrigin && job.Target != 0 {
		return job.Target, nil
	}
	channelID, err := a.resolver.ResolveChannel(ctx, a.cfg.ChannelName)
	if err != nil {
		var missing *ChannelMissingError
		if errors.As(err, &missing) {
			return 0, err
		}
		return 0, errors.Wrapf(err, "resolving channel %q", a.cfg.ChannelName)
	}
	if channelID == 0 {
		return 0, &ChannelMissingError{Name: a.cfg.ChannelName}
	}
	return channelID, nil
}
