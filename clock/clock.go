package clock

// Clock renames a configured channel to the current time once a minute,
// independent of the gallery core.

import (
	"context"
	"fmt"
	"time"

	Logger "github.com/creepcomp/gallerybot/utils/log"
)

// Renamer is the slice of the platform API the clock needs.
type Renamer interface {
	Rename(ctx context.Context, channelID, name string) error
}

type Config struct {
	// Name of the module instance.
	Name string

	// ChannelID is the channel whose name mirrors the clock.
	ChannelID string

	Interval time.Duration
}

type Clock struct {
	Config Config

	channel Renamer
}

func New(config Config, channel Renamer) *Clock {
	if config.Interval == 0 {
		config.Interval = time.Minute
	}
	return &Clock{Config: config, channel: channel}
}

// ChannelName renders the channel name for a point in time. Channel names
// must be lowercase without spaces or colons.
func ChannelName(t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("time-%02d-%02d-utc", utc.Hour(), utc.Minute())
}

func (c *Clock) RunModule(ctx context.Context) error {
	ticker := time.NewTicker(c.Config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := c.channel.Rename(ctx, c.Config.ChannelID, ChannelName(now)); err != nil {
				// Renaming is best effort, keep ticking.
				Logger.Log.Errorf("failed to rename clock channel: %v", err)
			}
		}
	}
}

func (c *Clock) Name() string {
	return c.Config.Name
}
