package admin

// Bulk purge of recent channel messages. Administrator-gated by the caller;
// deletions are paced so the platform does not start rejecting the calls.

import (
	"context"

	"github.com/creepcomp/gallerybot/platform"
	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// chat.delete sits in the platform's slowest rate tier, roughly one call per
// second sustained.
const deleteInterval = rate.Limit(1)

// Channel is the slice of the platform API the purger needs.
type Channel interface {
	History(ctx context.Context, channelID string, limit int) ([]platform.Message, error)
	Delete(ctx context.Context, ref platform.MessageRef) error
}

type Purger struct {
	channel Channel
	limiter *rate.Limiter
}

func NewPurger(channel Channel) *Purger {
	return &Purger{
		channel: channel,
		limiter: rate.NewLimiter(deleteInterval, 1),
	}
}

// Purge deletes up to limit most recent non-bot messages from the channel and
// returns how many were removed. Bot messages (including gallery posts) are
// left alone. The first failed deletion aborts the run.
func (p *Purger) Purge(ctx context.Context, channelID string, limit int) (int, error) {
	messages, err := p.channel.History(ctx, channelID, limit)
	if err != nil {
		return 0, errors.Wrap(err, "read purge window")
	}

	deleted := 0
	for _, msg := range messages {
		if msg.Bot {
			continue
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return deleted, err
		}
		if err := p.channel.Delete(ctx, msg.Ref); err != nil {
			return deleted, errors.Wrapf(err, "delete message %s", msg.Ref)
		}
		deleted++
	}

	Logger.Log.Infof("purged %d messages from %s", deleted, channelID)
	return deleted, nil
}
