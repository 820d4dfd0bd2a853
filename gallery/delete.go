package gallery

import (
	"context"

	"github.com/creepcomp/gallerybot/platform"
	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/pkg/errors"
)

const (
	deleteRejection    = "You can only delete your own images."
	deleteConfirmation = "Image deleted."
	deleteFailure      = "I couldn't delete that post, I may be missing permission."
)

// DeleteWorkflow drives the delete interaction: gate check, then either the
// post is removed with a private confirmation or the actor gets a private
// rejection and the post stays untouched.
type DeleteWorkflow struct {
	channel platform.Channel
	cache   *OwnerCache
}

func NewDeleteWorkflow(channel platform.Channel, cache *OwnerCache) *DeleteWorkflow {
	return &DeleteWorkflow{channel: channel, cache: cache}
}

func (w *DeleteWorkflow) HandleButton(ctx context.Context, actorID string, ref platform.MessageRef) error {
	post, verdict, err := gateOnLivePost(ctx, w.channel, actorID, ref)
	if err != nil {
		return err
	}
	if verdict != Authorized {
		return w.channel.Ephemeral(ctx, ref.ChannelID, actorID, rejectionText(verdict, deleteRejection))
	}

	if err := w.channel.Delete(ctx, ref); err != nil {
		// A failed platform call is surfaced to the actor once, no retry.
		if eerr := w.channel.Ephemeral(ctx, ref.ChannelID, actorID, deleteFailure); eerr != nil {
			Logger.Log.Errorf("failed to notify %s about delete failure on %s: %v", actorID, ref, eerr)
		}
		return errors.Wrap(err, "delete post")
	}
	// Drop the stale hint; harmless if a newer post already replaced it.
	if hint, ok := w.cache.Get(post.OwnerID); ok && hint == ref {
		w.cache.Forget(post.OwnerID)
	}
	return w.channel.Ephemeral(ctx, ref.ChannelID, actorID, deleteConfirmation)
}
