package gallery

import (
	"context"
	"strings"

	"github.com/creepcomp/gallerybot/platform"
	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/pkg/errors"
)

// Renderer turns an approved image source into the canonical moderated post.
// The image bytes are always fetched and rehosted so the post survives the
// source link going away. Publishing is a single message send, so a post
// either appears complete (image, footer, controls) or not at all; the
// triggering message is deleted in either case.
type Renderer struct {
	channel platform.Channel
	http    *HttpClient
	cache   *OwnerCache
}

func NewRenderer(channel platform.Channel, client *HttpClient, cache *OwnerCache) *Renderer {
	return &Renderer{channel: channel, http: client, cache: cache}
}

// PublishFromFile rehosts an uploaded attachment and publishes the post.
func (r *Renderer) PublishFromFile(ctx context.Context, src platform.Message, file platform.File) error {
	data, err := r.channel.DownloadFile(ctx, file.URLPrivate)
	if err != nil {
		r.cleanupSource(ctx, src)
		return errors.Wrap(err, "download attachment")
	}
	return r.publish(ctx, src, file.Name, data)
}

// PublishFromURL fetches the remote image and publishes the post.
func (r *Renderer) PublishFromURL(ctx context.Context, src platform.Message, url string) error {
	data, err := r.http.Get(ctx, url)
	if err != nil {
		r.cleanupSource(ctx, src)
		return errors.Wrap(err, "fetch image")
	}
	return r.publish(ctx, src, url[strings.LastIndex(url, "/")+1:], data)
}

func (r *Renderer) publish(ctx context.Context, src platform.Message, filename string, data []byte) error {
	hosted, err := r.channel.Rehost(ctx, filename, data)
	if err != nil {
		r.cleanupSource(ctx, src)
		return errors.Wrap(err, "rehost image")
	}

	post := Post{
		OwnerID:  src.AuthorID,
		Mentions: platform.MentionTag(src.AuthorID),
		Tags:     DefaultTags,
		ImageURL: hosted,
	}

	ref, err := r.channel.Send(ctx, src.Ref.ChannelID, post.Attachment(), PostControls())
	if err != nil {
		r.cleanupSource(ctx, src)
		return errors.Wrap(err, "publish post")
	}

	r.cache.Put(src.AuthorID, ref)
	r.cleanupSource(ctx, src)
	return nil
}

// cleanupSource removes the triggering message. Runs on success and failure
// alike; a leftover source message is worse than a missing post.
func (r *Renderer) cleanupSource(ctx context.Context, src platform.Message) {
	if err := r.channel.Delete(ctx, src.Ref); err != nil {
		Logger.Log.Errorf("failed to delete source message %s: %v", src.Ref, err)
	}
}
