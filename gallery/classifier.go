package gallery

import (
	"context"
	"strings"
	"time"

	"github.com/creepcomp/gallerybot/platform"
	Logger "github.com/creepcomp/gallerybot/utils/log"
)

const (
	noticeTTL    = 5 * time.Second
	rejectNotice = "Only image uploads and direct image links are allowed here."
)

// Classifier routes every message of the moderated channel to exactly one of:
// mention update, new post, or rejection. It holds no per-message state.
type Classifier struct {
	channel   platform.Channel
	validator *Validator
	scanner   *Scanner
	renderer  *Renderer
	cache     *OwnerCache
}

func NewClassifier(channel platform.Channel, validator *Validator, scanner *Scanner, renderer *Renderer, cache *OwnerCache) *Classifier {
	return &Classifier{
		channel:   channel,
		validator: validator,
		scanner:   scanner,
		renderer:  renderer,
		cache:     cache,
	}
}

// HandleMessage classifies one incoming channel message and performs the
// resulting action. Messages authored by the bot itself are ignored before
// anything else.
func (c *Classifier) HandleMessage(ctx context.Context, msg platform.Message) error {
	if msg.Bot {
		return nil
	}

	text := strings.TrimSpace(msg.Text)

	// A mention-only message updates the attribution of the author's latest
	// post instead of creating anything.
	if len(msg.Files) == 0 && !c.validator.MatchesImageURL(text) && len(msg.Mentions) > 0 {
		if c.updateMentions(ctx, msg) {
			return nil
		}
	}

	if len(msg.Files) > 0 {
		for _, file := range msg.Files {
			if c.validator.ValidFilename(file.Name) {
				return c.renderer.PublishFromFile(ctx, msg, file)
			}
		}
		c.reject(ctx, msg)
		return nil
	}

	if c.validator.MatchesImageURL(text) {
		if !c.validator.ValidImageURL(ctx, text) {
			c.reject(ctx, msg)
			return nil
		}
		return c.renderer.PublishFromURL(ctx, msg, text)
	}

	c.reject(ctx, msg)
	return nil
}

// updateMentions overwrites only the attribution field of the author's most
// recent post. Title, description and tags are left untouched. Returns false
// when the author has no discoverable post.
func (c *Classifier) updateMentions(ctx context.Context, msg platform.Message) bool {
	post, found := c.findAuthorPost(ctx, msg.Ref.ChannelID, msg.AuthorID)
	if !found {
		return false
	}

	tags := make([]string, 0, len(msg.Mentions))
	for _, id := range msg.Mentions {
		tags = append(tags, platform.MentionTag(id))
	}
	post.Mentions = strings.Join(tags, " ")

	if err := c.channel.Update(ctx, post.Ref, post.Attachment(), PostControls()); err != nil {
		Logger.Log.Errorf("failed to update mentions on %s: %v", post.Ref, err)
		return false
	}
	if err := c.channel.Delete(ctx, msg.Ref); err != nil {
		Logger.Log.Errorf("failed to delete mention message %s: %v", msg.Ref, err)
	}
	return true
}

// findAuthorPost consults the history scanner first (the authority) and only
// falls back to the best-effort cache for posts that have scrolled out of the
// scan window. A cache hit is re-verified against the live message footer.
func (c *Classifier) findAuthorPost(ctx context.Context, channelID, authorID string) (Post, bool) {
	post, found, err := c.scanner.FindLatestPost(ctx, channelID, authorID)
	if err != nil {
		Logger.Log.Errorf("history scan failed in %s: %v", channelID, err)
		return Post{}, false
	}
	if found {
		return post, true
	}

	ref, ok := c.cache.Get(authorID)
	if !ok {
		return Post{}, false
	}
	msg, err := c.channel.Fetch(ctx, ref)
	if err != nil {
		c.cache.Forget(authorID)
		return Post{}, false
	}
	cached, ok := DecodePost(msg)
	if !ok {
		c.cache.Forget(authorID)
		return Post{}, false
	}
	if owner, ok := ParseOwner(cached.OwnerID); !ok || owner != authorID {
		c.cache.Forget(authorID)
		return Post{}, false
	}
	return cached, true
}

// reject deletes the offending message and leaves a short-lived explanation.
func (c *Classifier) reject(ctx context.Context, msg platform.Message) {
	if err := c.channel.Delete(ctx, msg.Ref); err != nil {
		Logger.Log.Errorf("failed to delete rejected message %s: %v", msg.Ref, err)
	}
	c.channel.Notice(ctx, msg.Ref.ChannelID, rejectNotice, noticeTTL)
}
