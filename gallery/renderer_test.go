package gallery

import (
	"context"
	"testing"

	"github.com/creepcomp/gallerybot/platform"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func source() platform.Message {
	return platform.Message{
		Ref:      platform.MessageRef{ChannelID: "C_GALLERY", Timestamp: "10.000000"},
		AuthorID: "U42",
	}
}

func TestRendererPublishesCanonicalPost(t *testing.T) {
	channel := newFakeChannel()
	cache := NewOwnerCache()
	r := NewRenderer(channel, NewHttpClient(), cache)

	src := source()
	err := r.PublishFromFile(context.Background(), src, platform.File{Name: "cat.png", URLPrivate: "https://files/cat.png"})
	require.NoError(t, err)

	require.Len(t, channel.sent, 1)
	att := channel.sent[0].Attachment
	assert.Equal(t, "U42", att.Footer)
	assert.Empty(t, att.Title)
	assert.Empty(t, att.Text)
	assert.Equal(t, "<@U42>", att.Fields[0].Value)
	assert.Equal(t, DefaultTags, att.Fields[1].Value)
	assert.Equal(t, channel.hostedAt, att.ImageURL)
	assert.NotEmpty(t, channel.sent[0].Controls, "a post is never created without its controls")

	assert.Equal(t, []platform.MessageRef{src.Ref}, channel.deleted)
}

func TestRendererCleansUpOnPublishFailure(t *testing.T) {
	channel := newFakeChannel()
	channel.sendErr = errors.New("channel_not_found")
	r := NewRenderer(channel, NewHttpClient(), NewOwnerCache())

	src := source()
	err := r.PublishFromFile(context.Background(), src, platform.File{Name: "cat.png", URLPrivate: "https://files/cat.png"})
	require.Error(t, err)

	// No partial post, but the triggering message is still removed.
	assert.Empty(t, channel.sent)
	assert.Equal(t, []platform.MessageRef{src.Ref}, channel.deleted)
}

func TestRendererCleansUpOnFetchFailure(t *testing.T) {
	channel := newFakeChannel()
	r := NewRenderer(channel, NewHttpClient(), NewOwnerCache())

	src := source()
	// Nothing listens on this port.
	err := r.PublishFromURL(context.Background(), src, "http://127.0.0.1:1/cat.png")
	require.Error(t, err)

	assert.Empty(t, channel.sent)
	assert.Equal(t, []platform.MessageRef{src.Ref}, channel.deleted)
}
