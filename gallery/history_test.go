package gallery

import (
	"context"
	"testing"

	"github.com/creepcomp/gallerybot/platform"
	"github.com/stretchr/testify/require"
)

func TestFindLatestPost(t *testing.T) {
	channel := newFakeChannel()
	// Seeded oldest to newest; the fake serves history newest first.
	m1 := channel.addPost(Post{OwnerID: "A", ImageURL: "https://x/1.png"}, "1.000000")
	m2 := channel.addPost(Post{OwnerID: "B", ImageURL: "https://x/2.png"}, "2.000000")
	m3 := channel.addPost(Post{OwnerID: "A", ImageURL: "https://x/3.png"}, "3.000000")

	scanner := NewScanner(channel)

	post, found, err := scanner.FindLatestPost(context.Background(), "C_GALLERY", "A")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, m3, post.Ref, "the newest of A's posts wins, never %s", m1)

	post, found, err = scanner.FindLatestPost(context.Background(), "C_GALLERY", "B")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, m2, post.Ref)

	_, found, err = scanner.FindLatestPost(context.Background(), "C_GALLERY", "Z")
	require.NoError(t, err)
	require.False(t, found)
}

func TestFindLatestPostSkipsNonPosts(t *testing.T) {
	channel := newFakeChannel()
	channel.history = []platform.Message{
		{Ref: platform.MessageRef{ChannelID: "C_GALLERY", Timestamp: "2.000000"}, AuthorID: "A", Text: "chatter"},
	}
	ref := channel.addPost(Post{OwnerID: "A", ImageURL: "https://x/1.png"}, "3.000000")

	scanner := NewScanner(channel)
	post, found, err := scanner.FindLatestPost(context.Background(), "C_GALLERY", "A")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, ref, post.Ref)
}
