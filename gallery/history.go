package gallery

import (
	"context"

	"github.com/creepcomp/gallerybot/platform"
)

// historyWindow bounds how far back the scanner looks. Posts older than the
// window are only reachable through the owner cache hint.
const historyWindow = 50

// Scanner locates moderated posts in recent channel history. The scan is a
// bounded linear pass, newest first; no index is maintained.
type Scanner struct {
	channel platform.Channel
}

func NewScanner(channel platform.Channel) *Scanner {
	return &Scanner{channel: channel}
}

// FindLatestPost returns the most recent post in the channel whose footer
// equals ownerID, or found == false when the window holds none.
func (s *Scanner) FindLatestPost(ctx context.Context, channelID, ownerID string) (Post, bool, error) {
	messages, err := s.channel.History(ctx, channelID, historyWindow)
	if err != nil {
		return Post{}, false, err
	}
	for _, msg := range messages {
		post, ok := DecodePost(msg)
		if !ok {
			continue
		}
		owner, ok := ParseOwner(post.OwnerID)
		if ok && owner == ownerID {
			return post, true, nil
		}
	}
	return Post{}, false, nil
}
