package platform

// The platform package wraps everything the bot consumes from the hosting
// chat platform: sending/editing/deleting channel messages, reading channel
// history, ephemeral (actor-only) responses, modal forms and image rehosting.
// Gallery and the admin utilities talk to the Channel interface only, so unit
// tests can substitute a fake without a network.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

// MessageRef points at a single message inside a channel. Slack addresses
// messages by (channel id, message timestamp).
type MessageRef struct {
	ChannelID string
	Timestamp string
}

func (r MessageRef) String() string {
	return r.ChannelID + "|" + r.Timestamp
}

// ParseMessageRef is the inverse of MessageRef.String. It is used to recover
// the target post from a modal's private metadata.
func ParseMessageRef(s string) (MessageRef, error) {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return MessageRef{}, errors.Errorf("malformed message ref: %q", s)
	}
	return MessageRef{ChannelID: parts[0], Timestamp: parts[1]}, nil
}

// File describes one attachment of an incoming message. Content is downloaded
// lazily through Channel.DownloadFile since the platform stores bytes behind
// an authenticated URL.
type File struct {
	Name       string
	Mimetype   string
	URLPrivate string
}

// Message is the normalized view of a channel message, both for inbound
// events and for history reads.
type Message struct {
	Ref         MessageRef
	AuthorID    string
	Bot         bool
	Text        string
	Mentions    []string
	Files       []File
	Attachments []slack.Attachment
}

// Channel is the boundary abstraction over the hosting platform API.
type Channel interface {
	// Send publishes a new message carrying the attachment and the control
	// blocks, returning a reference to the created message.
	Send(ctx context.Context, channelID string, attachment slack.Attachment, controls []slack.Block) (MessageRef, error)

	// Update replaces the attachment and control blocks of an existing message.
	Update(ctx context.Context, ref MessageRef, attachment slack.Attachment, controls []slack.Block) error

	// Delete removes a message.
	Delete(ctx context.Context, ref MessageRef) error

	// History returns up to limit most recent messages of the channel,
	// newest first.
	History(ctx context.Context, channelID string, limit int) ([]Message, error)

	// Fetch reads back a single message.
	Fetch(ctx context.Context, ref MessageRef) (Message, error)

	// Ephemeral sends a message only the given user can see.
	Ephemeral(ctx context.Context, channelID, userID, text string) error

	// Notice posts a short-lived channel message that removes itself after ttl.
	Notice(ctx context.Context, channelID, text string, ttl time.Duration)

	// OpenForm presents a modal form to the user owning the trigger.
	OpenForm(ctx context.Context, triggerID string, view slack.ModalViewRequest) error

	// Rehost uploads the image bytes to platform-owned storage and returns a
	// stable URL independent of the original source.
	Rehost(ctx context.Context, filename string, data []byte) (string, error)

	// DownloadFile fetches the bytes behind an authenticated attachment URL.
	DownloadFile(ctx context.Context, urlPrivate string) ([]byte, error)

	// IsAdmin reports whether the user is a workspace administrator.
	IsAdmin(ctx context.Context, userID string) (bool, error)

	// Rename changes the display name of a channel.
	Rename(ctx context.Context, channelID, name string) error
}

// MentionTag renders a user id in the platform's mention syntax.
func MentionTag(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
