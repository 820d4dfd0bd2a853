package platform

import (
	"bytes"
	"context"
	"regexp"
	"time"

	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

var (
	mentionPattern = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]*)?>`)
	linkPattern    = regexp.MustCompile(`<(https?://[^>|]+)(?:\|[^>]*)?>`)
)

// SlackChannel implements Channel over the Slack Web API.
type SlackChannel struct {
	api *slack.Client

	// Rehosted images are uploaded into this channel so the file outlives the
	// source link. Usually a private archive channel.
	archiveChannelID string
}

func NewSlackChannel(api *slack.Client, archiveChannelID string) *SlackChannel {
	return &SlackChannel{api: api, archiveChannelID: archiveChannelID}
}

func (s *SlackChannel) Send(ctx context.Context, channelID string, attachment slack.Attachment, controls []slack.Block) (MessageRef, error) {
	_, ts, err := s.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionAttachments(attachment),
		slack.MsgOptionBlocks(controls...),
	)
	if err != nil {
		return MessageRef{}, errors.Wrap(err, "post message")
	}
	return MessageRef{ChannelID: channelID, Timestamp: ts}, nil
}

func (s *SlackChannel) Update(ctx context.Context, ref MessageRef, attachment slack.Attachment, controls []slack.Block) error {
	_, _, _, err := s.api.UpdateMessageContext(ctx, ref.ChannelID, ref.Timestamp,
		slack.MsgOptionAttachments(attachment),
		slack.MsgOptionBlocks(controls...),
	)
	return errors.Wrap(err, "update message")
}

func (s *SlackChannel) Delete(ctx context.Context, ref MessageRef) error {
	_, _, err := s.api.DeleteMessageContext(ctx, ref.ChannelID, ref.Timestamp)
	return errors.Wrap(err, "delete message")
}

func (s *SlackChannel) History(ctx context.Context, channelID string, limit int) ([]Message, error) {
	resp, err := s.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "read channel history")
	}

	// conversations.history returns messages newest first already.
	messages := make([]Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		messages = append(messages, normalizeMessage(channelID, m))
	}
	return messages, nil
}

func (s *SlackChannel) Fetch(ctx context.Context, ref MessageRef) (Message, error) {
	resp, err := s.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: ref.ChannelID,
		Latest:    ref.Timestamp,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "fetch message")
	}
	if len(resp.Messages) == 0 || resp.Messages[0].Timestamp != ref.Timestamp {
		return Message{}, errors.Errorf("message %s not found", ref)
	}
	return normalizeMessage(ref.ChannelID, resp.Messages[0]), nil
}

func (s *SlackChannel) Ephemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := s.api.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	return errors.Wrap(err, "post ephemeral")
}

func (s *SlackChannel) Notice(ctx context.Context, channelID, text string, ttl time.Duration) {
	_, ts, err := s.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		Logger.Log.Errorf("failed to post notice to %s: %v", channelID, err)
		return
	}
	time.AfterFunc(ttl, func() {
		if _, _, err := s.api.DeleteMessage(channelID, ts); err != nil {
			Logger.Log.Errorf("failed to remove notice %s: %v", ts, err)
		}
	})
}

func (s *SlackChannel) OpenForm(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	_, err := s.api.OpenView(triggerID, view)
	return errors.Wrap(err, "open view")
}

func (s *SlackChannel) Rehost(ctx context.Context, filename string, data []byte) (string, error) {
	file, err := s.api.UploadFileContext(ctx, slack.FileUploadParameters{
		Reader:   bytes.NewReader(data),
		Filename: filename,
		Title:    filename,
		Channels: []string{s.archiveChannelID},
	})
	if err != nil {
		return "", errors.Wrap(err, "upload file")
	}
	return file.Permalink, nil
}

func (s *SlackChannel) DownloadFile(ctx context.Context, urlPrivate string) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.api.GetFile(urlPrivate, &buf); err != nil {
		return nil, errors.Wrap(err, "download file")
	}
	return buf.Bytes(), nil
}

func (s *SlackChannel) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return false, errors.Wrap(err, "get user info")
	}
	return user.IsAdmin, nil
}

func (s *SlackChannel) Rename(ctx context.Context, channelID, name string) error {
	_, err := s.api.RenameConversationContext(ctx, channelID, name)
	return errors.Wrap(err, "rename channel")
}

func normalizeMessage(channelID string, m slack.Message) Message {
	files := make([]File, 0, len(m.Files))
	for _, f := range m.Files {
		files = append(files, File{Name: f.Name, Mimetype: f.Mimetype, URLPrivate: f.URLPrivate})
	}
	return Message{
		Ref:         MessageRef{ChannelID: channelID, Timestamp: m.Timestamp},
		AuthorID:    m.User,
		Bot:         m.BotID != "" || m.SubType == "bot_message",
		Text:        CleanLinkText(m.Text),
		Mentions:    ParseMentions(m.Text),
		Files:       files,
		Attachments: m.Attachments,
	}
}

// ParseMentions extracts the mentioned user ids from raw message text. Slack
// encodes mentions as <@U123ABC> (optionally <@U123ABC|name>).
func ParseMentions(text string) []string {
	var ids []string
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		ids = append(ids, match[1])
	}
	return ids
}

// CleanLinkText strips the platform's <url> and <url|label> link markup so
// that a message consisting of a bare image link can be matched against the
// image URL pattern.
func CleanLinkText(text string) string {
	return linkPattern.ReplaceAllString(text, "$1")
}
