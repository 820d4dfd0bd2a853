package gallery

// A moderated post is physically a single channel message: one attachment
// that carries the rehosted image, the user-editable fields and the owner
// footer, plus an actions block with the two fixed controls. The footer is
// the single source of truth for ownership and must round-trip exactly.

import (
	"github.com/creepcomp/gallerybot/platform"
	"github.com/slack-go/slack"
)

const (
	// Control correlation ids. Fixed, shared by every post; authorization is
	// re-derived from the post footer at interaction time, never from the id.
	EditControlID   = "gallery_edit"
	DeleteControlID = "gallery_delete"

	// DefaultTags is the sentinel shown while a post has no tags.
	DefaultTags = "None"

	tagsFieldTitle  = "Tags"
	controlsBlockID = "gallery_controls"
)

// Post is the parsed form of a moderated post message.
type Post struct {
	Ref platform.MessageRef

	// OwnerID holds the raw footer text. It may be garbage on a tampered
	// message; the ownership gate decides what it means.
	OwnerID string

	Title       string
	Description string
	Mentions    string
	Tags        string
	ImageURL    string
}

// Attachment renders the post back into its message attachment.
func (p Post) Attachment() slack.Attachment {
	return slack.Attachment{
		Title:    p.Title,
		Text:     p.Description,
		ImageURL: p.ImageURL,
		Footer:   p.OwnerID,
		Fields: []slack.AttachmentField{
			{Value: p.Mentions},
			{Title: tagsFieldTitle, Value: p.Tags, Short: true},
		},
	}
}

// PostControls builds the fixed Edit/Delete buttons attached to every post.
func PostControls() []slack.Block {
	edit := slack.NewButtonBlockElement(EditControlID, EditControlID,
		slack.NewTextBlockObject("plain_text", "Edit", false, false))
	edit.Style = slack.StylePrimary

	del := slack.NewButtonBlockElement(DeleteControlID, DeleteControlID,
		slack.NewTextBlockObject("plain_text", "Delete", false, false))
	del.Style = slack.StyleDanger

	return []slack.Block{slack.NewActionBlock(controlsBlockID, edit, del)}
}

// DecodePost parses a channel message into a Post. The second return value is
// false when the message is not a moderated post at all (no attachment).
func DecodePost(msg platform.Message) (Post, bool) {
	if len(msg.Attachments) == 0 {
		return Post{}, false
	}
	att := msg.Attachments[0]

	post := Post{
		Ref:         msg.Ref,
		OwnerID:     att.Footer,
		Title:       att.Title,
		Description: att.Text,
		ImageURL:    att.ImageURL,
		Tags:        DefaultTags,
	}
	for i, field := range att.Fields {
		if field.Title == tagsFieldTitle {
			post.Tags = field.Value
		} else if i == 0 {
			post.Mentions = field.Value
		}
	}
	return post, true
}
