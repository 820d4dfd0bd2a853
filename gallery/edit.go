package gallery

import (
	"context"

	"github.com/creepcomp/gallerybot/platform"
	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

const (
	// EditFormCallbackID correlates a submitted modal back to this workflow.
	EditFormCallbackID = "gallery_edit_form"

	// Form field block ids, shared with the interaction handler that reads
	// the submitted state back out.
	TitleBlockID       = "gallery_edit_title"
	DescriptionBlockID = "gallery_edit_description"
	TagsBlockID        = "gallery_edit_tags"

	// FieldActionID is shared by every input element; fields are addressed by
	// their block id.
	FieldActionID = "value"

	editRejection    = "You can only edit your own images."
	editFailure      = "I couldn't update that post, I may be missing permission."
	corruptRejection = "This post has no readable owner record, so it can't be changed."
)

// FormField describes one input of the edit form: a stateless descriptor
// rather than a type constructed per interaction.
type FormField struct {
	BlockID   string
	Label     string
	Initial   string
	Multiline bool
}

// EditFormFields builds the form descriptors pre-filled with the post's
// current values.
func EditFormFields(post Post) []FormField {
	return []FormField{
		{BlockID: TitleBlockID, Label: "Title", Initial: post.Title},
		{BlockID: DescriptionBlockID, Label: "Description", Initial: post.Description, Multiline: true},
		{BlockID: TagsBlockID, Label: "Tags", Initial: post.Tags},
	}
}

// EditSubmission carries the submitted field values.
type EditSubmission struct {
	Title       string
	Description string
	Tags        string
}

// ApplyEdit merges a submission into a post, field by field. An empty
// submitted title or description leaves the existing value; tags are replaced
// only when the submission differs from the default sentinel, passing through
// the tag rewriter. The owner footer is never touched. Concurrent
// submissions are last-write-wins by construction.
func ApplyEdit(post Post, sub EditSubmission) Post {
	if sub.Title != "" {
		post.Title = sub.Title
	}
	if sub.Description != "" {
		post.Description = sub.Description
	}
	if sub.Tags != "" && sub.Tags != DefaultTags {
		post.Tags = RewriteTags(sub.Tags)
	}
	return post
}

// EditWorkflow drives the edit interaction: gate check, form presentation,
// gated partial update on submission.
type EditWorkflow struct {
	channel platform.Channel
}

func NewEditWorkflow(channel platform.Channel) *EditWorkflow {
	return &EditWorkflow{channel: channel}
}

// HandleButton runs when a user presses the Edit control. The ownership gate
// reads the live post message; on success the pre-filled form is presented.
func (w *EditWorkflow) HandleButton(ctx context.Context, actorID, triggerID string, ref platform.MessageRef) error {
	post, verdict, err := w.gate(ctx, actorID, ref)
	if err != nil {
		return err
	}
	if verdict != Authorized {
		return w.channel.Ephemeral(ctx, ref.ChannelID, actorID, rejectionText(verdict, editRejection))
	}
	return w.channel.OpenForm(ctx, triggerID, buildEditModal(post))
}

// HandleSubmit applies a submitted edit form. The gate re-runs against the
// live post; a form kept open past an ownership change can no longer mutate.
func (w *EditWorkflow) HandleSubmit(ctx context.Context, actorID string, ref platform.MessageRef, sub EditSubmission) error {
	post, verdict, err := w.gate(ctx, actorID, ref)
	if err != nil {
		return err
	}
	if verdict != Authorized {
		return w.channel.Ephemeral(ctx, ref.ChannelID, actorID, rejectionText(verdict, editRejection))
	}

	updated := ApplyEdit(post, sub)
	if err := w.channel.Update(ctx, ref, updated.Attachment(), PostControls()); err != nil {
		// A failed platform call is surfaced to the actor once, no retry.
		if eerr := w.channel.Ephemeral(ctx, ref.ChannelID, actorID, editFailure); eerr != nil {
			Logger.Log.Errorf("failed to notify %s about edit failure on %s: %v", actorID, ref, eerr)
		}
		return errors.Wrap(err, "apply edit")
	}
	return nil
}

func (w *EditWorkflow) gate(ctx context.Context, actorID string, ref platform.MessageRef) (Post, Verdict, error) {
	return gateOnLivePost(ctx, w.channel, actorID, ref)
}

// gateOnLivePost fetches the post message and runs the ownership gate on its
// current footer. Shared by the edit and delete workflows.
func gateOnLivePost(ctx context.Context, channel platform.Channel, actorID string, ref platform.MessageRef) (Post, Verdict, error) {
	msg, err := channel.Fetch(ctx, ref)
	if err != nil {
		return Post{}, Corrupt, errors.Wrap(err, "fetch post")
	}
	post, ok := DecodePost(msg)
	if !ok {
		Logger.Log.Warnf("interaction on %s targets a message that is not a post", ref)
		return Post{}, Corrupt, nil
	}
	verdict := CheckOwner(post, actorID)
	if verdict == Corrupt {
		// Unlike an ordinary authorization miss this is a data integrity
		// problem, keep it visible in logs.
		Logger.Log.Warnf("post %s has corrupt owner footer %q", ref, post.OwnerID)
	}
	return post, verdict, nil
}

func rejectionText(verdict Verdict, unauthorized string) string {
	if verdict == Corrupt {
		return corruptRejection
	}
	return unauthorized
}

func buildEditModal(post Post) slack.ModalViewRequest {
	blocks := []slack.Block{}
	for _, field := range EditFormFields(post) {
		input := slack.NewPlainTextInputBlockElement(nil, FieldActionID)
		input.InitialValue = field.Initial
		input.Multiline = field.Multiline
		blocks = append(blocks, &slack.InputBlock{
			Type:     slack.MBTInput,
			BlockID:  field.BlockID,
			Label:    slack.NewTextBlockObject("plain_text", field.Label, false, false),
			Element:  input,
			Optional: true,
		})
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      EditFormCallbackID,
		PrivateMetadata: post.Ref.String(),
		Title:           slack.NewTextBlockObject("plain_text", "Edit Image Details", false, false),
		Submit:          slack.NewTextBlockObject("plain_text", "Save", false, false),
		Close:           slack.NewTextBlockObject("plain_text", "Cancel", false, false),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}
}
