package gallery

import (
	"context"
	"sync"
	"time"

	"github.com/creepcomp/gallerybot/platform"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

type sentMessage struct {
	ChannelID  string
	Attachment slack.Attachment
	Controls   []slack.Block
}

type updateCall struct {
	Ref        platform.MessageRef
	Attachment slack.Attachment
}

type ephemeralCall struct {
	ChannelID string
	UserID    string
	Text      string
}

// fakeChannel records every platform call so tests can assert on the exact
// mutations a workflow performed.
type fakeChannel struct {
	mu sync.Mutex

	// history is returned newest first, like the real platform.
	history  []platform.Message
	fileData []byte
	hostedAt string

	nextTimestamp string

	sent       []sentMessage
	updates    []updateCall
	deleted    []platform.MessageRef
	ephemerals []ephemeralCall
	notices    []string
	forms      []slack.ModalViewRequest
	renames    []string

	sendErr   error
	updateErr error
	deleteErr error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		fileData:      []byte("image-bytes"),
		hostedAt:      "https://files.example.com/rehosted.png",
		nextTimestamp: "1700000000.000100",
	}
}

func (f *fakeChannel) Send(ctx context.Context, channelID string, attachment slack.Attachment, controls []slack.Block) (platform.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return platform.MessageRef{}, f.sendErr
	}
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Attachment: attachment, Controls: controls})
	ref := platform.MessageRef{ChannelID: channelID, Timestamp: f.nextTimestamp}
	f.history = append([]platform.Message{{Ref: ref, Bot: true, Attachments: []slack.Attachment{attachment}}}, f.history...)
	return ref, nil
}

func (f *fakeChannel) Update(ctx context.Context, ref platform.MessageRef, attachment slack.Attachment, controls []slack.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, updateCall{Ref: ref, Attachment: attachment})
	for i := range f.history {
		if f.history[i].Ref == ref {
			f.history[i].Attachments = []slack.Attachment{attachment}
		}
	}
	return nil
}

func (f *fakeChannel) Delete(ctx context.Context, ref platform.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeChannel) History(ctx context.Context, channelID string, limit int) ([]platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) > limit {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeChannel) Fetch(ctx context.Context, ref platform.MessageRef) (platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, msg := range f.history {
		if msg.Ref == ref {
			return msg, nil
		}
	}
	return platform.Message{}, errors.Errorf("message %s not found", ref)
}

func (f *fakeChannel) Ephemeral(ctx context.Context, channelID, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ephemerals = append(f.ephemerals, ephemeralCall{ChannelID: channelID, UserID: userID, Text: text})
	return nil
}

func (f *fakeChannel) Notice(ctx context.Context, channelID, text string, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, text)
}

func (f *fakeChannel) OpenForm(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, view)
	return nil
}

func (f *fakeChannel) Rehost(ctx context.Context, filename string, data []byte) (string, error) {
	return f.hostedAt, nil
}

func (f *fakeChannel) DownloadFile(ctx context.Context, urlPrivate string) ([]byte, error) {
	return f.fileData, nil
}

func (f *fakeChannel) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return false, nil
}

func (f *fakeChannel) Rename(ctx context.Context, channelID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renames = append(f.renames, name)
	return nil
}

// addPost seeds the fake history with an existing moderated post and returns
// its reference.
func (f *fakeChannel) addPost(post Post, timestamp string) platform.MessageRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := platform.MessageRef{ChannelID: "C_GALLERY", Timestamp: timestamp}
	post.Ref = ref
	f.history = append([]platform.Message{{Ref: ref, Bot: true, Attachments: []slack.Attachment{post.Attachment()}}}, f.history...)
	return ref
}

func (f *fakeChannel) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
