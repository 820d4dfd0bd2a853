package gallery

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/creepcomp/gallerybot/platform"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestConsumerClassifiesBusMessages(t *testing.T) {
	channel := newFakeChannel()
	classifier, _ := newTestClassifier(channel)

	eventbus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	consumer := NewConsumer(ConsumerConfig{Name: "gallery_consumer"}, eventbus, classifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumer.RunModule(ctx)

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	incoming := platform.Message{
		Ref:      platform.MessageRef{ChannelID: "C_GALLERY", Timestamp: "10.000000"},
		AuthorID: "42",
		Files:    []platform.File{{Name: "cat.png", Mimetype: "image/png"}},
	}
	payload, err := json.Marshal(incoming)
	require.NoError(t, err)
	require.NoError(t, eventbus.Publish(MessageTopic, message.NewMessage(uuid.New().String(), payload)))

	require.Eventually(t, func() bool {
		return channel.sentCount() == 1
	}, time.Second, 10*time.Millisecond, "the classifier should publish exactly one post")
}
