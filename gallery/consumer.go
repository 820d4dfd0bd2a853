package gallery

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/creepcomp/gallerybot/platform"
	Logger "github.com/creepcomp/gallerybot/utils/log"
)

// MessageTopic is the event bus topic carrying normalized channel messages
// from the webhook endpoint to the classifier.
const MessageTopic = "gallery.message"

type ConsumerConfig struct {
	// Name of the consumer module.
	Name string
}

// Consumer subscribes to the message topic and feeds every event through the
// classifier. Running it as an engine module keeps webhook acknowledgment
// decoupled from the platform calls classification needs.
type Consumer struct {
	Config ConsumerConfig

	EventBus   *gochannel.GoChannel
	classifier *Classifier
}

func NewConsumer(config ConsumerConfig, e *gochannel.GoChannel, classifier *Classifier) *Consumer {
	return &Consumer{
		Config:     config,
		EventBus:   e,
		classifier: classifier,
	}
}

func (c *Consumer) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := c.EventBus.Subscribe(ctx, MessageTopic)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()

		incoming := platform.Message{}
		if err := json.Unmarshal(msg.Payload, &incoming); err != nil {
			Logger.Log.Errorf("undecodable message event %s: %v", msg.UUID, err)
			continue
		}

		if err := c.classifier.HandleMessage(ctx, incoming); err != nil {
			Logger.Log.Errorf("failed to handle message %s: %v", incoming.Ref, err)
		}
	}

	return nil
}

func (c *Consumer) Name() string {
	return c.Config.Name
}
