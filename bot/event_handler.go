package bot

// This handler receives the platform's event callbacks (Events API).
// https://api.slack.com/apis/connections/events-api
// It verifies the URL challenge handshake, normalizes message events from the
// moderated channel and publishes them onto the event bus; the gallery
// consumer picks them up from there. Acking before processing keeps us inside
// the platform's response deadline.

import (
	"encoding/json"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/creepcomp/gallerybot/gallery"
	"github.com/creepcomp/gallerybot/platform"
	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type eventEnvelope struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	Event     json.RawMessage `json:"event"`
}

type fileInfo struct {
	Name       string `json:"name"`
	Mimetype   string `json:"mimetype"`
	URLPrivate string `json:"url_private"`
}

type messageEvent struct {
	Type    string     `json:"type"`
	SubType string     `json:"subtype"`
	User    string     `json:"user"`
	BotID   string     `json:"bot_id"`
	Text    string     `json:"text"`
	Ts      string     `json:"ts"`
	Channel string     `json:"channel"`
	Files   []fileInfo `json:"files"`
}

func normalizeEvent(ev messageEvent) platform.Message {
	files := make([]platform.File, 0, len(ev.Files))
	for _, f := range ev.Files {
		files = append(files, platform.File{Name: f.Name, Mimetype: f.Mimetype, URLPrivate: f.URLPrivate})
	}
	return platform.Message{
		Ref:      platform.MessageRef{ChannelID: ev.Channel, Timestamp: ev.Ts},
		AuthorID: ev.User,
		Bot:      ev.BotID != "" || ev.SubType == "bot_message",
		Text:     platform.CleanLinkText(ev.Text),
		Mentions: platform.ParseMentions(ev.Text),
		Files:    files,
	}
}

// EventHandler handles POSTs from the Events API subscription.
func EventHandler(bus *gochannel.GoChannel, galleryChannelID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var envelope eventEnvelope
		if err := c.ShouldBindJSON(&envelope); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
			return
		}

		// One-time endpoint ownership handshake.
		if envelope.Type == "url_verification" {
			c.JSON(http.StatusOK, gin.H{"challenge": envelope.Challenge})
			return
		}

		if envelope.Type != "event_callback" {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}

		var ev messageEvent
		if err := json.Unmarshal(envelope.Event, &ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
			return
		}

		// The platform asks for a prompt acknowledgment; everything after
		// this line happens off the request path.
		c.JSON(http.StatusOK, gin.H{"ok": true})

		if ev.Type != "message" || ev.Channel != galleryChannelID {
			return
		}
		// Edited/deleted notifications carry a subtype; only fresh user
		// messages and bot messages are classified.
		if ev.SubType != "" && ev.SubType != "bot_message" && ev.SubType != "file_share" {
			return
		}

		incoming := normalizeEvent(ev)
		payload, err := json.Marshal(incoming)
		if err != nil {
			Logger.Log.Errorf("failed to encode message event %s: %v", incoming.Ref, err)
			return
		}
		if err := bus.Publish(gallery.MessageTopic, message.NewMessage(uuid.New().String(), payload)); err != nil {
			Logger.Log.Errorf("failed to publish message event %s: %v", incoming.Ref, err)
		}
	}
}
