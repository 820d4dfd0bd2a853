package bot

// This handler is for the platform's slash commands
// https://api.slack.com/interactivity/slash-commands

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/creepcomp/gallerybot/admin"
	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/creepcomp/gallerybot/weather"
	"github.com/gin-gonic/gin"
)

const purgeNoticeTTL = 5 * time.Second

// CommandChannel is the slice of the platform API slash commands need.
type CommandChannel interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	Notice(ctx context.Context, channelID, text string, ttl time.Duration)
}

type CommandForm struct {
	Command   string `form:"command" binding:"required"`
	Text      string `form:"text"`
	ChannelId string `form:"channel_id" binding:"required"`
	UserId    string `form:"user_id" binding:"required"`
}

func ephemeralResponse(c *gin.Context, text string) {
	c.JSON(http.StatusOK, gin.H{
		"response_type": "ephemeral",
		"text":          text,
	})
}

func channelResponse(c *gin.Context, text string) {
	c.JSON(http.StatusOK, gin.H{
		"response_type": "in_channel",
		"text":          text,
	})
}

// SlashCommandHandler serves /purge and the weather lookups.
func SlashCommandHandler(channel CommandChannel, purger *admin.Purger, wx *weather.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form CommandForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
			return
		}

		ctx := c.Request.Context()

		switch form.Command {
		case "/purge":
			handlePurge(c, channel, purger, form)

		case "/metar":
			data, err := wx.Metar(ctx, form.Text)
			if err != nil {
				Logger.Log.Errorf("metar lookup for %q failed: %v", form.Text, err)
			}
			channelResponse(c, weather.FormatReport("METAR", form.Text, data))

		case "/taf":
			data, err := wx.Taf(ctx, form.Text)
			if err != nil {
				Logger.Log.Errorf("taf lookup for %q failed: %v", form.Text, err)
			}
			channelResponse(c, weather.FormatReport("TAF", form.Text, data))

		case "/airport":
			data, err := wx.Airport(ctx, form.Text)
			if err != nil {
				Logger.Log.Errorf("airport lookup for %q failed: %v", form.Text, err)
			}
			channelResponse(c, weather.FormatReport("Airport Info", form.Text, data))

		default:
			c.JSON(http.StatusNotFound, gin.H{
				"response_type": "ephemeral",
				"text":          "Sorry, slash commando, that's an unknown command",
			})
		}
	}
}

func handlePurge(c *gin.Context, channel CommandChannel, purger *admin.Purger, form CommandForm) {
	ctx := c.Request.Context()

	isAdmin, err := channel.IsAdmin(ctx, form.UserId)
	if err != nil {
		Logger.Log.Errorf("failed to check admin status of %s: %v", form.UserId, err)
		ephemeralResponse(c, "Could not verify your permissions, try again later.")
		return
	}
	if !isAdmin {
		ephemeralResponse(c, "You need to be an administrator to use this command.")
		return
	}

	limit, err := strconv.Atoi(strings.TrimSpace(form.Text))
	if err != nil || limit < 1 {
		ephemeralResponse(c, "Please specify a number greater than 0.")
		return
	}

	ephemeralResponse(c, fmt.Sprintf("Deleting up to %d messages...", limit))

	// Deletions are paced and can outlive the command's response window.
	go func() {
		deleted, err := purger.Purge(context.Background(), form.ChannelId, limit)
		if err != nil {
			Logger.Log.Errorf("purge in %s failed after %d deletions: %v", form.ChannelId, deleted, err)
			channel.Notice(context.Background(), form.ChannelId,
				"I don't have permission to delete messages in this channel.", purgeNoticeTTL)
			return
		}
		channel.Notice(context.Background(), form.ChannelId,
			fmt.Sprintf("Deleted %d messages.", deleted), purgeNoticeTTL)
	}()
}
