package main

import (
	"context"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/creepcomp/gallerybot/admin"
	"github.com/creepcomp/gallerybot/bot"
	"github.com/creepcomp/gallerybot/clock"
	"github.com/creepcomp/gallerybot/engine"
	"github.com/creepcomp/gallerybot/gallery"
	"github.com/creepcomp/gallerybot/platform"
	"github.com/creepcomp/gallerybot/utils/dotenv"
	. "github.com/creepcomp/gallerybot/utils/flag"
	. "github.com/creepcomp/gallerybot/utils/log"
	"github.com/creepcomp/gallerybot/weather"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	Log.Info("bot server shutdown")
}

func main() {
	defer cleanup()
	ParseFlags()
	InitLogger()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	galleryChannelID := os.Getenv("GALLERY_CHANNEL_ID")
	if galleryChannelID == "" {
		panic("GALLERY_CHANNEL_ID is required")
	}

	api := slack.New(os.Getenv("SLACK_BOT_TOKEN"))
	channel := platform.NewSlackChannel(api, os.Getenv("ARCHIVE_CHANNEL_ID"))

	eventbus := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            100,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewStdLogger(false, false),
	)

	httpClient := gallery.NewHttpClient()
	cache := gallery.NewOwnerCache()
	validator := gallery.NewValidator(httpClient)
	scanner := gallery.NewScanner(channel)
	renderer := gallery.NewRenderer(channel, httpClient, cache)
	classifier := gallery.NewClassifier(channel, validator, scanner, renderer, cache)

	editWorkflow := gallery.NewEditWorkflow(channel)
	deleteWorkflow := gallery.NewDeleteWorkflow(channel, cache)

	// Initialize all engine modules here.
	modules := []engine.Module{
		// Consumer feeds bus message events through the classifier.
		gallery.NewConsumer(gallery.ConsumerConfig{Name: "gallery_consumer"}, eventbus, classifier),
	}
	if clockChannelID := os.Getenv("CLOCK_CHANNEL_ID"); clockChannelID != "" {
		// Clock renames its channel to the current UTC time every minute.
		modules = append(modules, clock.New(clock.Config{
			Name:      "clock",
			ChannelID: clockChannelID,
			Interval:  time.Minute,
		}, channel))
	}

	eng := engine.NewEngine(modules, eventbus)
	go eng.Run(context.Background())

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))

	router.POST("/bot/event", bot.EventHandler(eventbus, galleryChannelID))

	router.POST("/bot/interaction", bot.InteractionHandler(editWorkflow, deleteWorkflow))

	router.POST("/bot/cmd", bot.SlashCommandHandler(channel, admin.NewPurger(channel), weather.NewClient()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"message": "Gallery bot - API not found"})
	})

	Log.Info("bot server starts up")
	router.Run(":9090")
}
