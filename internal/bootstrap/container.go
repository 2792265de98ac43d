package bootstrap

import (
	"context"
	"fmt"
	"log"

	"data-explorer-be/internal/config"
	"data-explorer-be/internal/controller"
	"data-explorer-be/internal/handler"
	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/internal/repository/contract"
	"data-explorer-be/internal/repository/memory"
	"data-explorer-be/internal/repository/redisstore"
	"data-explorer-be/internal/service"
	"data-explorer-be/internal/websocket"
	"data-explorer-be/pkg/authenticator"
	"data-explorer-be/pkg/events"
	"data-explorer-be/pkg/llm/factory"
	pktNats "data-explorer-be/pkg/nats"
	"data-explorer-be/pkg/sample"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	PageController    controller.IPageController
	AuthController    controller.IAuthController
	DatasetController controller.IDatasetController
	ChatController    controller.IChatController

	// WebSockets
	ChatSocketHandler *handler.ChatSocketHandler
	WebSocketHub      *websocket.Hub

	// ConsumerService is nil when activity events go to NATS.
	ConsumerService service.IConsumerService

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	features := cfg.Features()
	c := &Container{Logger: sysLogger}

	custom, err := config.LoadCustomConfig(cfg.Page.CustomConfigPath)
	if err != nil {
		return nil, err
	}

	// 2. Infrastructure
	var rdb *redis.Client
	var sessions contract.SessionRepository
	switch cfg.Session.Store {
	case "redis":
		opt, err := redis.ParseURL(cfg.Session.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Session.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { rdb.Close() })
		store, err := redisstore.NewSessionRepository(rdb, cfg.Session.TTL, cfg.Session.Secret)
		if err != nil {
			c.Close()
			return nil, err
		}
		sessions = store
	case "memory", "":
		sessions = memory.NewSessionRepository(cfg.Session.TTL)
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.Session.Store)
	}

	// 3. Event bus
	var publisher events.Publisher
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL, cfg.Events.Topic)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, natsPub.Close)
		publisher = natsPub
	} else {
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewStdLogger(false, false))
		c.closers = append(c.closers, func() { pubSub.Close() })
		publisher = events.NewChannelBus(pubSub, cfg.Events.Topic)
		activityLogger := logger.NewIsolatedLogger("logs/activity.log")
		c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, activityLogger)
	}

	// 4. Services
	var authService service.IAuthService
	if features.Auth {
		var source authenticator.Source = authenticator.FileSource{Path: cfg.Auth.ConfigPath}
		if features.AuthSource == config.AuthSourceSecrets {
			source = authenticator.SecretSource{Path: cfg.Auth.SecretsPath}
		}
		if _, err := source.Load(ctx); err != nil {
			return nil, fmt.Errorf("auth credentials (%s): %w", source.Name(), err)
		}
		authService = service.NewAuthService(authenticator.New(source), publisher, sysLogger)
	}

	var chatService service.IChatService
	if features.Chat {
		newLLM := factory.New(factory.Settings{
			Model:   cfg.Ai.Model,
			BaseURL: cfg.Ai.BaseURL,
			Timeout: cfg.Ai.Timeout,
		})
		chatService = service.NewChatService(custom.Chat.Providers, newLLM, publisher, sysLogger)
	}

	var samples sample.Store
	if features.SampleData {
		samples = sample.LocalStore{Path: cfg.Sample.Path}
		if cfg.Sample.S3Bucket != "" {
			s3, err := sample.NewS3Store(sample.S3Config{
				Endpoint:  cfg.Sample.S3Endpoint,
				AccessKey: cfg.Sample.S3AccessKey,
				SecretKey: cfg.Sample.S3SecretKey,
				Bucket:    cfg.Sample.S3Bucket,
				Object:    cfg.Sample.S3Object,
				UseSSL:    cfg.Sample.S3UseSSL,
			})
			if err != nil {
				return nil, err
			}
			samples = s3
		}
	}

	datasetService := service.NewDatasetService(features, custom, publisher, sysLogger)
	pageService := service.NewPageService(
		service.PageSettings{
			Title:     cfg.Page.Title,
			Icon:      cfg.Page.Icon,
			Variant:   cfg.Page.Variant,
			Features:  features,
			SampleURL: "/api/dataset/sample",
		},
		sessions,
		authService,
		datasetService,
		chatService,
		samples,
		sysLogger,
	)

	// 5. WebSocket hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	hubCtx, stopHub := context.WithCancel(ctx)
	go wsHub.Run(hubCtx)
	c.closers = append(c.closers, stopHub)

	log.Printf("[INFO] Page variant %d (auth=%v source=%s chat=%v sessions=%s)",
		cfg.Page.Variant, features.Auth, features.AuthSource, features.Chat, cfg.Session.Store)

	// 6. Controllers
	c.PageController = controller.NewPageController(pageService)
	c.AuthController = controller.NewAuthController(pageService)
	c.DatasetController = controller.NewDatasetController(pageService)
	c.ChatController = controller.NewChatController(pageService)
	c.ChatSocketHandler = handler.NewChatSocketHandler(pageService, wsHub, sysLogger)
	c.WebSocketHub = wsHub
	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}
