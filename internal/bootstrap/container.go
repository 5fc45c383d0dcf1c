package bootstrap

import (
	"context"
	"log"

	"second-brain-be/internal/config"
	"second-brain-be/internal/controller"
	"second-brain-be/internal/handler"
	"second-brain-be/internal/pkg/logger"
	"second-brain-be/internal/pkg/mailer"
	"second-brain-be/internal/pkg/serverutils"
	"second-brain-be/internal/repository/memory"
	"second-brain-be/internal/repository/unitofwork"
	"second-brain-be/internal/service"
	"second-brain-be/internal/websocket"
	"second-brain-be/pkg/llm"
	"second-brain-be/pkg/llm/gemini"

	pktNats "second-brain-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const syncTopic = "sync"

type Container struct {
	AuthController   controller.IAuthController
	FolderController controller.IFolderController
	NoteController   controller.INoteController
	ChatController   controller.IChatController

	SyncHandler  *handler.SyncHandler
	WebSocketHub *websocket.Hub

	// Background services, started by main.go.
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// In-process bus for sync fan-out.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional: without it the app still works, only external
	// consumers go dark.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Redis is optional too, it only matters when running more than one
	// instance behind a load balancer.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
			rdb = nil
		}
	}

	wsLogger := logger.NewIsolatedLogger("logs/sync.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	revokedTokens := memory.NewTokenRepository()
	jwtMiddleware := serverutils.NewJwtMiddleware(revokedTokens)

	publisherService := service.NewPublisherService(pubSub, syncTopic)
	consumerService := service.NewConsumerService(pubSub, syncTopic, wsHub, wsLogger)

	llmProvider := gemini.NewProvider(cfg.Ai.GeminiApiKey, cfg.Ai.Model)
	log.Printf("[INFO] Using LLM Provider: GEMINI (%s)", cfg.Ai.Model)

	authService := service.NewAuthService(uowFactory, revokedTokens, emailService, natsPub, sysLogger)
	folderService := service.NewFolderService(uowFactory, publisherService, natsPub, sysLogger)
	noteService := service.NewNoteService(uowFactory, publisherService, natsPub, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		llm.DefaultRetryConfig(),
		cfg.Ai.GeminiApiKey != "",
		sysLogger,
	)

	return &Container{
		AuthController:   controller.NewAuthController(authService, jwtMiddleware),
		FolderController: controller.NewFolderController(folderService, jwtMiddleware),
		NoteController:   controller.NewNoteController(noteService, jwtMiddleware),
		ChatController:   controller.NewChatController(chatService, jwtMiddleware),

		SyncHandler:  handler.NewSyncHandler(wsHub, wsLogger),
		WebSocketHub: wsHub,

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}
