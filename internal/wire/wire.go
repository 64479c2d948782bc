package wire

import (
	"Homeport/internal/api"
	"Homeport/internal/api/config"
	"Homeport/internal/api/handler"
	"Homeport/internal/job"
	"Homeport/internal/pkg/cron"
	"Homeport/internal/pkg/gateway"
	"Homeport/internal/pkg/kafka"
	mongodb "Homeport/internal/pkg/mongo"
	"Homeport/internal/pkg/querycache"
	"Homeport/internal/repository"
	"Homeport/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	Producer     kafka.NotifyProducer
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	profileRepo := repository.NewProfileRepo(db)
	convRepo := repository.NewConversationRepo(db)
	msgRepo := repository.NewMessageRepo(db)
	deliveryRepo := repository.NewDeliveryRepo(db)
	labelRepo := repository.NewLabelRepo(db)
	preferenceRepo := repository.NewPreferenceRepo(db)
	propertyRepo := repository.NewPropertyRepo(db)
	maintenanceRepo := repository.NewMaintenanceRepo(db)
	noticeRepo := mongodb.NewNoticeRepo(mongoDB)

	cache := querycache.New()
	gw := gateway.NewClient(cfg.NotifyGateway)

	producer, err := kafka.NewNotifyProducer(cfg)
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(profileRepo)
	notifyService := service.NewNotifyService(preferenceRepo, labelRepo, producer)
	inboxService := service.NewInboxService(convRepo, msgRepo, deliveryRepo, labelRepo, profileRepo, cache)
	convService := service.NewConversationService(convRepo, msgRepo, deliveryRepo, labelRepo, profileRepo, notifyService, cache)
	msgService := service.NewMessageService(convRepo, msgRepo, profileRepo, notifyService, cache)
	noticeService := service.NewNoticeService(noticeRepo, profileRepo)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	propertyService := service.NewPropertyService(propertyRepo)
	maintenanceService := service.NewMaintenanceService(maintenanceRepo, propertyRepo, convService)

	handlers := &api.HandlersGroup{
		AuthHandler:         handler.NewAuthHandler(authService),
		InboxHandler:        handler.NewInboxHandler(inboxService),
		ConversationHandler: handler.NewConversationHandler(convService),
		MessageHandler:      handler.NewMessageHandler(msgService),
		NoticeHandler:       handler.NewNoticeHandler(noticeService, preferenceService),
		PropertyHandler:     handler.NewPropertyHandler(propertyService),
		MaintenanceHandler:  handler.NewMaintenanceHandler(maintenanceService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, noticeRepo, profileRepo, gw)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewThreadRecountJob(convRepo),
		job.NewCacheSweepJob(cache),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		Producer:     producer,
	}, nil
}
