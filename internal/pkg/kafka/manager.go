package kafka

import (
	"Homeport/internal/api/config"
	"Homeport/internal/pkg/gateway"
	mongodb "Homeport/internal/pkg/mongo"
	"Homeport/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理通知消费者的生命周期
type ConsumerManager struct {
	notifyConsumer sarama.ConsumerGroup
	notifyHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(
	cfg *config.Config,
	noticeRepo mongodb.NoticeRepo,
	profileRepo repository.ProfileRepo,
	gw *gateway.Client,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	notifyConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaNotify.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		notifyConsumer: notifyConsumer,
		notifyHandler:  NewNotifyHandler(noticeRepo, profileRepo, gw),
	}, nil
}

// Start 启动消费循环并阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaNotify.Topic
		log.Info("Notify consumer started", "topic", topic)
		for {
			if err := m.notifyConsumer.Consume(ctx, []string{topic}, m.notifyHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.notifyConsumer.Close(); err != nil {
		log.Error("Failed to close notify consumer", "err", err)
	}
	return nil
}
