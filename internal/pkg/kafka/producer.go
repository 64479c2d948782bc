package kafka

import (
	"Homeport/internal/api/config"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// NotifyProducer 通知事件生产者
type NotifyProducer interface {
	SendNotify(event *NotifyEvent) error
	Close() error
}

type notifyProducerImpl struct {
	producer sarama.SyncProducer
	topic    string
}

func NewNotifyProducer(cfg *config.Config) (NotifyProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return &notifyProducerImpl{
		producer: producer,
		topic:    cfg.KafkaNotify.Topic,
	}, nil
}

// SendNotify 按接收者分区投递，同一接收者的通知保持顺序
func (s *notifyProducerImpl) SendNotify(event *NotifyEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.RecipientID, 10)),
		Value: sarama.ByteEncoder(value),
	})
	return err
}

func (s *notifyProducerImpl) Close() error {
	return s.producer.Close()
}
