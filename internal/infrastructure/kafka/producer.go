package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// ProductCreatedEvent публикуется после успешной вставки товара.
type ProductCreatedEvent struct {
	EventID        string `json:"event_id"`
	EventTimestamp int64  `json:"event_timestamp"`
	ProductID      int64  `json:"product_id"`
	Name           string `json:"nome"`
	Description    string `json:"descricao"`
	Price          string `json:"preco"`
	ImageURL       string `json:"imagem_url"`
}

type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
	now    func() time.Time
}

// NewProducer создаёт асинхронного писателя: WriteMessage только ставит
// сообщение в батч, ошибки доставки приходят в Completion.
func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	p := &Producer{
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}

	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchSize:              10,
		BatchTimeout:           500 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.completion,
	}

	return p
}

func (p *Producer) WriteMessage(ctx context.Context, req *usecase.WriteMessageReq) error {
	value, err := p.GetPayloadBytes(req)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(req.Product.ID, 10)),
		Value: value,
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *Producer) completion(messages []kafka.Message, err error) {
	if err != nil {
		p.logger.Warnf("Kafka producer error: topic=%s messages=%d: %s", p.cfg.Topic, len(messages), err.Error())
		return
	}

	for _, m := range messages {
		p.logger.Debugf("product created event sent: topic=%s product_id=%s", p.cfg.Topic, m.Key)
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func (p *Producer) GetPayloadBytes(req *usecase.WriteMessageReq) ([]byte, error) {
	product := req.Product

	event := &ProductCreatedEvent{
		EventID:        uuid.NewString(),
		EventTimestamp: p.now().UnixNano(),
		ProductID:      product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price.StringFixed(2),
		ImageURL:       product.ImageURL,
	}

	return json.Marshal(event)
}
