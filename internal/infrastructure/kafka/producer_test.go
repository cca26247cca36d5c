package kafka

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

func TestGetPayloadBytes(t *testing.T) {
	p := NewProducer(logger.Discard(), &cfg.KafkaCfg{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "products.created"})
	defer p.Close()

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	product := &domain.Product{
		ID:          42,
		Name:        "Cadeira",
		Description: "Madeira",
		Price:       decimal.RequireFromString("149.9"),
		ImageURL:    "https://acc.blob.core.windows.net/produtos/a.png",
	}

	data, err := p.GetPayloadBytes(usecase.NewWriteMessageReq(product))
	if err != nil {
		t.Fatalf("GetPayloadBytes: %v", err)
	}

	var event ProductCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}

	if _, err := uuid.Parse(event.EventID); err != nil {
		t.Errorf("event id %q is not a uuid", event.EventID)
	}
	if event.EventTimestamp != fixed.UnixNano() {
		t.Errorf("timestamp = %d", event.EventTimestamp)
	}
	if event.ProductID != 42 || event.Price != "149.90" || event.ImageURL != product.ImageURL {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestProducerWritesAsync(t *testing.T) {
	p := NewProducer(logger.Discard(), &cfg.KafkaCfg{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "products.created"})
	defer p.Close()

	if !p.writer.Async {
		t.Fatal("writer must be async so a slow broker does not hold the save request")
	}
	if p.writer.Completion == nil {
		t.Fatal("async writer needs a Completion callback to report delivery errors")
	}
}

func TestProducerCompletionLogsDeliveryError(t *testing.T) {
	var buf bytes.Buffer
	p := NewProducer(logger.New(&buf, slog.LevelDebug), &cfg.KafkaCfg{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "products.created"})
	defer p.Close()

	p.writer.Completion([]kafka.Message{{Key: []byte("42")}}, errors.New("broker not available"))

	out := buf.String()
	if !strings.Contains(out, "Kafka producer error") || !strings.Contains(out, "broker not available") {
		t.Fatalf("delivery error not logged: %s", out)
	}

	buf.Reset()
	p.writer.Completion([]kafka.Message{{Key: []byte("42")}}, nil)
	if !strings.Contains(buf.String(), "product_id=42") {
		t.Fatalf("delivery not logged: %s", buf.String())
	}
}
