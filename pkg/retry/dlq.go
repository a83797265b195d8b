package retry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DLQMessage is a failed message as published to the dead letter queue
type DLQMessage struct {
	ID             string                 `json:"id"`
	OriginalTopic  string                 `json:"original_topic"`
	OriginalKey    string                 `json:"original_key"`
	Payload        json.RawMessage        `json:"payload"`
	Headers        map[string]string      `json:"headers,omitempty"`
	Error          string                 `json:"error"`
	ErrorCode      string                 `json:"error_code,omitempty"`
	Attempts       int                    `json:"attempts"`
	FirstAttemptAt time.Time              `json:"first_attempt_at"`
	LastAttemptAt  time.Time              `json:"last_attempt_at"`
	MovedToDLQAt   time.Time              `json:"moved_to_dlq_at"`
	Source         string                 `json:"source"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// DLQPublisher publishes failed messages to a dead letter queue
type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, msg *DLQMessage) error
	// GetDLQTopic returns the DLQ topic for an original topic
	GetDLQTopic(originalTopic string) string
}

// DLQConfig configures DLQ topic naming and attribution
type DLQConfig struct {
	// TopicSuffix is appended to the original topic (default: ".dlq")
	TopicSuffix string
	// Source is the service name stamped on DLQ messages
	Source string
}

// DefaultDLQConfig returns default DLQ configuration
func DefaultDLQConfig() *DLQConfig {
	return &DLQConfig{
		TopicSuffix: ".dlq",
		Source:      "unknown",
	}
}

// KafkaPublisher publishes JSON payloads to a topic
type KafkaPublisher interface {
	PublishJSON(ctx context.Context, topic string, key string, data interface{}, headers map[string]string) error
}

// PublishJSON is the producer surface the adapter wraps
type PublishJSON interface {
	ProduceJSON(ctx context.Context, topic string, key string, data interface{}, headers map[string]string) error
}

// KafkaProducerAdapter adapts a Kafka producer to KafkaPublisher
type KafkaProducerAdapter struct {
	Producer PublishJSON
}

// PublishJSON publishes JSON data to Kafka
func (a *KafkaProducerAdapter) PublishJSON(ctx context.Context, topic string, key string, data interface{}, headers map[string]string) error {
	return a.Producer.ProduceJSON(ctx, topic, key, data, headers)
}

// KafkaDLQPublisher publishes failed messages to Kafka DLQ topics
type KafkaDLQPublisher struct {
	producer KafkaPublisher
	config   *DLQConfig
}

// NewKafkaDLQPublisher creates a new Kafka DLQ publisher
func NewKafkaDLQPublisher(producer KafkaPublisher, config *DLQConfig) *KafkaDLQPublisher {
	if config == nil {
		config = DefaultDLQConfig()
	}
	return &KafkaDLQPublisher{
		producer: producer,
		config:   config,
	}
}

// PublishToDLQ publishes a message to the dead letter queue. The failure
// context rides in headers so DLQ consumers can triage without decoding
// the payload.
func (p *KafkaDLQPublisher) PublishToDLQ(ctx context.Context, msg *DLQMessage) error {
	if msg == nil {
		return fmt.Errorf("DLQ message cannot be nil")
	}

	dlqTopic := p.GetDLQTopic(msg.OriginalTopic)
	msg.MovedToDLQAt = time.Now()
	msg.Source = p.config.Source

	headers := map[string]string{
		"content_type":    "application/json",
		"original_topic":  msg.OriginalTopic,
		"error":           msg.Error,
		"attempts":        fmt.Sprintf("%d", msg.Attempts),
		"moved_to_dlq_at": msg.MovedToDLQAt.Format(time.RFC3339),
		"source":          msg.Source,
	}
	if msg.ErrorCode != "" {
		headers["error_code"] = msg.ErrorCode
	}
	for k, v := range msg.Headers {
		if _, exists := headers[k]; !exists {
			headers["original_"+k] = v
		}
	}

	return p.producer.PublishJSON(ctx, dlqTopic, msg.OriginalKey, msg, headers)
}

// GetDLQTopic returns the DLQ topic for an original topic
func (p *KafkaDLQPublisher) GetDLQTopic(originalTopic string) string {
	return originalTopic + p.config.TopicSuffix
}

// DLQHandler retries an operation and moves the message to the DLQ when
// the retries are exhausted.
type DLQHandler struct {
	retrier   *Retrier
	publisher DLQPublisher
	config    *DLQHandlerConfig
}

// DLQHandlerConfig configures the handler
type DLQHandlerConfig struct {
	RetryConfig *Config
	// Source is the service name stamped on DLQ messages
	Source string
	// OnDLQ is called when a message is moved to the DLQ
	OnDLQ func(msg *DLQMessage)
}

// DefaultDLQHandlerConfig returns default DLQ handler configuration
func DefaultDLQHandlerConfig() *DLQHandlerConfig {
	return &DLQHandlerConfig{
		RetryConfig: DefaultConfig(),
		Source:      "unknown",
	}
}

// NewDLQHandler creates a new DLQ handler
func NewDLQHandler(publisher DLQPublisher, config *DLQHandlerConfig) *DLQHandler {
	if config == nil {
		config = DefaultDLQHandlerConfig()
	}
	return &DLQHandler{
		retrier:   New(config.RetryConfig),
		publisher: publisher,
		config:    config,
	}
}

// MessageContext identifies the message being processed
type MessageContext struct {
	ID      string
	Topic   string
	Key     string
	Payload json.RawMessage
	Headers map[string]string
	// FirstAttemptAt is when processing started (set on first use)
	FirstAttemptAt time.Time
	Metadata       map[string]interface{}
}

// ProcessWithDLQ runs the operation with retries; when they are exhausted
// the message moves to the DLQ and the operation error is returned. A DLQ
// publish failure is returned instead so the caller does not commit the
// message as handled.
func (h *DLQHandler) ProcessWithDLQ(ctx context.Context, msgCtx *MessageContext, op Operation) error {
	if msgCtx.FirstAttemptAt.IsZero() {
		msgCtx.FirstAttemptAt = time.Now()
	}

	var lastErr error
	result := h.retrier.DoWithCallback(ctx, op, func(attempt int, err error, nextInterval time.Duration) {
		lastErr = err
	})
	if result.Err == nil {
		return nil
	}

	errMsg := result.Err.Error()
	if result.LastError != nil {
		errMsg = result.LastError.Error()
	}

	dlqMsg := &DLQMessage{
		ID:             msgCtx.ID,
		OriginalTopic:  msgCtx.Topic,
		OriginalKey:    msgCtx.Key,
		Payload:        msgCtx.Payload,
		Headers:        msgCtx.Headers,
		Error:          errMsg,
		Attempts:       result.Attempts,
		FirstAttemptAt: msgCtx.FirstAttemptAt,
		LastAttemptAt:  time.Now(),
		Source:         h.config.Source,
		Metadata:       msgCtx.Metadata,
	}

	if h.config.OnDLQ != nil {
		h.config.OnDLQ(dlqMsg)
	}

	if publishErr := h.publisher.PublishToDLQ(ctx, dlqMsg); publishErr != nil {
		return fmt.Errorf("failed to publish to DLQ: %w (original error: %v)", publishErr, lastErr)
	}
	return result.Err
}
