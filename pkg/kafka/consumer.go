package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers       []string
	ConsumerGroup string
	Topics        []string
	ClientID      string
}

// Record is a consumed Kafka record
type Record struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
}

// Consumer wraps a franz-go client consuming as part of a group with
// manual offset commits.
type Consumer struct {
	client *kgo.Client
}

// NewConsumer creates a new Kafka group consumer
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one broker")
	}
	if cfg.ConsumerGroup == "" {
		return nil, fmt.Errorf("kafka consumer requires a consumer group")
	}
	if len(cfg.Topics) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one topic")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.ConsumerGroup),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &Consumer{client: client}, nil
}

// Poll fetches the next batch of records. Blocks until records arrive,
// the context is canceled, or a fatal client error occurs.
func (c *Consumer) Poll(ctx context.Context) ([]*Record, error) {
	fetches := c.client.PollFetches(ctx)
	if fetches.IsClientClosed() {
		return nil, fmt.Errorf("kafka client closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if errs := fetches.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("fetch error on topic %s: %w", errs[0].Topic, errs[0].Err)
	}

	var records []*Record
	fetches.EachRecord(func(r *kgo.Record) {
		rec := &Record{
			Topic:     r.Topic,
			Partition: r.Partition,
			Offset:    r.Offset,
			Key:       r.Key,
			Value:     r.Value,
		}
		if len(r.Headers) > 0 {
			rec.Headers = make(map[string]string, len(r.Headers))
			for _, h := range r.Headers {
				rec.Headers[h.Key] = string(h.Value)
			}
		}
		records = append(records, rec)
	})
	return records, nil
}

// CommitRecords commits the offsets of everything polled so far
func (c *Consumer) CommitRecords(ctx context.Context) error {
	return c.client.CommitUncommittedOffsets(ctx)
}

// Close leaves the group and closes the client
func (c *Consumer) Close() {
	c.client.Close()
}
